package dto

// CursorPage is a newest-first page with an opaque continuation cursor.
type CursorPage[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"comment not found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Post deleted successfully"`
}
