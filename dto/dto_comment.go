package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type CreateCommentReq struct {
	Text string `json:"text" example:"nice shot"`
}

// UserSummary is a user reference resolved for display.
type UserSummary struct {
	ID       bson.ObjectID `json:"_id"      example:"66c6248b98c56c39f018e7d2"`
	Username string        `json:"username" example:"frank"`
	Avatar   string        `json:"avatar"   example:"https://cdn.example.com/u/frank.png"`
}

type RecommentResp struct {
	ID        bson.ObjectID `json:"_id"`
	User      UserSummary   `json:"user"`
	Text      string        `json:"text"`
	Likes     []UserSummary `json:"likes"`
	LikeCount int           `json:"likeCount"`
	CreatedAt time.Time     `json:"createdAt"`
}

type CommentResp struct {
	ID             bson.ObjectID   `json:"_id"`
	User           UserSummary     `json:"user"`
	Text           string          `json:"text"`
	Likes          []UserSummary   `json:"likes"`
	LikeCount      int             `json:"likeCount"`
	Recomments     []RecommentResp `json:"recomments"`
	RecommentCount int             `json:"recommentCount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type ListCommentsResp struct {
	Comments []CommentResp `json:"comments"`
	Count    int           `json:"count"`
}
