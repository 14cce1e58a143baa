package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostResp is a post with every user reference resolved.
type PostResp struct {
	ID            bson.ObjectID `json:"_id"`
	Author        UserSummary   `json:"author"`
	Content       string        `json:"content"`
	Image         string        `json:"image,omitempty"`
	VoiceURL      string        `json:"voiceUrl,omitempty"`
	Likes         []UserSummary `json:"likes"`
	LikesCount    int           `json:"likesCount"`
	Comments      []CommentResp `json:"comments"`
	CommentsCount int           `json:"commentsCount"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type PopularPostResp struct {
	PostResp
	EngagementScore int `json:"engagementScore"`
}

type PostUpdatedResp struct {
	Message string   `json:"message"`
	Post    PostResp `json:"post"`
}
