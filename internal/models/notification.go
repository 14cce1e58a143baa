package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotiType string

const (
	NotiFollow      NotiType = "FOLLOW"
	NotiLike        NotiType = "LIKE"
	NotiComment     NotiType = "COMMENT"
	NotiCommentLike NotiType = "COMMENT_LIKE"
	NotiReply       NotiType = "REPLY"
)

type Ref struct {
	Entity string        `bson:"entity" json:"entity"` // "post" | "reel" | "user"
	ID     bson.ObjectID `bson:"id"     json:"id"`
}

type Notification struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Recipient bson.ObjectID `bson:"recipient"     json:"recipient"`
	Sender    bson.ObjectID `bson:"sender"        json:"sender"`
	Type      NotiType      `bson:"type"          json:"type"`
	Title     string        `bson:"title"         json:"title"`
	Message   string        `bson:"message"       json:"message"`
	Ref       Ref           `bson:"ref"           json:"ref"`
	IsRead    bool          `bson:"isRead"        json:"isRead"`
	ReadAt    *time.Time    `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"     json:"createdAt"`
}
