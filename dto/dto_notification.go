package dto

import (
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotificationResp struct {
	ID        bson.ObjectID   `json:"_id"`
	Sender    UserSummary     `json:"sender"`
	Type      models.NotiType `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Ref       models.Ref      `json:"ref"`
	IsRead    bool            `json:"isRead"`
	CreatedAt time.Time       `json:"createdAt"`
}

type NotificationListResp struct {
	Notifications []NotificationResp `json:"notifications"`
	UnreadCount   int                `json:"unreadCount"`
}
