package dto

import (
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ReelResp struct {
	ID          bson.ObjectID     `json:"_id"`
	VideoURL    string            `json:"videoUrl"`
	Thumbnail   string            `json:"thumbnail"`
	Caption     string            `json:"caption"`
	Music       string            `json:"music"`
	Duration    float64           `json:"duration"`
	Author      UserSummary       `json:"author"`
	Likes       []UserSummary     `json:"likes"`
	Comments    []CommentResp     `json:"comments"`
	Views       int64             `json:"views"`
	Shares      int64             `json:"shares"`
	VideoURLs   *models.VideoURLs `json:"videoUrls,omitempty"`
	IsOptimized bool              `json:"isOptimized"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type ReelPageResp struct {
	Reels       []ReelResp `json:"reels"`
	CurrentPage int64      `json:"currentPage"`
	TotalPages  int64      `json:"totalPages"`
	TotalReels  int64      `json:"totalReels"`
}

type OptimizeVideoReq struct {
	VideoURL string `json:"videoUrl" validate:"required,url"`
	ReelID   string `json:"reelId"   validate:"required,len=24,hexadecimal"`
}

type OptimizeVideoResp struct {
	Success       bool             `json:"success"`
	OptimizedURLs models.VideoURLs `json:"optimizedUrls"`
}

type OptimizedVideoResp struct {
	ReelID  string `json:"reelId"`
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

type UploadResp struct {
	ImageURL string `json:"imageUrl"`
}
