package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultReelMusic = "Original Sound"

// VideoURLs holds the quality renditions of a reel video.
type VideoURLs struct {
	Original string `json:"original"         bson:"original"`
	High     string `json:"high,omitempty"   bson:"high,omitempty"`
	Medium   string `json:"medium,omitempty" bson:"medium,omitempty"`
	Low      string `json:"low,omitempty"    bson:"low,omitempty"`
}

// For returns the URL stored for quality, or "".
func (v VideoURLs) For(quality string) string {
	switch quality {
	case "original":
		return v.Original
	case "high":
		return v.High
	case "medium":
		return v.Medium
	case "low":
		return v.Low
	}
	return ""
}

type Reel struct {
	ID          bson.ObjectID `json:"_id"       bson:"_id,omitempty"`
	VideoURL    string        `json:"videoUrl"  bson:"videoUrl"`
	Thumbnail   string        `json:"thumbnail" bson:"thumbnail"`
	Caption     string        `json:"caption"   bson:"caption"`
	Music       string        `json:"music"     bson:"music"`
	Duration    float64       `json:"duration"  bson:"duration"`
	Author      bson.ObjectID `json:"author"    bson:"author"`
	Likes       LikeSet       `json:"likes"     bson:"likes"`
	CommentTree `bson:",inline"`
	Views       int64      `json:"views"                 bson:"views"`
	Shares      int64      `json:"shares"                bson:"shares"`
	VideoURLs   *VideoURLs `json:"videoUrls,omitempty"   bson:"videoUrls,omitempty"`
	IsOptimized bool       `json:"isOptimized"           bson:"isOptimized"`
	OptimizedAt *time.Time `json:"optimizedAt,omitempty" bson:"optimizedAt,omitempty"`
	Version     int64      `json:"-"                     bson:"version"`
	CreatedAt   time.Time  `json:"createdAt"             bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"             bson:"updatedAt"`
}

func (r *Reel) ContentID() bson.ObjectID { return r.ID }
func (r *Reel) AuthorID() bson.ObjectID  { return r.Author }
func (r *Reel) Revision() int64          { return r.Version }
