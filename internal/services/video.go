package services

import (
	"context"
	"strings"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Transformations inserted after "/upload/" in a CDN delivery URL.
const (
	transformHigh   = "q_auto:good,w_1280,h_720"
	transformMedium = "q_auto:eco,w_854,h_480"
	transformLow    = "q_auto:low,w_640,h_360"
)

// OptimizedURLs derives the quality renditions of a CDN video URL. URLs
// without an "/upload/" segment only get their original.
func OptimizedURLs(original string) models.VideoURLs {
	base, rest, ok := strings.Cut(original, "/upload/")
	if !ok || rest == "" {
		return models.VideoURLs{Original: original}
	}
	publicID := rest
	if i := strings.LastIndex(publicID, "."); i > strings.LastIndex(publicID, "/") {
		publicID = publicID[:i]
	}
	rendition := func(t string) string {
		return base + "/upload/" + t + "/" + publicID + ".mp4"
	}
	return models.VideoURLs{
		Original: original,
		High:     rendition(transformHigh),
		Medium:   rendition(transformMedium),
		Low:      rendition(transformLow),
	}
}

// SelectQuality resolves "auto" to medium with data saver on, else high.
func SelectQuality(quality string, dataSaver bool) string {
	switch quality {
	case "", "auto":
		if dataSaver {
			return "medium"
		}
		return "high"
	}
	return quality
}

type VideoStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Reel, error)
	SetOptimized(ctx context.Context, id bson.ObjectID, urls models.VideoURLs, at time.Time) error
}

type VideoService struct {
	reels VideoStore
}

func NewVideoService(reels VideoStore) *VideoService { return &VideoService{reels: reels} }

func (s *VideoService) Optimize(ctx context.Context, reelID bson.ObjectID, videoURL string) (dto.OptimizeVideoResp, error) {
	urls := OptimizedURLs(videoURL)
	if err := s.reels.SetOptimized(ctx, reelID, urls, time.Now().UTC()); err != nil {
		return dto.OptimizeVideoResp{}, err
	}
	return dto.OptimizeVideoResp{Success: true, OptimizedURLs: urls}, nil
}

// Optimized picks the rendition for quality, falling back to the reel's
// uploaded video.
func (s *VideoService) Optimized(ctx context.Context, reelID bson.ObjectID, quality string, dataSaver bool) (dto.OptimizedVideoResp, error) {
	r, err := s.reels.FindByID(ctx, reelID)
	if err != nil {
		return dto.OptimizedVideoResp{}, err
	}
	q := SelectQuality(quality, dataSaver)
	url := r.VideoURL
	if r.VideoURLs != nil {
		if u := r.VideoURLs.For(q); u != "" {
			url = u
		}
	}
	return dto.OptimizedVideoResp{ReelID: reelID.Hex(), Quality: q, URL: url}, nil
}
