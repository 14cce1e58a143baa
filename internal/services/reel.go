package services

import (
	"context"
	"strings"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/FrankWaweru369/Infinity-backend/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const (
	defaultReelPage = 10
	maxReelPage     = 50
)

type ReelStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Reel, error)
	Create(ctx context.Context, r *models.Reel) error
	Page(ctx context.Context, filter bson.M, page, limit int64) ([]models.Reel, int64, error)
	ListByAuthor(ctx context.Context, author bson.ObjectID) ([]models.Reel, error)
	IncViews(ctx context.Context, id bson.ObjectID) (*models.Reel, error)
	IncShares(ctx context.Context, id bson.ObjectID) (*models.Reel, error)
	ToggleLike(ctx context.Context, id, userID bson.ObjectID) (bool, error)
	Delete(ctx context.Context, id, author bson.ObjectID) (*models.Reel, error)
}

type ReelService struct {
	reels    ReelStore
	views    *Views
	blobs    storage.Blob
	notifier engagement.Notifier
	log      *zap.Logger
}

func NewReelService(reels ReelStore, views *Views, blobs storage.Blob, notifier engagement.Notifier, log *zap.Logger) *ReelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReelService{reels: reels, views: views, blobs: blobs, notifier: notifier, log: log}
}

// Page lists reels newest first. page is 1-based; bad values fall back to defaults.
func (s *ReelService) Page(ctx context.Context, page, limit int64) (dto.ReelPageResp, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultReelPage
	}
	if limit > maxReelPage {
		limit = maxReelPage
	}
	items, total, err := s.reels.Page(ctx, nil, page, limit)
	if err != nil {
		return dto.ReelPageResp{}, err
	}
	views, err := s.views.Reels(ctx, items)
	if err != nil {
		return dto.ReelPageResp{}, err
	}
	return dto.ReelPageResp{
		Reels:       views,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		TotalReels:  total,
	}, nil
}

func (s *ReelService) ByAuthor(ctx context.Context, author bson.ObjectID) ([]dto.ReelResp, error) {
	items, err := s.reels.ListByAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	return s.views.Reels(ctx, items)
}

// View returns a reel and counts the view.
func (s *ReelService) View(ctx context.Context, id bson.ObjectID) (dto.ReelResp, error) {
	r, err := s.reels.IncViews(ctx, id)
	if err != nil {
		return dto.ReelResp{}, err
	}
	return s.views.Reel(ctx, r)
}

func (s *ReelService) Share(ctx context.Context, id bson.ObjectID) (dto.ReelResp, error) {
	r, err := s.reels.IncShares(ctx, id)
	if err != nil {
		return dto.ReelResp{}, err
	}
	return s.views.Reel(ctx, r)
}

func (s *ReelService) Create(ctx context.Context, uid bson.ObjectID, caption, music string, video *Upload) (dto.ReelResp, error) {
	if uid.IsZero() {
		return dto.ReelResp{}, apperr.ErrUnauthorized
	}
	if video == nil {
		return dto.ReelResp{}, apperr.Invalid("video", "video file is required")
	}
	url, err := s.blobs.Put(ctx, "reels", video.Name, video.ContentType, video.Body, video.Size)
	if err != nil {
		return dto.ReelResp{}, apperr.Storage("store reel video", err)
	}
	r := &models.Reel{
		VideoURL: url,
		Caption:  strings.TrimSpace(caption),
		Music:    strings.TrimSpace(music),
		Author:   uid,
	}
	if err := s.reels.Create(ctx, r); err != nil {
		s.discard(url)
		return dto.ReelResp{}, err
	}
	return s.views.Reel(ctx, r)
}

func (s *ReelService) ToggleLike(ctx context.Context, id, uid bson.ObjectID) (dto.ReelResp, error) {
	if uid.IsZero() {
		return dto.ReelResp{}, apperr.ErrUnauthorized
	}
	liked, err := s.reels.ToggleLike(ctx, id, uid)
	if err != nil {
		return dto.ReelResp{}, err
	}
	r, err := s.reels.FindByID(ctx, id)
	if err != nil {
		return dto.ReelResp{}, err
	}
	if liked && r.Author != uid {
		s.notifier.Notify(models.NotiLike, r.Author, uid, models.Ref{Entity: apperr.KindReel, ID: id})
	}
	return s.views.Reel(ctx, r)
}

// Delete removes the caller's own reel and its video.
func (s *ReelService) Delete(ctx context.Context, id, uid bson.ObjectID) error {
	if uid.IsZero() {
		return apperr.ErrUnauthorized
	}
	r, err := s.reels.Delete(ctx, id, uid)
	if err != nil {
		return err
	}
	s.discard(r.VideoURL)
	return nil
}

func (s *ReelService) discard(url string) {
	if url == "" {
		return
	}
	if err := s.blobs.Delete(context.Background(), url); err != nil {
		s.log.Warn("blob not deleted", zap.String("url", url), zap.Error(err))
	}
}
