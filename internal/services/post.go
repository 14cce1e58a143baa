package services

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/FrankWaweru369/Infinity-backend/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Upload is one file taken from a multipart request.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type PostStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) error
	List(ctx context.Context, q models.PostQuery) ([]models.Post, *string, error)
	ToggleLike(ctx context.Context, id, userID bson.ObjectID) (bool, error)
	Update(ctx context.Context, id, author bson.ObjectID, set bson.M) (*models.Post, error)
	Delete(ctx context.Context, id, author bson.ObjectID) (*models.Post, error)
}

type PostService struct {
	posts    PostStore
	views    *Views
	blobs    storage.Blob
	notifier engagement.Notifier
	filter   func(string) string
	log      *zap.Logger
}

func NewPostService(posts PostStore, views *Views, blobs storage.Blob, notifier engagement.Notifier, filter func(string) string, log *zap.Logger) *PostService {
	if log == nil {
		log = zap.NewNop()
	}
	if filter == nil {
		filter = func(s string) string { return s }
	}
	return &PostService{posts: posts, views: views, blobs: blobs, notifier: notifier, filter: filter, log: log}
}

func (s *PostService) cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) > models.MaxPostContent {
		return "", apperr.Invalid("content", "content is too long (max 500 characters)")
	}
	return strings.TrimSpace(s.filter(content)), nil
}

func (s *PostService) Create(ctx context.Context, uid bson.ObjectID, content string, image *Upload) (dto.PostResp, error) {
	if uid.IsZero() {
		return dto.PostResp{}, apperr.ErrUnauthorized
	}
	clean, err := s.cleanContent(content)
	if err != nil {
		return dto.PostResp{}, err
	}
	if clean == "" && image == nil {
		return dto.PostResp{}, apperr.Invalid("content", "post needs content or an image")
	}

	p := &models.Post{Author: uid, Content: clean}
	if image != nil {
		url, err := s.blobs.Put(ctx, "posts", image.Name, image.ContentType, image.Body, image.Size)
		if err != nil {
			return dto.PostResp{}, apperr.Storage("store post image", err)
		}
		p.Image = url
	}
	if err := s.posts.Create(ctx, p); err != nil {
		s.discard(p.Image)
		return dto.PostResp{}, err
	}
	return s.views.Post(ctx, p)
}

func (s *PostService) List(ctx context.Context, q models.PostQuery) (dto.CursorPage[dto.PostResp], error) {
	items, next, err := s.posts.List(ctx, q)
	if err != nil {
		return dto.CursorPage[dto.PostResp]{}, err
	}
	views, err := s.views.Posts(ctx, items)
	if err != nil {
		return dto.CursorPage[dto.PostResp]{}, err
	}
	return dto.CursorPage[dto.PostResp]{Items: views, NextCursor: next, HasMore: next != nil}, nil
}

func (s *PostService) Get(ctx context.Context, id bson.ObjectID) (dto.PostResp, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return dto.PostResp{}, err
	}
	return s.views.Post(ctx, p)
}

// ToggleLike likes or unlikes the post and notifies the author on a like.
func (s *PostService) ToggleLike(ctx context.Context, id, uid bson.ObjectID) (dto.PostResp, error) {
	if uid.IsZero() {
		return dto.PostResp{}, apperr.ErrUnauthorized
	}
	liked, err := s.posts.ToggleLike(ctx, id, uid)
	if err != nil {
		return dto.PostResp{}, err
	}
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return dto.PostResp{}, err
	}
	if liked && p.Author != uid {
		s.notifier.Notify(models.NotiLike, p.Author, uid, models.Ref{Entity: apperr.KindPost, ID: id})
	}
	return s.views.Post(ctx, p)
}

// Update edits the author's own post. Nil content leaves the text untouched;
// a new image replaces and deletes the old one.
func (s *PostService) Update(ctx context.Context, id, uid bson.ObjectID, content *string, image *Upload) (dto.PostResp, error) {
	if uid.IsZero() {
		return dto.PostResp{}, apperr.ErrUnauthorized
	}
	current, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return dto.PostResp{}, err
	}
	if current.Author != uid {
		return dto.PostResp{}, apperr.ErrForbidden
	}

	set := bson.M{}
	if content != nil && strings.TrimSpace(*content) != "" {
		clean, err := s.cleanContent(*content)
		if err != nil {
			return dto.PostResp{}, err
		}
		set["content"] = clean
	}
	var newImage string
	if image != nil {
		newImage, err = s.blobs.Put(ctx, "posts", image.Name, image.ContentType, image.Body, image.Size)
		if err != nil {
			return dto.PostResp{}, apperr.Storage("store post image", err)
		}
		set["image"] = newImage
	}

	p, err := s.posts.Update(ctx, id, uid, set)
	if err != nil {
		s.discard(newImage)
		return dto.PostResp{}, err
	}
	if newImage != "" && current.Image != "" {
		s.discard(current.Image)
	}
	return s.views.Post(ctx, p)
}

func (s *PostService) Delete(ctx context.Context, id, uid bson.ObjectID) error {
	if uid.IsZero() {
		return apperr.ErrUnauthorized
	}
	p, err := s.posts.Delete(ctx, id, uid)
	if err != nil {
		return err
	}
	s.discard(p.Image)
	return nil
}

// discard removes a blob the database no longer references. Failures only
// leave an orphan file behind, so they are logged.
func (s *PostService) discard(url string) {
	if url == "" {
		return
	}
	if err := s.blobs.Delete(context.Background(), url); err != nil {
		s.log.Warn("blob not deleted", zap.String("url", url), zap.Error(err))
	}
}
