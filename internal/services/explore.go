package services

import (
	"context"
	"strings"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	suggestLimit = 10
	popularLimit = 10
	searchLimit  = 20
)

type ExploreUsers interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	Suggested(ctx context.Context, exclude []bson.ObjectID, limit int64) ([]models.User, error)
	Search(ctx context.Context, q string, limit int64) ([]models.User, error)
}

type ExplorePosts interface {
	Popular(ctx context.Context, limit int64) ([]models.Post, error)
	Search(ctx context.Context, q string, limit int64) ([]models.Post, error)
}

type ExploreService struct {
	users ExploreUsers
	posts ExplorePosts
	views *Views
}

func NewExploreService(users ExploreUsers, posts ExplorePosts, views *Views) *ExploreService {
	return &ExploreService{users: users, posts: posts, views: views}
}

// SuggestedUsers lists users the viewer neither is nor follows.
func (s *ExploreService) SuggestedUsers(ctx context.Context, viewer bson.ObjectID) ([]dto.UserCard, error) {
	var exclude []bson.ObjectID
	if !viewer.IsZero() {
		exclude = append(exclude, viewer)
		u, err := s.users.FindByID(ctx, viewer)
		switch {
		case err == nil:
			exclude = append(exclude, u.Following...)
		case !apperr.IsNotFound(err):
			return nil, err
		}
	}
	users, err := s.users.Suggested(ctx, exclude, suggestLimit)
	if err != nil {
		return nil, err
	}
	return userCards(users, viewer), nil
}

func (s *ExploreService) PopularPosts(ctx context.Context) ([]dto.PopularPostResp, error) {
	posts, err := s.posts.Popular(ctx, popularLimit)
	if err != nil {
		return nil, err
	}
	views, err := s.views.Posts(ctx, posts)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PopularPostResp, 0, len(views))
	for i, v := range views {
		out = append(out, dto.PopularPostResp{PostResp: v, EngagementScore: posts[i].EngagementScore()})
	}
	return out, nil
}

func searchTerm(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperr.Invalid("q", "search query is required")
	}
	return q, nil
}

func (s *ExploreService) SearchUsers(ctx context.Context, viewer bson.ObjectID, q string) ([]dto.UserCard, error) {
	term, err := searchTerm(q)
	if err != nil {
		return nil, err
	}
	users, err := s.users.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, err
	}
	return userCards(users, viewer), nil
}

func (s *ExploreService) SearchPosts(ctx context.Context, q string) ([]dto.PostResp, error) {
	term, err := searchTerm(q)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, err
	}
	return s.views.Posts(ctx, posts)
}
