package services

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Views renders content documents with every user reference resolved in a
// single lookup per response.
type Views struct {
	users engagement.Resolver
}

func NewViews(users engagement.Resolver) *Views { return &Views{users: users} }

func postRefs(p *models.Post) []bson.ObjectID {
	ids := append([]bson.ObjectID{p.Author}, p.Likes...)
	return append(ids, p.Tree().UserIDs()...)
}

func reelRefs(r *models.Reel) []bson.ObjectID {
	ids := append([]bson.ObjectID{r.Author}, r.Likes...)
	return append(ids, r.Tree().UserIDs()...)
}

func postView(p *models.Post, dir engagement.Directory) dto.PostResp {
	likes := p.Likes.Normalize()
	return dto.PostResp{
		ID:            p.ID,
		Author:        dir.Summary(p.Author),
		Content:       p.Content,
		Image:         p.Image,
		VoiceURL:      p.VoiceURL,
		Likes:         dir.Summaries(likes),
		LikesCount:    len(likes),
		Comments:      dir.Comments(p.Tree()),
		CommentsCount: len(p.Comments),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func reelView(r *models.Reel, dir engagement.Directory) dto.ReelResp {
	return dto.ReelResp{
		ID:          r.ID,
		VideoURL:    r.VideoURL,
		Thumbnail:   r.Thumbnail,
		Caption:     r.Caption,
		Music:       r.Music,
		Duration:    r.Duration,
		Author:      dir.Summary(r.Author),
		Likes:       dir.Summaries(r.Likes.Normalize()),
		Comments:    dir.Comments(r.Tree()),
		Views:       r.Views,
		Shares:      r.Shares,
		VideoURLs:   r.VideoURLs,
		IsOptimized: r.IsOptimized,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (v *Views) Posts(ctx context.Context, posts []models.Post) ([]dto.PostResp, error) {
	var ids []bson.ObjectID
	for i := range posts {
		ids = append(ids, postRefs(&posts[i])...)
	}
	dir, err := lookup(ctx, v.users, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PostResp, 0, len(posts))
	for i := range posts {
		out = append(out, postView(&posts[i], dir))
	}
	return out, nil
}

func (v *Views) Post(ctx context.Context, p *models.Post) (dto.PostResp, error) {
	out, err := v.Posts(ctx, []models.Post{*p})
	if err != nil {
		return dto.PostResp{}, err
	}
	return out[0], nil
}

func (v *Views) Reels(ctx context.Context, reels []models.Reel) ([]dto.ReelResp, error) {
	var ids []bson.ObjectID
	for i := range reels {
		ids = append(ids, reelRefs(&reels[i])...)
	}
	dir, err := lookup(ctx, v.users, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReelResp, 0, len(reels))
	for i := range reels {
		out = append(out, reelView(&reels[i], dir))
	}
	return out, nil
}

func (v *Views) Reel(ctx context.Context, r *models.Reel) (dto.ReelResp, error) {
	out, err := v.Reels(ctx, []models.Reel{*r})
	if err != nil {
		return dto.ReelResp{}, err
	}
	return out[0], nil
}
