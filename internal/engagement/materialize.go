package engagement

import (
	"context"
	"fmt"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Directory maps user ids to resolved profiles for one response.
type Directory map[bson.ObjectID]models.Profile

// Summary never fails: unknown ids render as a deleted user.
func (d Directory) Summary(id bson.ObjectID) dto.UserSummary {
	p, ok := d[id]
	if !ok {
		p = models.DeletedProfile(id)
	}
	return dto.UserSummary{ID: id, Username: p.Username, Avatar: p.AvatarURL()}
}

func (d Directory) Summaries(ids []bson.ObjectID) []dto.UserSummary {
	out := make([]dto.UserSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.Summary(id))
	}
	return out
}

func (d Directory) Recomment(r models.Recomment) dto.RecommentResp {
	likes := r.Likes.Normalize()
	return dto.RecommentResp{
		ID:        r.ID,
		User:      d.Summary(r.User),
		Text:      r.Text,
		Likes:     d.Summaries(likes),
		LikeCount: len(likes),
		CreatedAt: r.CreatedAt,
	}
}

func (d Directory) Comment(c models.Comment) dto.CommentResp {
	likes := c.Likes.Normalize()
	out := dto.CommentResp{
		ID:             c.ID,
		User:           d.Summary(c.User),
		Text:           c.Text,
		Likes:          d.Summaries(likes),
		LikeCount:      len(likes),
		Recomments:     make([]dto.RecommentResp, 0, len(c.Recomments)),
		RecommentCount: len(c.Recomments),
		CreatedAt:      c.CreatedAt,
	}
	for _, r := range c.Recomments {
		out.Recomments = append(out.Recomments, d.Recomment(r))
	}
	return out
}

func (d Directory) Comments(tree *models.CommentTree) []dto.CommentResp {
	out := make([]dto.CommentResp, 0, len(tree.Comments))
	for _, c := range tree.Comments {
		out = append(out, d.Comment(c))
	}
	return out
}

// Materializer resolves user references in a single batched lookup.
type Materializer struct {
	resolver Resolver
}

func NewMaterializer(r Resolver) *Materializer {
	return &Materializer{resolver: r}
}

// Lookup resolves ids (duplicates and zero ids are ignored). A resolver
// failure is returned as is; callers must not fall back to raw ids.
func (m *Materializer) Lookup(ctx context.Context, ids []bson.ObjectID) (Directory, error) {
	ids = models.LikeSet(ids).Normalize()
	if len(ids) == 0 {
		return Directory{}, nil
	}
	profiles, err := m.resolver.ResolveProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve profiles: %w", err)
	}
	return Directory(profiles), nil
}

func (m *Materializer) Comment(ctx context.Context, c models.Comment) (dto.CommentResp, error) {
	dir, err := m.Lookup(ctx, c.UserRefs())
	if err != nil {
		return dto.CommentResp{}, err
	}
	return dir.Comment(c), nil
}

func (m *Materializer) Recomment(ctx context.Context, r models.Recomment) (dto.RecommentResp, error) {
	refs := append([]bson.ObjectID{r.User}, r.Likes...)
	dir, err := m.Lookup(ctx, refs)
	if err != nil {
		return dto.RecommentResp{}, err
	}
	return dir.Recomment(r), nil
}

func (m *Materializer) Tree(ctx context.Context, tree *models.CommentTree) ([]dto.CommentResp, error) {
	dir, err := m.Lookup(ctx, tree.UserIDs())
	if err != nil {
		return nil, err
	}
	return dir.Comments(tree), nil
}
