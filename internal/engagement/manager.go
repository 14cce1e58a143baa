package engagement

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Manager runs the engagement operations for one content kind.
type Manager[T Content] struct {
	kind  string
	store Store[T]
	mat   *Materializer
	opts  options
}

// NewManager builds a manager for content of the given kind ("post", "reel").
func NewManager[T Content](kind string, store Store[T], resolver Resolver, opts ...Option) *Manager[T] {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Manager[T]{
		kind:  kind,
		store: store,
		mat:   NewMaterializer(resolver),
		opts:  o,
	}
}

func (m *Manager[T]) Kind() string { return m.kind }

// ToggleCommentLike likes the comment for userID, or unlikes it if already liked.
func (m *Manager[T]) ToggleCommentLike(ctx context.Context, contentID, commentID, userID bson.ObjectID) (dto.CommentResp, error) {
	if userID.IsZero() {
		return dto.CommentResp{}, apperr.ErrUnauthorized
	}

	var liked bool
	fresh, err := m.mutate(ctx, contentID, func(item T) error {
		c := item.Tree().Comment(commentID)
		if c == nil {
			return apperr.NotFound(apperr.KindComment)
		}
		liked = c.Likes.Toggle(userID)
		return nil
	})
	if err != nil {
		return dto.CommentResp{}, err
	}

	c := fresh.Tree().Comment(commentID)
	if c == nil {
		return dto.CommentResp{}, apperr.NotFound(apperr.KindComment)
	}
	out, err := m.mat.Comment(ctx, *c)
	if err != nil {
		return dto.CommentResp{}, err
	}
	if liked {
		m.notify(models.NotiCommentLike, c.User, userID, contentID)
	}
	return out, nil
}

// AddRecomment appends a reply to a comment and returns only the new reply.
func (m *Manager[T]) AddRecomment(ctx context.Context, contentID, commentID, userID bson.ObjectID, text string) (dto.RecommentResp, error) {
	if userID.IsZero() {
		return dto.RecommentResp{}, apperr.ErrUnauthorized
	}
	clean, err := m.cleanText(text)
	if err != nil {
		return dto.RecommentResp{}, err
	}

	// Fixed before the loop so a retried write appends the same node once.
	node := models.Recomment{
		ID:        bson.NewObjectID(),
		User:      userID,
		Text:      clean,
		Likes:     models.LikeSet{},
		CreatedAt: m.opts.now().UTC(),
	}

	var parentAuthor bson.ObjectID
	fresh, err := m.mutate(ctx, contentID, func(item T) error {
		c := item.Tree().Comment(commentID)
		if c == nil {
			return apperr.NotFound(apperr.KindComment)
		}
		parentAuthor = c.User
		c.Recomments = append(c.Recomments, node)
		return nil
	})
	if err != nil {
		return dto.RecommentResp{}, err
	}

	c := fresh.Tree().Comment(commentID)
	if c == nil {
		return dto.RecommentResp{}, apperr.NotFound(apperr.KindComment)
	}
	r := c.Recomment(node.ID)
	if r == nil {
		return dto.RecommentResp{}, apperr.NotFound(apperr.KindRecomment)
	}
	out, err := m.mat.Recomment(ctx, *r)
	if err != nil {
		return dto.RecommentResp{}, err
	}
	m.notify(models.NotiReply, parentAuthor, userID, contentID)
	return out, nil
}

// ToggleRecommentLike likes or unlikes a reply.
func (m *Manager[T]) ToggleRecommentLike(ctx context.Context, contentID, commentID, recommentID, userID bson.ObjectID) (dto.RecommentResp, error) {
	if userID.IsZero() {
		return dto.RecommentResp{}, apperr.ErrUnauthorized
	}

	var liked bool
	fresh, err := m.mutate(ctx, contentID, func(item T) error {
		c := item.Tree().Comment(commentID)
		if c == nil {
			return apperr.NotFound(apperr.KindComment)
		}
		r := c.Recomment(recommentID)
		if r == nil {
			return apperr.NotFound(apperr.KindRecomment)
		}
		liked = r.Likes.Toggle(userID)
		return nil
	})
	if err != nil {
		return dto.RecommentResp{}, err
	}

	c := fresh.Tree().Comment(commentID)
	if c == nil {
		return dto.RecommentResp{}, apperr.NotFound(apperr.KindComment)
	}
	r := c.Recomment(recommentID)
	if r == nil {
		return dto.RecommentResp{}, apperr.NotFound(apperr.KindRecomment)
	}
	out, err := m.mat.Recomment(ctx, *r)
	if err != nil {
		return dto.RecommentResp{}, err
	}
	if liked {
		m.notify(models.NotiCommentLike, r.User, userID, contentID)
	}
	return out, nil
}

// AddComment appends a top-level comment.
func (m *Manager[T]) AddComment(ctx context.Context, contentID, userID bson.ObjectID, text string) (dto.CommentResp, error) {
	if userID.IsZero() {
		return dto.CommentResp{}, apperr.ErrUnauthorized
	}
	clean, err := m.cleanText(text)
	if err != nil {
		return dto.CommentResp{}, err
	}

	node := models.Comment{
		ID:         bson.NewObjectID(),
		User:       userID,
		Text:       clean,
		Likes:      models.LikeSet{},
		Recomments: []models.Recomment{},
		CreatedAt:  m.opts.now().UTC(),
	}

	var owner bson.ObjectID
	fresh, err := m.mutate(ctx, contentID, func(item T) error {
		owner = item.AuthorID()
		t := item.Tree()
		t.Comments = append(t.Comments, node)
		return nil
	})
	if err != nil {
		return dto.CommentResp{}, err
	}

	c := fresh.Tree().Comment(node.ID)
	if c == nil {
		return dto.CommentResp{}, apperr.NotFound(apperr.KindComment)
	}
	out, err := m.mat.Comment(ctx, *c)
	if err != nil {
		return dto.CommentResp{}, err
	}
	m.notify(models.NotiComment, owner, userID, contentID)
	return out, nil
}

// Comments returns the materialized tree of a content item.
func (m *Manager[T]) Comments(ctx context.Context, contentID bson.ObjectID) ([]dto.CommentResp, error) {
	item, err := m.store.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	return m.mat.Tree(ctx, item.Tree())
}

// mutate applies fn to the current persisted state and saves it, retrying
// from a fresh read on version conflicts. It returns the document as
// re-read after the successful write.
func (m *Manager[T]) mutate(ctx context.Context, contentID bson.ObjectID, fn func(T) error) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		item, err := m.store.FindByID(ctx, contentID)
		if err != nil {
			return zero, err
		}
		if err := fn(item); err != nil {
			return zero, err
		}
		item.Tree().Recount()

		err = m.store.SaveTree(ctx, item)
		if err == nil {
			break
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return zero, err
		}
		if attempt >= m.opts.maxAttempts {
			m.opts.log.Warn("engagement write kept conflicting",
				zap.String("kind", m.kind),
				zap.String("content_id", contentID.Hex()),
				zap.Int("attempts", attempt))
			return zero, apperr.ErrConflict
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, apperr.Storage("save "+m.kind, ctxErr)
		}
	}
	return m.store.FindByID(ctx, contentID)
}

func (m *Manager[T]) cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.Invalid("text", "text is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", apperr.Invalid("text", "text is too long (max 500 characters)")
	}
	if m.opts.filter != nil {
		text = strings.TrimSpace(m.opts.filter(text))
		if text == "" {
			return "", apperr.Invalid("text", "text is required")
		}
	}
	return text, nil
}

func (m *Manager[T]) notify(typ models.NotiType, recipient, sender, contentID bson.ObjectID) {
	if recipient.IsZero() || recipient == sender {
		return
	}
	m.opts.notifier.Notify(typ, recipient, sender, models.Ref{Entity: m.kind, ID: contentID})
}
