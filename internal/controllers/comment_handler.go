package controllers

import (
	"context"
	"net/http"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Engagement is the comment tree API of one content kind.
type Engagement interface {
	Kind() string
	ToggleCommentLike(ctx context.Context, contentID, commentID, userID bson.ObjectID) (dto.CommentResp, error)
	AddRecomment(ctx context.Context, contentID, commentID, userID bson.ObjectID, text string) (dto.RecommentResp, error)
	ToggleRecommentLike(ctx context.Context, contentID, commentID, recommentID, userID bson.ObjectID) (dto.RecommentResp, error)
	AddComment(ctx context.Context, contentID, userID bson.ObjectID, text string) (dto.CommentResp, error)
	Comments(ctx context.Context, contentID bson.ObjectID) ([]dto.CommentResp, error)
}

// CommentHandler serves the same comment routes for posts and reels.
type CommentHandler struct {
	Tree Engagement
}

type commentPath struct {
	content   bson.ObjectID
	comment   bson.ObjectID
	recomment bson.ObjectID
}

func (h *CommentHandler) path(c *fiber.Ctx, depth int) (commentPath, error) {
	var p commentPath
	var err error
	if p.content, err = objectID(c, "id", h.Tree.Kind()); err != nil {
		return p, err
	}
	if depth > 0 {
		if p.comment, err = objectID(c, "commentId", apperr.KindComment); err != nil {
			return p, err
		}
	}
	if depth > 1 {
		if p.recomment, err = objectID(c, "recommentId", apperr.KindRecomment); err != nil {
			return p, err
		}
	}
	return p, nil
}

func commentText(c *fiber.Ctx) (string, error) {
	var body dto.CreateCommentReq
	if err := c.BodyParser(&body); err != nil {
		return "", apperr.Invalid("body", "invalid body")
	}
	return body.Text, nil
}

// LikeComment godoc
// @Summary      Toggle a like on a comment
// @Description  Likes the comment, or removes the like when the caller already liked it. Returns the comment with resolved users.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        kind       path     string  true  "posts or reels"
// @Param        id         path     string  true  "Post or reel ID (hex ObjectID)"
// @Param        commentId  path     string  true  "Comment ID (hex ObjectID)"
// @Success      200  {object} dto.CommentResp
// @Failure      401  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Failure      409  {object} dto.ErrorResponse
// @Router       /{kind}/{id}/comments/{commentId}/like [put]
func (h *CommentHandler) LikeComment(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	p, err := h.path(c, 1)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Tree.ToggleCommentLike(ctx, p.content, p.comment, uid)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddRecomment godoc
// @Summary      Reply to a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind       path     string                true  "posts or reels"
// @Param        id         path     string                true  "Post or reel ID (hex ObjectID)"
// @Param        commentId  path     string                true  "Comment ID (hex ObjectID)"
// @Param        body       body     dto.CreateCommentReq  true  "Reply text (max 500 characters)"
// @Success      201  {object} dto.RecommentResp
// @Failure      400  {object} dto.ErrorResponse
// @Failure      401  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Router       /{kind}/{id}/comments/{commentId}/recomment [post]
func (h *CommentHandler) AddRecomment(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	p, err := h.path(c, 1)
	if err != nil {
		return err
	}
	text, err := commentText(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Tree.AddRecomment(ctx, p.content, p.comment, uid, text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(out)
}

// LikeRecomment godoc
// @Summary      Toggle a like on a reply
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        kind         path     string  true  "posts or reels"
// @Param        id           path     string  true  "Post or reel ID (hex ObjectID)"
// @Param        commentId    path     string  true  "Comment ID (hex ObjectID)"
// @Param        recommentId  path     string  true  "Reply ID (hex ObjectID)"
// @Success      200  {object} dto.RecommentResp
// @Failure      401  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Router       /{kind}/{id}/comments/{commentId}/recomments/{recommentId}/like [put]
func (h *CommentHandler) LikeRecomment(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	p, err := h.path(c, 2)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Tree.ToggleRecommentLike(ctx, p.content, p.comment, p.recomment, uid)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddComment godoc
// @Summary      Comment on a post or reel
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path     string                true  "posts or reels"
// @Param        id    path     string                true  "Post or reel ID (hex ObjectID)"
// @Param        body  body     dto.CreateCommentReq  true  "Comment text (max 500 characters)"
// @Success      201  {object} dto.CommentResp
// @Failure      400  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Router       /{kind}/{id}/comment [post]
func (h *CommentHandler) AddComment(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	p, err := h.path(c, 0)
	if err != nil {
		return err
	}
	text, err := commentText(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Tree.AddComment(ctx, p.content, uid, text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List the comment tree of a post or reel
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path     string  true  "posts or reels"
// @Param        id    path     string  true  "Post or reel ID (hex ObjectID)"
// @Success      200  {object} dto.ListCommentsResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /{kind}/{id}/comments [get]
func (h *CommentHandler) List(c *fiber.Ctx) error {
	p, err := h.path(c, 0)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Tree.Comments(ctx, p.content)
	if err != nil {
		return err
	}
	return c.JSON(dto.ListCommentsResp{Comments: items, Count: len(items)})
}
