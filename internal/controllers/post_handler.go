package controllers

import (
	"context"
	"net/http"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/FrankWaweru369/Infinity-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type PostAPI interface {
	Create(ctx context.Context, uid bson.ObjectID, content string, image *services.Upload) (dto.PostResp, error)
	List(ctx context.Context, q models.PostQuery) (dto.CursorPage[dto.PostResp], error)
	Get(ctx context.Context, id bson.ObjectID) (dto.PostResp, error)
	ToggleLike(ctx context.Context, id, uid bson.ObjectID) (dto.PostResp, error)
	Update(ctx context.Context, id, uid bson.ObjectID, content *string, image *services.Upload) (dto.PostResp, error)
	Delete(ctx context.Context, id, uid bson.ObjectID) error
}

type PostHandler struct {
	Posts PostAPI
}

// Create godoc
// @Summary      Create a post
// @Description  Multipart form with text content (max 500 characters), an image, or both.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        content  formData  string  false  "Post text"
// @Param        image    formData  file    false  "Post image"
// @Success      201  {object} dto.PostResp
// @Failure      400  {object} dto.ErrorResponse
// @Failure      401  {object} dto.ErrorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	image, closeImage, err := formFile(c, "image", "image", maxImageSize)
	if err != nil {
		return err
	}
	defer closeImage()

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	out, err := h.Posts.Create(ctx, uid, c.FormValue("content"), image)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Feed, newest first
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int     false  "Page size" minimum(1) maximum(50) default(20)
// @Param        cursor  query  string  false  "Opaque next-page cursor"
// @Param        author  query  string  false  "Only posts by this user (hex ObjectID)"
// @Param        q       query  string  false  "Text search"
// @Success      200  {object} dto.CursorPage[dto.PostResp]
// @Failure      400  {object} dto.ErrorResponse
// @Router       /posts [get]
func (h *PostHandler) List(c *fiber.Ctx) error {
	q := models.PostQuery{
		Limit:      int64(c.QueryInt("limit", 0)),
		Cursor:     c.Query("cursor"),
		TextSearch: c.Query("q"),
	}
	if a := c.Query("author"); a != "" {
		author, err := bson.ObjectIDFromHex(a)
		if err != nil {
			return apperr.Invalid("author", "invalid author id")
		}
		q.AuthorID = author
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Posts.List(ctx, q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      One post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "Post ID (hex ObjectID)"
// @Success      200  {object} dto.PostResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := objectID(c, "id", apperr.KindPost)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Posts.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ToggleLike godoc
// @Summary      Like or unlike a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "Post ID (hex ObjectID)"
// @Success      200  {object} dto.PostResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /posts/{id}/like [put]
func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	id, err := objectID(c, "id", apperr.KindPost)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Posts.ToggleLike(ctx, id, uid)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Edit your own post
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Post ID (hex ObjectID)"
// @Param        content  formData  string  false  "New text"
// @Param        image    formData  file    false  "Replacement image"
// @Success      200  {object} dto.PostUpdatedResp
// @Failure      403  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	id, err := objectID(c, "id", apperr.KindPost)
	if err != nil {
		return err
	}
	image, closeImage, err := formFile(c, "image", "image", maxImageSize)
	if err != nil {
		return err
	}
	defer closeImage()

	var content *string
	if v := c.FormValue("content"); v != "" {
		content = &v
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	out, err := h.Posts.Update(ctx, id, uid, content, image)
	if err != nil {
		return err
	}
	return c.JSON(dto.PostUpdatedResp{Message: "Post updated successfully", Post: out})
}

// Delete godoc
// @Summary      Delete your own post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "Post ID (hex ObjectID)"
// @Success      200  {object} dto.MessageResponse
// @Failure      403  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	id, err := objectID(c, "id", apperr.KindPost)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Posts.Delete(ctx, id, uid); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Post deleted successfully"})
}
