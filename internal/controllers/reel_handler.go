package controllers

import (
	"context"
	"net/http"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"
	"github.com/FrankWaweru369/Infinity-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ReelAPI interface {
	Page(ctx context.Context, page, limit int64) (dto.ReelPageResp, error)
	ByAuthor(ctx context.Context, author bson.ObjectID) ([]dto.ReelResp, error)
	View(ctx context.Context, id bson.ObjectID) (dto.ReelResp, error)
	Share(ctx context.Context, id bson.ObjectID) (dto.ReelResp, error)
	Create(ctx context.Context, uid bson.ObjectID, caption, music string, video *services.Upload) (dto.ReelResp, error)
	ToggleLike(ctx context.Context, id, uid bson.ObjectID) (dto.ReelResp, error)
	Delete(ctx context.Context, id, uid bson.ObjectID) error
}

type ReelHandler struct {
	Reels ReelAPI
}

// Page godoc
// @Summary      Reels, newest first
// @Tags         reels
// @Produce      json
// @Param        page   query  int  false  "1-based page" default(1)
// @Param        limit  query  int  false  "Page size" default(10) maximum(50)
// @Success      200  {object} dto.ReelPageResp
// @Router       /reels [get]
func (h *ReelHandler) Page(c *fiber.Ctx) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reels.Page(ctx, int64(c.QueryInt("page", 1)), int64(c.QueryInt("limit", 10)))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ByAuthor godoc
// @Summary      Reels of one user
// @Tags         reels
// @Produce      json
// @Param        userId  path     string  true  "User ID (hex ObjectID)"
// @Success      200  {array}  dto.ReelResp
// @Router       /reels/user/{userId} [get]
func (h *ReelHandler) ByAuthor(c *fiber.Ctx) error {
	author, err := objectID(c, "userId", apperr.KindUser)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reels.ByAuthor(ctx, author)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// View godoc
// @Summary      One reel; counts a view
// @Tags         reels
// @Produce      json
// @Param        id  path     string  true  "Reel ID (hex ObjectID)"
// @Success      200  {object} dto.ReelResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /reels/{id} [get]
func (h *ReelHandler) View(c *fiber.Ctx) error {
	id, err := objectID(c, "id", apperr.KindReel)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reels.View(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Share godoc
// @Summary      Count a share
// @Tags         reels
// @Produce      json
// @Param        id  path     string  true  "Reel ID (hex ObjectID)"
// @Success      200  {object} dto.ReelResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /reels/{id}/share [put]
func (h *ReelHandler) Share(c *fiber.Ctx) error {
	id, err := objectID(c, "id", apperr.KindReel)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reels.Share(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Upload a reel
// @Tags         reels
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        video    formData  file    true   "Video file"
// @Param        caption  formData  string  false  "Caption"
// @Param        music    formData  string  false  "Music title (default Original Sound)"
// @Success      201  {object} dto.ReelResp
// @Failure      400  {object} dto.ErrorResponse
// @Router       /reels [post]
func (h *ReelHandler) Create(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	video, closeVideo, err := formFile(c, "video", "video", maxVideoSize)
	if err != nil {
		return err
	}
	defer closeVideo()

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	out, err := h.Reels.Create(ctx, uid, c.FormValue("caption"), c.FormValue("music"), video)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(out)
}

// ToggleLike godoc
// @Summary      Like or unlike a reel
// @Tags         reels
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "Reel ID (hex ObjectID)"
// @Success      200  {object} dto.ReelResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /reels/{id}/like [put]
func (h *ReelHandler) ToggleLike(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	id, err := objectID(c, "id", apperr.KindReel)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Reels.ToggleLike(ctx, id, uid)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete your own reel
// @Tags         reels
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "Reel ID (hex ObjectID)"
// @Success      200  {object} dto.MessageResponse
// @Failure      403  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Router       /reels/{id} [delete]
func (h *ReelHandler) Delete(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	id, err := objectID(c, "id", apperr.KindReel)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reels.Delete(ctx, id, uid); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Reel deleted successfully"})
}
