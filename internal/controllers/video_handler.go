package controllers

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type VideoAPI interface {
	Optimize(ctx context.Context, reelID bson.ObjectID, videoURL string) (dto.OptimizeVideoResp, error)
	Optimized(ctx context.Context, reelID bson.ObjectID, quality string, dataSaver bool) (dto.OptimizedVideoResp, error)
}

type VideoHandler struct {
	Videos VideoAPI
}

// Optimize godoc
// @Summary      Derive quality renditions for a reel video
// @Description  CDN URLs containing /upload/ get high, medium and low renditions; other URLs keep only the original.
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body     dto.OptimizeVideoReq  true  "Reel and its video URL"
// @Success      200   {object} dto.OptimizeVideoResp
// @Failure      400   {object} dto.ErrorResponse
// @Failure      404   {object} dto.ErrorResponse
// @Router       /videos/optimize [post]
func (h *VideoHandler) Optimize(c *fiber.Ctx) error {
	var req dto.OptimizeVideoReq
	if err := bind(c, &req); err != nil {
		return err
	}
	reelID, err := bson.ObjectIDFromHex(req.ReelID)
	if err != nil {
		return apperr.Invalid("reelId", "invalid reel id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Videos.Optimize(ctx, reelID, req.VideoURL)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Optimized godoc
// @Summary      Pick a rendition of a reel video
// @Tags         videos
// @Produce      json
// @Param        reelId     path   string  true   "Reel ID (hex ObjectID)"
// @Param        quality    query  string  false  "auto, high, medium or low" default(auto)
// @Param        dataSaver  query  bool    false  "Prefer smaller files when quality is auto"
// @Success      200  {object} dto.OptimizedVideoResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /videos/optimized/{reelId} [get]
func (h *VideoHandler) Optimized(c *fiber.Ctx) error {
	reelID, err := objectID(c, "reelId", apperr.KindReel)
	if err != nil {
		return err
	}
	quality := c.Query("quality", "auto")
	switch quality {
	case "auto", "high", "medium", "low":
	default:
		return apperr.Invalid("quality", "quality must be one of: auto high medium low")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Videos.Optimized(ctx, reelID, quality, c.QueryBool("dataSaver", false))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
