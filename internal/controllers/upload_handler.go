package controllers

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	Blobs storage.Blob
}

// Upload godoc
// @Summary      Upload a single image
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "Image file"
// @Success      200  {object} dto.UploadResp
// @Failure      400  {object} dto.ErrorResponse
// @Router       /upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	image, closeImage, err := formFile(c, "image", "image", maxImageSize)
	if err != nil {
		return err
	}
	defer closeImage()
	if image == nil {
		return apperr.Invalid("image", "No image uploaded")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	url, err := h.Blobs.Put(ctx, "uploads", image.Name, image.ContentType, image.Body, image.Size)
	if err != nil {
		return apperr.Storage("store upload", err)
	}
	return c.JSON(dto.UploadResp{ImageURL: url})
}
