package controllers

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"
	"github.com/FrankWaweru369/Infinity-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserAPI interface {
	List(ctx context.Context) ([]dto.UserCard, error)
	ByUsername(ctx context.Context, username string) (dto.UserProfileResp, error)
	UpdateProfile(ctx context.Context, uid bson.ObjectID, req dto.UpdateProfileReq, images services.ProfileImages) (dto.UserProfileResp, error)
	Follow(ctx context.Context, uid, target bson.ObjectID) error
	Unfollow(ctx context.Context, uid, target bson.ObjectID) error
	FollowStatus(ctx context.Context, uid, target bson.ObjectID) (dto.FollowStatusResp, error)
}

type PasswordChanger interface {
	UpdatePassword(ctx context.Context, uid bson.ObjectID, current, next string) error
}

type UserHandler struct {
	Users     UserAPI
	Passwords PasswordChanger
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  dto.UserCard
// @Router       /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Users.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ByUsername godoc
// @Summary      Public profile by username
// @Tags         users
// @Produce      json
// @Param        username  path     string  true  "Username"
// @Success      200  {object} dto.UserProfileResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) ByUsername(c *fiber.Ctx) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Users.ByUsername(ctx, c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdatePassword godoc
// @Summary      Change the caller's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body     dto.UpdatePasswordReq  true  "Current and new password"
// @Success      200   {object} dto.MessageResponse
// @Failure      400   {object} dto.ErrorResponse
// @Router       /users/update-password [put]
func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	var req dto.UpdatePasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Passwords.UpdatePassword(ctx, uid, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password updated successfully"})
}

// UpdateProfile godoc
// @Summary      Edit the caller's profile
// @Description  Multipart form. Empty fields are left unchanged; new images replace the old ones.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        fullName        formData  string  false  "Full name"
// @Param        username        formData  string  false  "Username"
// @Param        bio             formData  string  false  "Bio"
// @Param        gender          formData  string  false  "male, female or other"
// @Param        dob             formData  string  false  "Date of birth (YYYY-MM-DD)"
// @Param        location        formData  string  false  "Location"
// @Param        website         formData  string  false  "Website URL"
// @Param        phone           formData  string  false  "Phone"
// @Param        profilePicture  formData  file    false  "Profile picture"
// @Param        coverPhoto      formData  file    false  "Cover photo"
// @Success      200  {object} dto.UserProfileResp
// @Failure      400  {object} dto.ErrorResponse
// @Router       /users/update-profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	var req dto.UpdateProfileReq
	if err := bind(c, &req); err != nil {
		return err
	}
	avatar, closeAvatar, err := formFile(c, "profilePicture", "image", maxImageSize)
	if err != nil {
		return err
	}
	defer closeAvatar()
	cover, closeCover, err := formFile(c, "coverPhoto", "image", maxImageSize)
	if err != nil {
		return err
	}
	defer closeCover()

	ctx, cancel := context.WithTimeout(c.UserContext(), uploadTimeout)
	defer cancel()

	out, err := h.Users.UpdateProfile(ctx, uid, req, services.ProfileImages{ProfilePicture: avatar, CoverPhoto: cover})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *UserHandler) followPair(c *fiber.Ctx) (bson.ObjectID, bson.ObjectID, error) {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return uid, uid, apperr.ErrUnauthorized
	}
	target, err := objectID(c, "id", apperr.KindUser)
	return uid, target, err
}

// Follow godoc
// @Summary      Follow a user
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "User ID (hex ObjectID)"
// @Success      200  {object} dto.MessageResponse
// @Failure      400  {object} dto.ErrorResponse  "self follow or already following"
// @Failure      404  {object} dto.ErrorResponse
// @Router       /users/{id}/follow [post]
func (h *UserHandler) Follow(c *fiber.Ctx) error {
	uid, target, err := h.followPair(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Follow(ctx, uid, target); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User followed successfully"})
}

// Unfollow godoc
// @Summary      Unfollow a user
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "User ID (hex ObjectID)"
// @Success      200  {object} dto.MessageResponse
// @Failure      400  {object} dto.ErrorResponse
// @Failure      404  {object} dto.ErrorResponse
// @Router       /users/{id}/unfollow [post]
func (h *UserHandler) Unfollow(c *fiber.Ctx) error {
	uid, target, err := h.followPair(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Unfollow(ctx, uid, target); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "User unfollowed successfully"})
}

// FollowStatus godoc
// @Summary      Whether the caller follows a user
// @Tags         follow
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "User ID (hex ObjectID)"
// @Success      200  {object} dto.FollowStatusResp
// @Router       /users/{id}/follow-status [get]
func (h *UserHandler) FollowStatus(c *fiber.Ctx) error {
	uid, target, err := h.followPair(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Users.FollowStatus(ctx, uid, target)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
