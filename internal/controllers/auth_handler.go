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

type AuthAPI interface {
	Register(ctx context.Context, req dto.RegisterReq) (dto.AuthResp, error)
	Login(ctx context.Context, req dto.LoginReq) (dto.AuthResp, error)
	Summary(ctx context.Context, uid bson.ObjectID) (dto.AuthUser, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type CurrentUser interface {
	Me(ctx context.Context, uid bson.ObjectID) (dto.UserProfileResp, error)
}

type AuthHandler struct {
	Auth   AuthAPI
	Users  CurrentUser
	Secret string
}

// Register godoc
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body     dto.RegisterReq  true  "Username, email and password"
// @Success      201   {object} dto.AuthResp
// @Failure      400   {object} dto.ErrorResponse
// @Failure      429   {object} dto.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Auth.Register(ctx, req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body     dto.LoginReq  true  "Credentials"
// @Success      200   {object} dto.AuthResp
// @Failure      400   {object} dto.ErrorResponse  "invalid credentials"
// @Failure      429   {object} dto.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Auth.Login(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.UserProfileResp
// @Failure      401  {object} dto.ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Users.Me(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ForgotPassword godoc
// @Summary      Mail a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body     dto.ForgotPasswordReq  true  "Account email"
// @Success      200   {object} dto.MessageResponse
// @Failure      404   {object} dto.ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset link sent to your email"})
}

// ResetPassword godoc
// @Summary      Set a new password with a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path     string                true  "Token from the reset link"
// @Param        body   body     dto.ResetPasswordReq  true  "New password"
// @Success      200    {object} dto.MessageResponse
// @Failure      400    {object} dto.ErrorResponse  "invalid or expired token"
// @Router       /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, c.Params("token"), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successful"})
}

// Validate godoc
// @Summary      Check a bearer token
// @Tags         auth
// @Produce      json
// @Param        Authorization  header   string  false  "Bearer token"
// @Success      200  {object} dto.ValidateResp
// @Failure      401  {object} dto.ValidateResp
// @Router       /auth/validate [get]
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	invalid := dto.ValidateResp{Valid: false, Message: "Invalid token"}
	tokenStr := middleware.BearerToken(c)
	if tokenStr == "" {
		return c.Status(http.StatusUnauthorized).JSON(dto.ValidateResp{Valid: false, Message: "No token provided"})
	}
	uidHex, err := middleware.ParseToken(h.Secret, tokenStr)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(invalid)
	}
	uid, err := bson.ObjectIDFromHex(uidHex)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(invalid)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Summary(ctx, uid)
	if apperr.IsNotFound(err) {
		return c.Status(http.StatusUnauthorized).JSON(invalid)
	}
	if err != nil {
		return err
	}
	return c.JSON(dto.ValidateResp{Valid: true, User: &u, Message: "Token is valid"})
}

// ValidateProtected godoc
// @Summary      Token check behind the auth middleware
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.ValidateResp
// @Failure      401  {object} dto.ErrorResponse
// @Router       /auth/validate-protected [get]
func (h *AuthHandler) ValidateProtected(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Summary(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(dto.ValidateResp{Valid: true, User: &u, Message: "Token is valid"})
}
