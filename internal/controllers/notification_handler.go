package controllers

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotificationAPI interface {
	Latest(ctx context.Context, recipient bson.ObjectID) (dto.NotificationListResp, error)
	MarkRead(ctx context.Context, id, recipient bson.ObjectID) (dto.NotificationResp, error)
	MarkAllRead(ctx context.Context, recipient bson.ObjectID) (int64, error)
}

type NotificationHandler struct {
	Notifications NotificationAPI
}

type markAllResp struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// Latest godoc
// @Summary      Latest notifications of the caller
// @Description  Up to 30 notifications, newest first, with the unread count.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.NotificationListResp
// @Failure      401  {object} dto.ErrorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) Latest(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Notifications.Latest(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string  true  "Notification ID (hex ObjectID)"
// @Success      200  {object} dto.NotificationResp
// @Failure      404  {object} dto.ErrorResponse
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	id, err := objectID(c, "id", apperr.KindNotification)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Notifications.MarkRead(ctx, id, uid)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// MarkAllRead godoc
// @Summary      Mark every notification of the caller as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} markAllResp
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	uid, err := middleware.UIDObjectID(c)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notifications.MarkAllRead(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(markAllResp{Message: "All notifications marked as read", Updated: n})
}
