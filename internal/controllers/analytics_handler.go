package controllers

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type AnalyticsAPI interface {
	TotalUsers(ctx context.Context) (int64, error)
	NewUsers(ctx context.Context) (int64, error)
	MostActiveUsers(ctx context.Context) ([]dto.ActivityResp, error)
	MostViewedPages(ctx context.Context) ([]models.CountBucket, error)
	AverageSessionDuration(ctx context.Context) (float64, error)
	MostUsedDevices(ctx context.Context) ([]models.CountBucket, error)
	RecentActiveUsers(ctx context.Context) ([]dto.ActivityResp, error)
	OnlineUsers(ctx context.Context) ([]dto.ActivityResp, error)
	Summary(ctx context.Context) (dto.AnalyticsSummaryResp, error)
	ActivityPage(ctx context.Context, page, limit int64) (dto.ActivityPageResp, error)
	UserActivity(ctx context.Context, user bson.ObjectID) (dto.UserActivityDetailResp, error)
	DashboardOverview(ctx context.Context) (dto.DashboardOverviewResp, error)
}

type AnalyticsHandler struct {
	Analytics AnalyticsAPI
}

type countResp struct {
	Count int64 `json:"count"`
}

type durationResp struct {
	AverageSessionDuration float64 `json:"averageSessionDuration"`
}

// respond runs fn under the request deadline and writes its result as JSON.
func respond[T any](c *fiber.Ctx, fn func(ctx context.Context) (T, error)) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	out, err := fn(ctx)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// TotalUsers godoc
// @Summary      Number of registered users
// @Tags         analytics
// @Produce      json
// @Success      200  {object} countResp
// @Router       /analytics/total-users [get]
func (h *AnalyticsHandler) TotalUsers(c *fiber.Ctx) error {
	return respond(c, func(ctx context.Context) (countResp, error) {
		n, err := h.Analytics.TotalUsers(ctx)
		return countResp{Count: n}, err
	})
}

// NewUsers godoc
// @Summary      Users registered in the last 7 days
// @Tags         analytics
// @Produce      json
// @Success      200  {object} countResp
// @Router       /analytics/new-users [get]
func (h *AnalyticsHandler) NewUsers(c *fiber.Ctx) error {
	return respond(c, func(ctx context.Context) (countResp, error) {
		n, err := h.Analytics.NewUsers(ctx)
		return countResp{Count: n}, err
	})
}

// MostActiveUsers godoc
// @Summary      Users with the most visits
// @Tags         analytics
// @Produce      json
// @Success      200  {array}  dto.ActivityResp
// @Router       /analytics/most-active-users [get]
func (h *AnalyticsHandler) MostActiveUsers(c *fiber.Ctx) error {
	return respond(c, h.Analytics.MostActiveUsers)
}

// MostViewedPages godoc
// @Summary      Pages by visit count
// @Tags         analytics
// @Produce      json
// @Success      200  {array}  models.CountBucket
// @Router       /analytics/most-viewed-pages [get]
func (h *AnalyticsHandler) MostViewedPages(c *fiber.Ctx) error {
	return respond(c, h.Analytics.MostViewedPages)
}

// AverageSessionDuration godoc
// @Summary      Mean visit duration in seconds
// @Tags         analytics
// @Produce      json
// @Success      200  {object} durationResp
// @Router       /analytics/average-session-duration [get]
func (h *AnalyticsHandler) AverageSessionDuration(c *fiber.Ctx) error {
	return respond(c, func(ctx context.Context) (durationResp, error) {
		avg, err := h.Analytics.AverageSessionDuration(ctx)
		return durationResp{AverageSessionDuration: avg}, err
	})
}

// MostUsedDevices godoc
// @Summary      User agents by number of users
// @Tags         analytics
// @Produce      json
// @Success      200  {array}  models.CountBucket
// @Router       /analytics/most-used-devices [get]
func (h *AnalyticsHandler) MostUsedDevices(c *fiber.Ctx) error {
	return respond(c, h.Analytics.MostUsedDevices)
}

// RecentActiveUsers godoc
// @Summary      Users active in the last 24 hours
// @Tags         analytics
// @Produce      json
// @Success      200  {array}  dto.ActivityResp
// @Router       /analytics/recent-active-users [get]
func (h *AnalyticsHandler) RecentActiveUsers(c *fiber.Ctx) error {
	return respond(c, h.Analytics.RecentActiveUsers)
}

// OnlineUsers godoc
// @Summary      Users active in the last 5 minutes
// @Tags         analytics
// @Produce      json
// @Success      200  {array}  dto.ActivityResp
// @Router       /analytics/online-users [get]
func (h *AnalyticsHandler) OnlineUsers(c *fiber.Ctx) error {
	return respond(c, h.Analytics.OnlineUsers)
}

// Summary godoc
// @Summary      Combined analytics
// @Tags         analytics
// @Produce      json
// @Success      200  {object} dto.AnalyticsSummaryResp
// @Router       /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	return respond(c, h.Analytics.Summary)
}

// ActivityPage godoc
// @Summary      Activity of every user, paginated
// @Tags         analytics
// @Produce      json
// @Param        page   query  int  false  "1-based page" default(1)
// @Param        limit  query  int  false  "Page size" default(20) maximum(100)
// @Success      200  {object} dto.ActivityPageResp
// @Router       /analytics/user-activity [get]
func (h *AnalyticsHandler) ActivityPage(c *fiber.Ctx) error {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	return respond(c, func(ctx context.Context) (dto.ActivityPageResp, error) {
		return h.Analytics.ActivityPage(ctx, page, limit)
	})
}

// UserActivity godoc
// @Summary      Activity and recent visits of one user
// @Tags         analytics
// @Produce      json
// @Param        userId  path     string  true  "User ID (hex ObjectID)"
// @Success      200  {object} dto.UserActivityDetailResp
// @Failure      400  {object} dto.ErrorResponse
// @Router       /analytics/user-activity/{userId} [get]
func (h *AnalyticsHandler) UserActivity(c *fiber.Ctx) error {
	user, err := objectID(c, "userId", apperr.KindUser)
	if err != nil {
		return err
	}
	return respond(c, func(ctx context.Context) (dto.UserActivityDetailResp, error) {
		return h.Analytics.UserActivity(ctx, user)
	})
}

// DashboardOverview godoc
// @Summary      Headline numbers for the admin dashboard
// @Tags         analytics
// @Produce      json
// @Success      200  {object} dto.DashboardOverviewResp
// @Router       /analytics/dashboard-overview [get]
func (h *AnalyticsHandler) DashboardOverview(c *fiber.Ctx) error {
	return respond(c, h.Analytics.DashboardOverview)
}
