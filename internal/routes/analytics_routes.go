package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesAnalytics(api fiber.Router, h *controllers.AnalyticsHandler) {
	a := api.Group("/analytics")
	a.Get("/total-users", h.TotalUsers)
	a.Get("/new-users", h.NewUsers)
	a.Get("/most-active-users", h.MostActiveUsers)
	a.Get("/most-viewed-pages", h.MostViewedPages)
	a.Get("/average-session-duration", h.AverageSessionDuration)
	a.Get("/most-used-devices", h.MostUsedDevices)
	a.Get("/recent-active-users", h.RecentActiveUsers)
	a.Get("/summary", h.Summary)
	a.Get("/online-users", h.OnlineUsers)
	// GET /api/analytics/user-activity?page=1&limit=20
	a.Get("/user-activity", h.ActivityPage)
	a.Get("/user-activity/:userId", h.UserActivity)
	a.Get("/dashboard-overview", h.DashboardOverview)
}
