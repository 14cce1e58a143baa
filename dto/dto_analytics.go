package dto

import (
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/models"
)

// ActivityResp is a UserActivity summary with its user resolved.
type ActivityResp struct {
	User              UserSummary        `json:"user"`
	NumberOfVisits    int64              `json:"numberOfVisits"`
	TotalTimeSpent    int64              `json:"totalTimeSpent"`
	LastVisit         *time.Time         `json:"lastVisit"`
	LastVisitDuration int64              `json:"lastVisitDuration"`
	LastVisitedPage   string             `json:"lastVisitedPage"`
	Devices           []string           `json:"devices"`
	PagesVisited      []models.PageCount `json:"pagesVisited"`
}

type TopVisitor struct {
	User           UserSummary `json:"user"`
	NumberOfVisits int64       `json:"numberOfVisits"`
}

type AnalyticsSummaryResp struct {
	TotalUsers             int64                `json:"totalUsers"`
	MostActiveUsers        []TopVisitor         `json:"mostActiveUsers"`
	MostViewedPages        []models.CountBucket `json:"mostViewedPages"`
	AverageSessionDuration float64              `json:"averageSessionDuration"`
}

type ActivityPageResp struct {
	Activities  []ActivityResp `json:"activities"`
	CurrentPage int64          `json:"currentPage"`
	TotalPages  int64          `json:"totalPages"`
	Total       int64          `json:"total"`
}

type UserActivityDetailResp struct {
	Activity     *ActivityResp      `json:"activity"`
	RecentVisits []models.PageVisit `json:"recentVisits"`
}

type DashboardOverviewResp struct {
	TotalUsers         int64   `json:"totalUsers"`
	NewUsersLast7Days  int64   `json:"newUsersLast7Days"`
	OnlineUsers        int64   `json:"onlineUsers"`
	ActiveLast24Hours  int64   `json:"activeLast24Hours"`
	PageViewsLast24h   int64   `json:"pageViewsLast24Hours"`
	AverageSessionSecs float64 `json:"averageSessionDuration"`
}
