package services

import (
	"context"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const (
	analyticsTopN       = 10
	onlineWindow        = 5 * time.Minute
	recentWindow        = 24 * time.Hour
	newUserWindow       = 7 * 24 * time.Hour
	recentVisitsPerUser = 20
)

type AnalyticsStore interface {
	InsertVisit(ctx context.Context, v *models.PageVisit) error
	RecordActivity(ctx context.Context, v models.PageVisit) error
	MostViewedPages(ctx context.Context, limit int64) ([]models.CountBucket, error)
	MostUsedDevices(ctx context.Context) ([]models.CountBucket, error)
	AverageVisitDuration(ctx context.Context) (float64, error)
	TopVisitors(ctx context.Context, limit int64) ([]models.VisitorCount, error)
	ActivitiesPage(ctx context.Context, since *time.Time, skip, limit int64) ([]models.UserActivity, int64, error)
	ActivityOf(ctx context.Context, user bson.ObjectID) (*models.UserActivity, error)
	RecentVisits(ctx context.Context, user bson.ObjectID, limit int64) ([]models.PageVisit, error)
	CountVisitsSince(ctx context.Context, since time.Time) (int64, error)
}

type UserCounter interface {
	Count(ctx context.Context, since *time.Time) (int64, error)
}

type AnalyticsService struct {
	store    AnalyticsStore
	users    UserCounter
	resolver engagement.Resolver
	log      *zap.Logger
	now      func() time.Time
}

func NewAnalyticsService(store AnalyticsStore, users UserCounter, resolver engagement.Resolver, log *zap.Logger) *AnalyticsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsService{store: store, users: users, resolver: resolver, log: log, now: time.Now}
}

// Record stores a page visit and folds it into the visitor's activity.
// Errors are logged; tracking never affects the request.
func (s *AnalyticsService) Record(v models.PageVisit) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if v.CreatedAt.IsZero() {
			v.CreatedAt = s.now().UTC()
		}
		if err := s.store.InsertVisit(ctx, &v); err != nil {
			s.log.Warn("page visit not recorded", zap.String("page", v.Page), zap.Error(err))
			return
		}
		if err := s.store.RecordActivity(ctx, v); err != nil {
			s.log.Warn("user activity not recorded", zap.String("page", v.Page), zap.Error(err))
		}
	}()
}

func (s *AnalyticsService) TotalUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx, nil)
}

func (s *AnalyticsService) NewUsers(ctx context.Context) (int64, error) {
	since := s.now().Add(-newUserWindow).UTC()
	return s.users.Count(ctx, &since)
}

func (s *AnalyticsService) activityViews(ctx context.Context, acts []models.UserActivity) ([]dto.ActivityResp, error) {
	ids := make([]bson.ObjectID, 0, len(acts))
	for _, a := range acts {
		ids = append(ids, a.User)
	}
	dir, err := lookup(ctx, s.resolver, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResp, 0, len(acts))
	for _, a := range acts {
		out = append(out, activityView(a, dir))
	}
	return out, nil
}

func activityView(a models.UserActivity, dir engagement.Directory) dto.ActivityResp {
	devices := a.Devices
	if devices == nil {
		devices = []string{}
	}
	pages := a.PagesVisited
	if pages == nil {
		pages = []models.PageCount{}
	}
	return dto.ActivityResp{
		User:              dir.Summary(a.User),
		NumberOfVisits:    a.NumberOfVisits,
		TotalTimeSpent:    a.TotalTimeSpent,
		LastVisit:         a.LastVisit,
		LastVisitDuration: a.LastVisitDuration,
		LastVisitedPage:   a.LastVisitedPage,
		Devices:           devices,
		PagesVisited:      pages,
	}
}

// MostActiveUsers ranks activity summaries by visit count.
func (s *AnalyticsService) MostActiveUsers(ctx context.Context) ([]dto.ActivityResp, error) {
	acts, _, err := s.store.ActivitiesPage(ctx, nil, 0, analyticsTopN)
	if err != nil {
		return nil, err
	}
	return s.activityViews(ctx, acts)
}

func (s *AnalyticsService) MostViewedPages(ctx context.Context) ([]models.CountBucket, error) {
	return s.store.MostViewedPages(ctx, analyticsTopN)
}

func (s *AnalyticsService) AverageSessionDuration(ctx context.Context) (float64, error) {
	return s.store.AverageVisitDuration(ctx)
}

func (s *AnalyticsService) MostUsedDevices(ctx context.Context) ([]models.CountBucket, error) {
	return s.store.MostUsedDevices(ctx)
}

// ActiveSince lists users whose last visit falls inside window.
func (s *AnalyticsService) ActiveSince(ctx context.Context, window time.Duration) ([]dto.ActivityResp, error) {
	since := s.now().Add(-window).UTC()
	acts, _, err := s.store.ActivitiesPage(ctx, &since, 0, 0)
	if err != nil {
		return nil, err
	}
	return s.activityViews(ctx, acts)
}

func (s *AnalyticsService) RecentActiveUsers(ctx context.Context) ([]dto.ActivityResp, error) {
	return s.ActiveSince(ctx, recentWindow)
}

func (s *AnalyticsService) OnlineUsers(ctx context.Context) ([]dto.ActivityResp, error) {
	return s.ActiveSince(ctx, onlineWindow)
}

func (s *AnalyticsService) Summary(ctx context.Context) (dto.AnalyticsSummaryResp, error) {
	total, err := s.users.Count(ctx, nil)
	if err != nil {
		return dto.AnalyticsSummaryResp{}, err
	}
	top, err := s.store.TopVisitors(ctx, analyticsTopN)
	if err != nil {
		return dto.AnalyticsSummaryResp{}, err
	}
	ids := make([]bson.ObjectID, 0, len(top))
	for _, t := range top {
		ids = append(ids, t.User)
	}
	dir, err := lookup(ctx, s.resolver, ids)
	if err != nil {
		return dto.AnalyticsSummaryResp{}, err
	}
	pages, err := s.store.MostViewedPages(ctx, analyticsTopN)
	if err != nil {
		return dto.AnalyticsSummaryResp{}, err
	}
	avg, err := s.store.AverageVisitDuration(ctx)
	if err != nil {
		return dto.AnalyticsSummaryResp{}, err
	}

	visitors := make([]dto.TopVisitor, 0, len(top))
	for _, t := range top {
		visitors = append(visitors, dto.TopVisitor{User: dir.Summary(t.User), NumberOfVisits: t.Visits})
	}
	return dto.AnalyticsSummaryResp{
		TotalUsers:             total,
		MostActiveUsers:        visitors,
		MostViewedPages:        pages,
		AverageSessionDuration: avg,
	}, nil
}

// ActivityPage pages through every user's activity (1-based page).
func (s *AnalyticsService) ActivityPage(ctx context.Context, page, limit int64) (dto.ActivityPageResp, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	acts, total, err := s.store.ActivitiesPage(ctx, nil, (page-1)*limit, limit)
	if err != nil {
		return dto.ActivityPageResp{}, err
	}
	views, err := s.activityViews(ctx, acts)
	if err != nil {
		return dto.ActivityPageResp{}, err
	}
	return dto.ActivityPageResp{
		Activities:  views,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
		Total:       total,
	}, nil
}

func (s *AnalyticsService) UserActivity(ctx context.Context, user bson.ObjectID) (dto.UserActivityDetailResp, error) {
	act, err := s.store.ActivityOf(ctx, user)
	if err != nil {
		return dto.UserActivityDetailResp{}, err
	}
	visits, err := s.store.RecentVisits(ctx, user, recentVisitsPerUser)
	if err != nil {
		return dto.UserActivityDetailResp{}, err
	}
	out := dto.UserActivityDetailResp{RecentVisits: visits}
	if act != nil {
		dir, err := lookup(ctx, s.resolver, []bson.ObjectID{act.User})
		if err != nil {
			return dto.UserActivityDetailResp{}, err
		}
		v := activityView(*act, dir)
		out.Activity = &v
	}
	return out, nil
}

func (s *AnalyticsService) DashboardOverview(ctx context.Context) (dto.DashboardOverviewResp, error) {
	now := s.now().UTC()
	total, err := s.users.Count(ctx, nil)
	if err != nil {
		return dto.DashboardOverviewResp{}, err
	}
	weekAgo := now.Add(-newUserWindow)
	newUsers, err := s.users.Count(ctx, &weekAgo)
	if err != nil {
		return dto.DashboardOverviewResp{}, err
	}
	onlineSince := now.Add(-onlineWindow)
	_, online, err := s.store.ActivitiesPage(ctx, &onlineSince, 0, 1)
	if err != nil {
		return dto.DashboardOverviewResp{}, err
	}
	daySince := now.Add(-recentWindow)
	_, active, err := s.store.ActivitiesPage(ctx, &daySince, 0, 1)
	if err != nil {
		return dto.DashboardOverviewResp{}, err
	}
	views, err := s.store.CountVisitsSince(ctx, daySince)
	if err != nil {
		return dto.DashboardOverviewResp{}, err
	}
	avg, err := s.store.AverageVisitDuration(ctx)
	if err != nil {
		return dto.DashboardOverviewResp{}, err
	}
	return dto.DashboardOverviewResp{
		TotalUsers:         total,
		NewUsersLast7Days:  newUsers,
		OnlineUsers:        online,
		ActiveLast24Hours:  active,
		PageViewsLast24h:   views,
		AverageSessionSecs: avg,
	}, nil
}
