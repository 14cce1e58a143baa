package repository

import (
	"context"
	"errors"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AnalyticsRepository struct {
	Visits     *mongo.Collection
	Activities *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{
		Visits:     db.Collection("pagevisits"),
		Activities: db.Collection("useractivities"),
	}
}

func (r *AnalyticsRepository) InsertVisit(ctx context.Context, v *models.PageVisit) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	if _, err := r.Visits.InsertOne(ctx, v); err != nil {
		return apperr.Storage("insert page visit", err)
	}
	return nil
}

// RecordActivity folds one visit into the user's activity summary.
func (r *AnalyticsRepository) RecordActivity(ctx context.Context, v models.PageVisit) error {
	if v.User == nil || v.User.IsZero() {
		return nil
	}
	user := *v.User
	common := func() bson.M {
		return bson.M{
			"$inc": bson.M{"numberOfVisits": 1, "totalTimeSpent": v.Duration},
			"$set": bson.M{
				"lastVisit":         v.CreatedAt,
				"lastVisitDuration": v.Duration,
				"lastVisitedPage":   v.Page,
			},
			"$addToSet": bson.M{"devices": v.UserAgent},
		}
	}

	// Page already counted: bump its entry in place.
	upd := common()
	upd["$inc"].(bson.M)["pagesVisited.$.count"] = 1
	res, err := r.Activities.UpdateOne(ctx, bson.M{"user": user, "pagesVisited.page": v.Page}, upd)
	if err != nil {
		return apperr.Storage("record activity", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// First visit of the page (or of the user): push a fresh counter.
	upd = common()
	upd["$push"] = bson.M{"pagesVisited": models.PageCount{Page: v.Page, Count: 1}}
	_, err = r.Activities.UpdateOne(ctx,
		bson.M{"user": user, "pagesVisited.page": bson.M{"$ne": v.Page}},
		upd,
		options.UpdateOne().SetUpsert(true),
	)
	if isDuplicateKey(err) {
		// Lost the upsert race on the unique user index; the document exists now.
		return r.RecordActivity(ctx, v)
	}
	if err != nil {
		return apperr.Storage("record activity", err)
	}
	return nil
}

func (r *AnalyticsRepository) aggregateBuckets(ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline, op string) ([]models.CountBucket, error) {
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	out := []models.CountBucket{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return out, nil
}

// MostViewedPages groups visits by page.
func (r *AnalyticsRepository) MostViewedPages(ctx context.Context, limit int64) ([]models.CountBucket, error) {
	return r.aggregateBuckets(ctx, r.Visits, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$page", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}, "most viewed pages")
}

// MostUsedDevices counts users per recorded user agent.
func (r *AnalyticsRepository) MostUsedDevices(ctx context.Context) ([]models.CountBucket, error) {
	return r.aggregateBuckets(ctx, r.Activities, mongo.Pipeline{
		{{Key: "$unwind", Value: "$devices"}},
		{{Key: "$group", Value: bson.M{"_id": "$devices", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}, "most used devices")
}

// AverageVisitDuration averages the non-zero visit durations, in seconds.
func (r *AnalyticsRepository) AverageVisitDuration(ctx context.Context) (float64, error) {
	cur, err := r.Visits.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"duration": bson.M{"$gt": 0}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$duration"}}}},
	})
	if err != nil {
		return 0, apperr.Storage("average duration", err)
	}
	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, apperr.Storage("average duration", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}

// TopVisitors ranks signed-in users by raw page visits.
func (r *AnalyticsRepository) TopVisitors(ctx context.Context, limit int64) ([]models.VisitorCount, error) {
	cur, err := r.Visits.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$user", "visits": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "visits", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	})
	if err != nil {
		return nil, apperr.Storage("top visitors", err)
	}
	out := []models.VisitorCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("top visitors", err)
	}
	return out, nil
}

// ActivitiesPage pages through activity summaries, busiest first. A nil since
// means no recency filter.
func (r *AnalyticsRepository) ActivitiesPage(ctx context.Context, since *time.Time, skip, limit int64) ([]models.UserActivity, int64, error) {
	filter := bson.M{}
	if since != nil {
		filter["lastVisit"] = bson.M{"$gte": *since}
	}
	total, err := r.Activities.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Storage("count activities", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "numberOfVisits", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.Activities.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, apperr.Storage("list activities", err)
	}
	out := []models.UserActivity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, apperr.Storage("list activities", err)
	}
	return out, total, nil
}

func (r *AnalyticsRepository) ActivityOf(ctx context.Context, user bson.ObjectID) (*models.UserActivity, error) {
	var out models.UserActivity
	err := r.Activities.FindOne(ctx, bson.M{"user": user}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("find activity", err)
	}
	return &out, nil
}

func (r *AnalyticsRepository) RecentVisits(ctx context.Context, user bson.ObjectID, limit int64) ([]models.PageVisit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cur, err := r.Visits.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, apperr.Storage("recent visits", err)
	}
	out := []models.PageVisit{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("recent visits", err)
	}
	return out, nil
}

func (r *AnalyticsRepository) CountVisitsSince(ctx context.Context, since time.Time) (int64, error) {
	n, err := r.Visits.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, apperr.Storage("count visits", err)
	}
	return n, nil
}

// PurgeVisitsBefore drops raw page visits older than cutoff.
func (r *AnalyticsRepository) PurgeVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Visits.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, apperr.Storage("purge page visits", err)
	}
	return res.DeletedCount, nil
}
