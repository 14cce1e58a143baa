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

type NotificationRepository struct {
	Col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{Col: db.Collection("notifications")}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = bson.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if _, err := r.Col.InsertOne(ctx, n); err != nil {
		return apperr.Storage("insert notification", err)
	}
	return nil
}

// Latest returns the newest notifications addressed to recipient.
func (r *NotificationRepository) Latest(ctx context.Context, recipient bson.ObjectID, limit int64) ([]models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cur, err := r.Col.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, apperr.Storage("list notifications", err)
	}
	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("list notifications", err)
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipient bson.ObjectID) (int64, error) {
	n, err := r.Col.CountDocuments(ctx, bson.M{"recipient": recipient, "isRead": false})
	if err != nil {
		return 0, apperr.Storage("count notifications", err)
	}
	return n, nil
}

// MarkRead marks one of recipient's notifications read. Someone else's
// notification is reported as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipient bson.ObjectID) (*models.Notification, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Notification
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"isRead": true, "readAt": now}},
		opts,
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.KindNotification)
	}
	if err != nil {
		return nil, apperr.Storage("mark notification read", err)
	}
	return &out, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipient bson.ObjectID) (int64, error) {
	res, err := r.Col.UpdateMany(ctx,
		bson.M{"recipient": recipient, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, apperr.Storage("mark notifications read", err)
	}
	return res.ModifiedCount, nil
}

// PurgeReadBefore deletes read notifications created before cutoff.
func (r *NotificationRepository) PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Col.DeleteMany(ctx, bson.M{"isRead": true, "createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, apperr.Storage("purge notifications", err)
	}
	return res.DeletedCount, nil
}
