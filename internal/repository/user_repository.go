package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepository struct {
	Client *mongo.Client
	Col    *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) *UserRepository {
	return &UserRepository{Client: client, Col: db.Collection("users")}
}

var profileProjection = bson.M{"username": 1, "profilePicture": 1, "avatar": 1}

func (r *UserRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.Col, id, apperr.KindUser)
}

// FindBy looks a user up by a unique field (email, username, resetPasswordToken).
func (r *UserRepository) FindBy(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.Col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.KindUser)
	}
	if err != nil {
		return nil, apperr.Storage("find user", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindBy(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindBy(ctx, bson.M{"username": username})
}

// Create inserts a new user. Email and username clashes surface as
// ValidationErrors naming the field.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Followers == nil {
		u.Followers = []bson.ObjectID{}
	}
	if u.Following == nil {
		u.Following = []bson.ObjectID{}
	}

	if _, err := r.Col.InsertOne(ctx, u); err != nil {
		if isDuplicateKey(err) {
			return duplicateField(err)
		}
		return apperr.Storage("insert user", err)
	}
	return nil
}

func duplicateField(err error) error {
	if strings.Contains(err.Error(), "username") {
		return apperr.Invalid("username", "username already taken")
	}
	return apperr.Invalid("email", "email already registered")
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage("list users", err)
	}
	return out, nil
}

// ProfilesByIDs fetches the display identity of every existing id in one
// query. Ids with no user are simply absent from the result.
func (r *UserRepository) ProfilesByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.Profile, error) {
	out := make(map[bson.ObjectID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.Col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(profileProjection))
	if err != nil {
		return nil, apperr.Storage("resolve profiles", err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, apperr.Storage("resolve profiles", err)
		}
		out[p.ID] = p
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Storage("resolve profiles", err)
	}
	return out, nil
}

func (r *UserRepository) set(ctx context.Context, id bson.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.User
	err := r.Col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(apperr.KindUser)
	}
	if err != nil {
		if isDuplicateKey(err) {
			return nil, duplicateField(err)
		}
		return nil, apperr.Storage("update user", err)
	}
	return &out, nil
}

// UpdateProfile sets the given fields and returns the updated user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id bson.ObjectID, fields bson.M) (*models.User, error) {
	fields["updatedAt"] = time.Now().UTC()
	return r.set(ctx, id, bson.M{"$set": fields})
}

// SetPassword stores a new hash and clears any pending reset.
func (r *UserRepository) SetPassword(ctx context.Context, id bson.ObjectID, hash string) error {
	now := time.Now().UTC()
	_, err := r.set(ctx, id, bson.M{
		"$set":   bson.M{"password": hash, "passwordChangedAt": now, "updatedAt": now},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	return err
}

func (r *UserRepository) SetResetToken(ctx context.Context, id bson.ObjectID, tokenHash string, expire time.Time) error {
	_, err := r.set(ctx, id, bson.M{"$set": bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": expire,
	}})
	return err
}

// FindByResetToken returns the user holding an unexpired reset token hash.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.FindBy(ctx, bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": now},
	})
}

// Follow records follower -> target on both documents in one transaction.
func (r *UserRepository) Follow(ctx context.Context, followerID, targetID bson.ObjectID) error {
	return r.followTx(ctx, followerID, targetID, true)
}

func (r *UserRepository) Unfollow(ctx context.Context, followerID, targetID bson.ObjectID) error {
	return r.followTx(ctx, followerID, targetID, false)
}

func (r *UserRepository) followTx(ctx context.Context, followerID, targetID bson.ObjectID, follow bool) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return apperr.Storage("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		now := time.Now().UTC()

		var targetFilter, targetUpdate, followerUpdate bson.M
		if follow {
			targetFilter = bson.M{"_id": targetID, "followers": bson.M{"$ne": followerID}}
			targetUpdate = bson.M{"$addToSet": bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": now}}
			followerUpdate = bson.M{"$addToSet": bson.M{"following": targetID}, "$set": bson.M{"updatedAt": now}}
		} else {
			targetFilter = bson.M{"_id": targetID, "followers": followerID}
			targetUpdate = bson.M{"$pull": bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": now}}
			followerUpdate = bson.M{"$pull": bson.M{"following": targetID}, "$set": bson.M{"updatedAt": now}}
		}

		res, err := r.Col.UpdateOne(sc, targetFilter, targetUpdate)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			n, err := r.Col.CountDocuments(sc, bson.M{"_id": targetID})
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, apperr.NotFound(apperr.KindUser)
			}
			if follow {
				return nil, apperr.Invalid("user", "already following this user")
			}
			return nil, apperr.Invalid("user", "you are not following this user")
		}

		res, err = r.Col.UpdateOne(sc, bson.M{"_id": followerID}, followerUpdate)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, apperr.NotFound(apperr.KindUser)
		}
		return nil, nil
	})
	if err != nil {
		if apperr.IsDomain(err) {
			return err
		}
		return apperr.Storage("update follow", err)
	}
	return nil
}

// Suggested returns up to limit users outside exclude, most followed first.
func (r *UserRepository) Suggested(ctx context.Context, exclude []bson.ObjectID, limit int64) ([]models.User, error) {
	filter := bson.M{}
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "followers", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, filter, opts, "suggest users")
}

// Search matches username or full name case-insensitively. q is taken literally.
func (r *UserRepository) Search(ctx context.Context, q string, limit int64) ([]models.User, error) {
	pattern := literalMatch(q)
	filter := bson.M{"$or": []bson.M{
		{"username": pattern},
		{"fullName": pattern},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "followers", Value: -1}}).
		SetLimit(limit)
	return r.find(ctx, filter, opts, "search users")
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder, op string) ([]models.User, error) {
	cur, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return out, nil
}

// Count counts users, optionally only those created at or after since.
func (r *UserRepository) Count(ctx context.Context, since *time.Time) (int64, error) {
	filter := bson.M{}
	if since != nil {
		filter["createdAt"] = bson.M{"$gte": *since}
	}
	n, err := r.Col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, apperr.Storage("count users", err)
	}
	return n, nil
}
