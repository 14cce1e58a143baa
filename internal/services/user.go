package services

import (
	"context"
	"strings"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/FrankWaweru369/Infinity-backend/internal/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type UserStore interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id bson.ObjectID, fields bson.M) (*models.User, error)
	Follow(ctx context.Context, followerID, targetID bson.ObjectID) error
	Unfollow(ctx context.Context, followerID, targetID bson.ObjectID) error
}

// ProfileCache is told when a user's display identity changes.
type ProfileCache interface {
	Invalidate(ctx context.Context, id bson.ObjectID)
}

type UserService struct {
	users    UserStore
	resolver engagement.Resolver
	cache    ProfileCache
	blobs    storage.Blob
	notifier engagement.Notifier
	log      *zap.Logger
}

func NewUserService(users UserStore, resolver engagement.Resolver, cache ProfileCache, blobs storage.Blob, notifier engagement.Notifier, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, resolver: resolver, cache: cache, blobs: blobs, notifier: notifier, log: log}
}

func (s *UserService) profileResp(ctx context.Context, u *models.User) (dto.UserProfileResp, error) {
	ids := append(append([]bson.ObjectID{}, u.Followers...), u.Following...)
	dir, err := lookup(ctx, s.resolver, ids)
	if err != nil {
		return dto.UserProfileResp{}, err
	}
	return dto.UserProfileResp{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Avatar:         u.Avatar,
		ProfilePicture: u.ProfilePicture,
		CoverPhoto:     u.CoverPhoto,
		Bio:            u.Bio,
		FullName:       u.FullName,
		Gender:         u.Gender,
		DOB:            u.DOB,
		Location:       u.Location,
		Website:        u.Website,
		Phone:          u.Phone,
		Followers:      dir.Summaries(u.Followers),
		Following:      dir.Summaries(u.Following),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}, nil
}

func (s *UserService) Me(ctx context.Context, uid bson.ObjectID) (dto.UserProfileResp, error) {
	if uid.IsZero() {
		return dto.UserProfileResp{}, apperr.ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return dto.UserProfileResp{}, err
	}
	return s.profileResp(ctx, u)
}

func (s *UserService) ByUsername(ctx context.Context, username string) (dto.UserProfileResp, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return dto.UserProfileResp{}, err
	}
	return s.profileResp(ctx, u)
}

// List returns every user without credentials; follow lists stay as ids.
func (s *UserService) List(ctx context.Context) ([]dto.UserCard, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return userCards(users, bson.NilObjectID), nil
}

func userCards(users []models.User, viewer bson.ObjectID) []dto.UserCard {
	out := make([]dto.UserCard, 0, len(users))
	for _, u := range users {
		followers := u.Followers
		if followers == nil {
			followers = []bson.ObjectID{}
		}
		following := u.Following
		if following == nil {
			following = []bson.ObjectID{}
		}
		out = append(out, dto.UserCard{
			ID:             u.ID,
			Username:       u.Username,
			ProfilePicture: u.ProfilePicture,
			Followers:      followers,
			Following:      following,
			IsFollowing:    !viewer.IsZero() && models.LikeSet(followers).Has(viewer),
			CreatedAt:      u.CreatedAt,
		})
	}
	return out
}

// ProfileImages are the optional files of a profile edit.
type ProfileImages struct {
	ProfilePicture *Upload
	CoverPhoto     *Upload
}

// UpdateProfile applies the non-empty fields of req. Replaced images are
// removed from blob storage once the new ones are saved.
func (s *UserService) UpdateProfile(ctx context.Context, uid bson.ObjectID, req dto.UpdateProfileReq, images ProfileImages) (dto.UserProfileResp, error) {
	if uid.IsZero() {
		return dto.UserProfileResp{}, apperr.ErrUnauthorized
	}
	current, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return dto.UserProfileResp{}, err
	}

	set := bson.M{}
	put := func(field, v string) {
		if v = strings.TrimSpace(v); v != "" {
			set[field] = v
		}
	}
	put("fullName", req.FullName)
	put("bio", req.Bio)
	put("gender", req.Gender)
	put("location", req.Location)
	put("website", req.Website)
	put("phone", req.Phone)

	if name := strings.TrimSpace(req.Username); name != "" && name != current.Username {
		other, err := s.users.FindByUsername(ctx, name)
		switch {
		case err == nil && other.ID != uid:
			return dto.UserProfileResp{}, apperr.Invalid("username", "username already taken")
		case err != nil && !apperr.IsNotFound(err):
			return dto.UserProfileResp{}, err
		}
		set["username"] = name
	}
	if req.DOB != "" {
		dob, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			return dto.UserProfileResp{}, apperr.Invalid("dob", "dob must be YYYY-MM-DD")
		}
		set["dob"] = dob.UTC()
	}

	var stored, replaced []string
	upload := func(field, folder, old string, f *Upload) error {
		if f == nil {
			return nil
		}
		url, err := s.blobs.Put(ctx, folder, f.Name, f.ContentType, f.Body, f.Size)
		if err != nil {
			return apperr.Storage("store "+field, err)
		}
		set[field] = url
		stored = append(stored, url)
		if old != "" {
			replaced = append(replaced, old)
		}
		return nil
	}
	if err := upload("profilePicture", "avatars", current.ProfilePicture, images.ProfilePicture); err != nil {
		return dto.UserProfileResp{}, err
	}
	if err := upload("coverPhoto", "covers", current.CoverPhoto, images.CoverPhoto); err != nil {
		s.discard(stored...)
		return dto.UserProfileResp{}, err
	}

	u, err := s.users.UpdateProfile(ctx, uid, set)
	if err != nil {
		s.discard(stored...)
		return dto.UserProfileResp{}, err
	}
	s.discard(replaced...)
	s.cache.Invalidate(ctx, uid)
	return s.profileResp(ctx, u)
}

func (s *UserService) Follow(ctx context.Context, uid, target bson.ObjectID) error {
	if uid.IsZero() {
		return apperr.ErrUnauthorized
	}
	if uid == target {
		return apperr.Invalid("user", "you cannot follow yourself")
	}
	following, err := s.follows(ctx, uid, target)
	if err != nil {
		return err
	}
	if following {
		return apperr.Invalid("user", "already following this user")
	}
	if err := s.users.Follow(ctx, uid, target); err != nil {
		return err
	}
	s.notifier.Notify(models.NotiFollow, target, uid, models.Ref{Entity: apperr.KindUser, ID: uid})
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, uid, target bson.ObjectID) error {
	if uid.IsZero() {
		return apperr.ErrUnauthorized
	}
	if uid == target {
		return apperr.Invalid("user", "you cannot unfollow yourself")
	}
	following, err := s.follows(ctx, uid, target)
	if err != nil {
		return err
	}
	if !following {
		return apperr.Invalid("user", "you are not following this user")
	}
	return s.users.Unfollow(ctx, uid, target)
}

// follows reports whether uid follows target. Both users must exist. The
// store repeats the check inside its transaction for concurrent requests.
func (s *UserService) follows(ctx context.Context, uid, target bson.ObjectID) (bool, error) {
	if _, err := s.users.FindByID(ctx, target); err != nil {
		return false, err
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return false, err
	}
	return models.LikeSet(u.Following).Has(target), nil
}

func (s *UserService) FollowStatus(ctx context.Context, uid, target bson.ObjectID) (dto.FollowStatusResp, error) {
	if uid.IsZero() {
		return dto.FollowStatusResp{}, apperr.ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return dto.FollowStatusResp{}, err
	}
	return dto.FollowStatusResp{IsFollowing: models.LikeSet(u.Following).Has(target)}, nil
}

func (s *UserService) discard(urls ...string) {
	for _, url := range urls {
		if err := s.blobs.Delete(context.Background(), url); err != nil {
			s.log.Warn("blob not deleted", zap.String("url", url), zap.Error(err))
		}
	}
}
