package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildTitleBody(t *testing.T) {
	cases := []struct {
		typ   models.NotiType
		p     NotiParams
		title string
		body  string
	}{
		{models.NotiFollow, NotiParams{SenderName: "ann"}, "New follower", "ann started following you."},
		{models.NotiLike, NotiParams{SenderName: "ann", Entity: "reel"}, "New like", "ann liked your reel."},
		{models.NotiLike, NotiParams{SenderName: "ann"}, "New like", "ann liked your post."},
		{models.NotiComment, NotiParams{SenderName: "ann", Entity: "post"}, "New comment", "ann commented on your post."},
		{models.NotiCommentLike, NotiParams{SenderName: "ann"}, "Your comment was liked", "ann liked your comment."},
		{models.NotiReply, NotiParams{SenderName: "ann"}, "New reply", "ann replied to your comment."},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			title, body, err := BuildTitleBody(tc.typ, tc.p)
			require.NoError(t, err)
			assert.Equal(t, tc.title, title)
			assert.Equal(t, tc.body, body)
		})
	}

	_, _, err := BuildTitleBody(models.NotiLike, NotiParams{})
	assert.Error(t, err)
	_, _, err = BuildTitleBody("SHOUT", NotiParams{SenderName: "ann"})
	assert.Error(t, err)
}

func TestOptimizedURLs(t *testing.T) {
	urls := OptimizedURLs("https://res.cloudinary.com/demo/video/upload/v17/reels/clip.final.mov")
	assert.Equal(t, "https://res.cloudinary.com/demo/video/upload/q_auto:good,w_1280,h_720/v17/reels/clip.final.mp4", urls.High)
	assert.Equal(t, "https://res.cloudinary.com/demo/video/upload/q_auto:eco,w_854,h_480/v17/reels/clip.final.mp4", urls.Medium)
	assert.Equal(t, "https://res.cloudinary.com/demo/video/upload/q_auto:low,w_640,h_360/v17/reels/clip.final.mp4", urls.Low)

	plain := OptimizedURLs("/uploads/reels/a.mp4")
	assert.Equal(t, models.VideoURLs{Original: "/uploads/reels/a.mp4"}, plain)
}

func TestSelectQuality(t *testing.T) {
	assert.Equal(t, "high", SelectQuality("auto", false))
	assert.Equal(t, "medium", SelectQuality("auto", true))
	assert.Equal(t, "high", SelectQuality("", false))
	assert.Equal(t, "low", SelectQuality("low", true))
}

func TestIdentityWithoutCache(t *testing.T) {
	ann := &models.User{ID: bson.NewObjectID(), Username: "ann"}
	id := NewIdentityService(newMemUsers(ann), nil, 0, nil)

	got, err := id.ResolveProfiles(context.Background(), []bson.ObjectID{ann.ID, bson.NewObjectID()})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "ann", got[ann.ID].Username)

	// no-op without redis
	id.Invalidate(context.Background(), ann.ID)
}

func newAuth(users *memUsers, mail Mailer) *AuthService {
	return NewAuthService(users, mail, AuthConfig{
		Secret:      "test-secret",
		TTL:         time.Hour,
		FrontendURL: "https://app.example.com/",
	}, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	auth := newAuth(users, &recordingMailer{})

	reg, err := auth.Register(ctx, dto.RegisterReq{Username: "frank", Email: "Frank@Example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "frank@example.com", reg.User.Email)

	tok, err := jwt.Parse(reg.Token, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.User.ID.Hex(), claims["uid"])

	_, err = auth.Register(ctx, dto.RegisterReq{Username: "other", Email: "frank@example.com", Password: "s3cret!"})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	_, err = auth.Register(ctx, dto.RegisterReq{Username: "frank", Email: "new@example.com", Password: "s3cret!"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field)

	login, err := auth.Login(ctx, dto.LoginReq{Email: "frank@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", login.Message)

	_, err = auth.Login(ctx, dto.LoginReq{Email: "frank@example.com", Password: "nope"})
	assert.ErrorIs(t, err, errBadCredentials)
	_, err = auth.Login(ctx, dto.LoginReq{Email: "ghost@example.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, errBadCredentials)
}

func resetTokenFrom(t *testing.T, body string) string {
	t.Helper()
	_, rest, ok := strings.Cut(body, "https://app.example.com/reset-password/")
	require.True(t, ok, body)
	token, _, ok := strings.Cut(rest, `"`)
	require.True(t, ok)
	return token
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	mail := &recordingMailer{}
	auth := newAuth(users, mail)

	reg, err := auth.Register(ctx, dto.RegisterReq{Username: "frank", Email: "frank@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	require.NoError(t, auth.ForgotPassword(ctx, "frank@example.com"))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Password Reset Request", mail.sent[0].subject)
	token := resetTokenFrom(t, mail.sent[0].body)

	stored, err := users.FindByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, token, stored.ResetPasswordToken)

	require.NoError(t, auth.ResetPassword(ctx, token, "brand-new"))
	_, err = auth.Login(ctx, dto.LoginReq{Email: "frank@example.com", Password: "brand-new"})
	require.NoError(t, err)

	// the token is single use
	err = auth.ResetPassword(ctx, token, "again!")
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestPasswordResetExpires(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	mail := &recordingMailer{}
	auth := newAuth(users, mail)

	_, err := auth.Register(ctx, dto.RegisterReq{Username: "frank", Email: "frank@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	require.NoError(t, auth.ForgotPassword(ctx, "frank@example.com"))
	token := resetTokenFrom(t, mail.sent[0].body)

	auth.now = func() time.Time { return time.Now().Add(resetTokenTTL + time.Minute) }
	err = auth.ResetPassword(ctx, token, "brand-new")
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	auth := newAuth(newMemUsers(), &recordingMailer{})
	err := auth.ForgotPassword(context.Background(), "ghost@example.com")
	assert.True(t, apperr.IsNotFound(err, apperr.KindUser))
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	auth := newAuth(newMemUsers(), &recordingMailer{})
	reg, err := auth.Register(ctx, dto.RegisterReq{Username: "frank", Email: "frank@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	var ve *apperr.ValidationError
	assert.ErrorAs(t, auth.UpdatePassword(ctx, reg.User.ID, "wrong", "next-one"), &ve)
	require.NoError(t, auth.UpdatePassword(ctx, reg.User.ID, "s3cret!", "next-one"))
	_, err = auth.Login(ctx, dto.LoginReq{Email: "frank@example.com", Password: "next-one"})
	assert.NoError(t, err)
}

func TestNotificationDeliver(t *testing.T) {
	ctx := context.Background()
	ann := &models.User{ID: bson.NewObjectID(), Username: "ann"}
	bob := &models.User{ID: bson.NewObjectID(), Username: "bob"}
	store := &memNotifications{}
	svc := NewNotificationService(store, NewIdentityService(newMemUsers(ann, bob), nil, 0, nil), nil)

	ref := models.Ref{Entity: apperr.KindReel, ID: bson.NewObjectID()}
	require.NoError(t, svc.Deliver(ctx, models.NotiLike, bob.ID, ann.ID, ref))
	require.NoError(t, svc.Deliver(ctx, models.NotiLike, bob.ID, bob.ID, ref))
	require.Len(t, store.items, 1)
	assert.Equal(t, "ann liked your reel.", store.items[0].Message)

	ghost := bson.NewObjectID()
	require.NoError(t, svc.Deliver(ctx, models.NotiFollow, bob.ID, ghost, models.Ref{Entity: apperr.KindUser, ID: ghost}))

	list, err := svc.Latest(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.UnreadCount)
	assert.Equal(t, "deleted user", list.Notifications[0].Sender.Username)
	assert.Equal(t, "ann", list.Notifications[1].Sender.Username)

	read, err := svc.MarkRead(ctx, list.Notifications[1].ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = svc.MarkRead(ctx, list.Notifications[0].ID, ann.ID)
	assert.True(t, apperr.IsNotFound(err))

	n, err := svc.MarkAllRead(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.MarkAllRead(ctx, bson.NilObjectID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
