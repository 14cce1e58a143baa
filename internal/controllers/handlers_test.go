package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"github.com/FrankWaweru369/Infinity-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func formBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

type fakePosts struct {
	err     error
	content *string
	calls   []string
}

func (f *fakePosts) Create(context.Context, bson.ObjectID, string, *services.Upload) (dto.PostResp, error) {
	f.calls = append(f.calls, "create")
	return dto.PostResp{}, f.err
}

func (f *fakePosts) List(context.Context, models.PostQuery) (dto.CursorPage[dto.PostResp], error) {
	return dto.CursorPage[dto.PostResp]{}, f.err
}

func (f *fakePosts) Get(_ context.Context, id bson.ObjectID) (dto.PostResp, error) {
	return dto.PostResp{ID: id}, f.err
}

func (f *fakePosts) ToggleLike(_ context.Context, id, _ bson.ObjectID) (dto.PostResp, error) {
	return dto.PostResp{ID: id}, f.err
}

func (f *fakePosts) Update(_ context.Context, id, _ bson.ObjectID, content *string, _ *services.Upload) (dto.PostResp, error) {
	f.calls = append(f.calls, "update")
	f.content = content
	out := dto.PostResp{ID: id}
	if content != nil {
		out.Content = *content
	}
	return out, f.err
}

func (f *fakePosts) Delete(context.Context, bson.ObjectID, bson.ObjectID) error {
	f.calls = append(f.calls, "delete")
	return f.err
}

func TestPostOwnerRoutes(t *testing.T) {
	id := bson.NewObjectID().Hex()
	tests := []struct {
		name   string
		uid    bson.ObjectID
		err    error
		status int
		msg    string
	}{
		{"author", bson.NewObjectID(), nil, http.StatusOK, ""},
		{"someone else", bson.NewObjectID(), apperr.ErrForbidden, http.StatusForbidden, apperr.ErrForbidden.Error()},
		{"missing", bson.NewObjectID(), apperr.NotFound(apperr.KindPost), http.StatusNotFound, "post not found"},
		{"anonymous", bson.NilObjectID, nil, http.StatusUnauthorized, apperr.ErrUnauthorized.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := &fakePosts{err: tt.err}
			app := newTestApp(tt.uid)
			h := &PostHandler{Posts: posts}
			app.Put("/posts/:id", h.Update)
			app.Delete("/posts/:id", h.Delete)

			body, ct := formBody(t, map[string]string{"content": "edited"})
			status, raw := do(t, app, http.MethodPut, "/posts/"+id, body, ct)
			assert.Equal(t, tt.status, status, string(raw))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, errorOf(t, raw))
			} else {
				var out dto.PostUpdatedResp
				require.NoError(t, json.Unmarshal(raw, &out))
				assert.Equal(t, "Post updated successfully", out.Message)
				assert.Equal(t, "edited", out.Post.Content)
			}

			status, raw = do(t, app, http.MethodDelete, "/posts/"+id, nil, "")
			assert.Equal(t, tt.status, status, string(raw))
			if tt.uid.IsZero() {
				assert.Empty(t, posts.calls)
			} else {
				assert.Equal(t, []string{"update", "delete"}, posts.calls)
			}
		})
	}
}

func TestPostUpdateWithoutContent(t *testing.T) {
	posts := &fakePosts{}
	app := newTestApp(bson.NewObjectID())
	app.Put("/posts/:id", (&PostHandler{Posts: posts}).Update)

	body, ct := formBody(t, map[string]string{})
	status, raw := do(t, app, http.MethodPut, "/posts/"+bson.NewObjectID().Hex(), body, ct)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Nil(t, posts.content)

	status, raw = do(t, app, http.MethodPut, "/posts/nope", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid post id", errorOf(t, raw))
}

type fakeReels struct {
	err   error
	views int64
	calls []string
}

func (f *fakeReels) Page(context.Context, int64, int64) (dto.ReelPageResp, error) {
	return dto.ReelPageResp{}, f.err
}

func (f *fakeReels) ByAuthor(context.Context, bson.ObjectID) ([]dto.ReelResp, error) {
	return nil, f.err
}

func (f *fakeReels) View(_ context.Context, id bson.ObjectID) (dto.ReelResp, error) {
	f.calls = append(f.calls, "view")
	f.views++
	return dto.ReelResp{ID: id, Views: f.views}, f.err
}

func (f *fakeReels) Share(_ context.Context, id bson.ObjectID) (dto.ReelResp, error) {
	f.calls = append(f.calls, "share")
	return dto.ReelResp{ID: id, Shares: 1}, f.err
}

func (f *fakeReels) Create(context.Context, bson.ObjectID, string, string, *services.Upload) (dto.ReelResp, error) {
	return dto.ReelResp{}, f.err
}

func (f *fakeReels) ToggleLike(context.Context, bson.ObjectID, bson.ObjectID) (dto.ReelResp, error) {
	return dto.ReelResp{}, f.err
}

func (f *fakeReels) Delete(context.Context, bson.ObjectID, bson.ObjectID) error {
	f.calls = append(f.calls, "delete")
	return f.err
}

func TestReelRoutes(t *testing.T) {
	id := bson.NewObjectID().Hex()

	t.Run("view and share are public", func(t *testing.T) {
		reels := &fakeReels{}
		app := newTestApp(bson.NilObjectID)
		h := &ReelHandler{Reels: reels}
		app.Get("/reels/:id", h.View)
		app.Put("/reels/:id/share", h.Share)

		status, raw := do(t, app, http.MethodGet, "/reels/"+id, nil, "")
		require.Equal(t, http.StatusOK, status, string(raw))
		var r dto.ReelResp
		require.NoError(t, json.Unmarshal(raw, &r))
		assert.Equal(t, int64(1), r.Views)

		status, raw = do(t, app, http.MethodPut, "/reels/"+id+"/share", nil, "")
		require.Equal(t, http.StatusOK, status, string(raw))
		require.NoError(t, json.Unmarshal(raw, &r))
		assert.Equal(t, int64(1), r.Shares)
		assert.Equal(t, []string{"view", "share"}, reels.calls)

		reels.err = apperr.NotFound(apperr.KindReel)
		status, raw = do(t, app, http.MethodGet, "/reels/"+id, nil, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "reel not found", errorOf(t, raw))
	})

	tests := []struct {
		name   string
		uid    bson.ObjectID
		err    error
		status int
	}{
		{"author", bson.NewObjectID(), nil, http.StatusOK},
		{"someone else", bson.NewObjectID(), apperr.ErrForbidden, http.StatusForbidden},
		{"anonymous", bson.NilObjectID, nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run("delete by "+tt.name, func(t *testing.T) {
			reels := &fakeReels{err: tt.err}
			app := newTestApp(tt.uid)
			app.Delete("/reels/:id", (&ReelHandler{Reels: reels}).Delete)

			status, raw := do(t, app, http.MethodDelete, "/reels/"+id, nil, "")
			assert.Equal(t, tt.status, status, string(raw))
			if tt.status == http.StatusOK {
				var msg dto.MessageResponse
				require.NoError(t, json.Unmarshal(raw, &msg))
				assert.Equal(t, "Reel deleted successfully", msg.Message)
			}
		})
	}
}

type fakeUsers struct {
	err    error
	status dto.FollowStatusResp
	calls  []string
}

func (f *fakeUsers) List(context.Context) ([]dto.UserCard, error) { return nil, f.err }

func (f *fakeUsers) ByUsername(context.Context, string) (dto.UserProfileResp, error) {
	return dto.UserProfileResp{}, f.err
}

func (f *fakeUsers) UpdateProfile(context.Context, bson.ObjectID, dto.UpdateProfileReq, services.ProfileImages) (dto.UserProfileResp, error) {
	return dto.UserProfileResp{}, f.err
}

func (f *fakeUsers) Follow(context.Context, bson.ObjectID, bson.ObjectID) error {
	f.calls = append(f.calls, "follow")
	return f.err
}

func (f *fakeUsers) Unfollow(context.Context, bson.ObjectID, bson.ObjectID) error {
	f.calls = append(f.calls, "unfollow")
	return f.err
}

func (f *fakeUsers) FollowStatus(context.Context, bson.ObjectID, bson.ObjectID) (dto.FollowStatusResp, error) {
	return f.status, f.err
}

func TestFollowRoutes(t *testing.T) {
	target := bson.NewObjectID().Hex()
	tests := []struct {
		name   string
		path   string
		uid    bson.ObjectID
		err    error
		status int
		msg    string
	}{
		{"follow", "/follow", bson.NewObjectID(), nil, http.StatusOK, "User followed successfully"},
		{"unfollow", "/unfollow", bson.NewObjectID(), nil, http.StatusOK, "User unfollowed successfully"},
		{"self", "/follow", bson.NewObjectID(), apperr.Invalid("user", "you cannot follow yourself"), http.StatusBadRequest, "you cannot follow yourself"},
		{"already following", "/follow", bson.NewObjectID(), apperr.Invalid("user", "already following this user"), http.StatusBadRequest, "already following this user"},
		{"not following", "/unfollow", bson.NewObjectID(), apperr.Invalid("user", "you are not following this user"), http.StatusBadRequest, "you are not following this user"},
		{"unknown user", "/follow", bson.NewObjectID(), apperr.NotFound(apperr.KindUser), http.StatusNotFound, "user not found"},
		{"anonymous", "/follow", bson.NilObjectID, nil, http.StatusUnauthorized, apperr.ErrUnauthorized.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{err: tt.err}
			app := newTestApp(tt.uid)
			h := &UserHandler{Users: users}
			app.Post("/users/:id/follow", h.Follow)
			app.Post("/users/:id/unfollow", h.Unfollow)

			status, raw := do(t, app, http.MethodPost, "/users/"+target+tt.path, nil, "")
			assert.Equal(t, tt.status, status)
			if tt.uid.IsZero() {
				assert.Empty(t, users.calls)
			}
			if tt.status == http.StatusOK {
				var msg dto.MessageResponse
				require.NoError(t, json.Unmarshal(raw, &msg))
				assert.Equal(t, tt.msg, msg.Message)
			} else {
				assert.Equal(t, tt.msg, errorOf(t, raw))
			}
		})
	}

	t.Run("status", func(t *testing.T) {
		users := &fakeUsers{status: dto.FollowStatusResp{IsFollowing: true}}
		app := newTestApp(bson.NewObjectID())
		app.Get("/users/:id/follow-status", (&UserHandler{Users: users}).FollowStatus)

		status, raw := do(t, app, http.MethodGet, "/users/"+target+"/follow-status", nil, "")
		require.Equal(t, http.StatusOK, status)
		var out dto.FollowStatusResp
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.True(t, out.IsFollowing)

		status, _ = do(t, app, http.MethodGet, "/users/nope/follow-status", nil, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

type noProfiles struct{}

func (noProfiles) ResolveProfiles(context.Context, []bson.ObjectID) (map[bson.ObjectID]models.Profile, error) {
	return map[bson.ObjectID]models.Profile{}, nil
}

// searchUsers and searchPosts record the term the service passed down.
type searchUsers struct{ terms []string }

func (s *searchUsers) FindByID(context.Context, bson.ObjectID) (*models.User, error) {
	return nil, apperr.NotFound(apperr.KindUser)
}

func (s *searchUsers) Suggested(context.Context, []bson.ObjectID, int64) ([]models.User, error) {
	return nil, nil
}

func (s *searchUsers) Search(_ context.Context, q string, _ int64) ([]models.User, error) {
	s.terms = append(s.terms, q)
	return []models.User{{ID: bson.NewObjectID(), Username: q}}, nil
}

type searchPosts struct{ terms []string }

func (s *searchPosts) Popular(context.Context, int64) ([]models.Post, error) { return nil, nil }

func (s *searchPosts) Search(_ context.Context, q string, _ int64) ([]models.Post, error) {
	s.terms = append(s.terms, q)
	return []models.Post{{ID: bson.NewObjectID(), Content: q}}, nil
}

func TestExploreSearchRoutes(t *testing.T) {
	users, posts := &searchUsers{}, &searchPosts{}
	svc := services.NewExploreService(users, posts, services.NewViews(noProfiles{}))
	app := newTestApp(bson.NewObjectID())
	h := &ExploreHandler{Explore: svc}
	app.Get("/explore/search/users", h.SearchUsers)
	app.Get("/explore/search/posts", h.SearchPosts)

	for _, path := range []string{"/explore/search/users", "/explore/search/posts"} {
		for _, q := range []string{"", "?q=", "?q=%20%20"} {
			status, raw := do(t, app, http.MethodGet, path+q, nil, "")
			assert.Equal(t, http.StatusBadRequest, status, path+q)
			assert.Equal(t, "search query is required", errorOf(t, raw))
		}
	}
	assert.Empty(t, users.terms)
	assert.Empty(t, posts.terms)

	for _, q := range []string{"c++", "a.b*", "(x|y)", " padded "} {
		status, raw := do(t, app, http.MethodGet, "/explore/search/posts?q="+url.QueryEscape(q), nil, "")
		require.Equal(t, http.StatusOK, status, string(raw))
		var out []dto.PostResp
		require.NoError(t, json.Unmarshal(raw, &out))
		require.Len(t, out, 1)

		status, _ = do(t, app, http.MethodGet, "/explore/search/users?q="+url.QueryEscape(q), nil, "")
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, []string{"c++", "a.b*", "(x|y)", "padded"}, posts.terms)
	assert.Equal(t, posts.terms, users.terms)
}

type memVideos struct {
	reels map[bson.ObjectID]*models.Reel
}

func (m *memVideos) FindByID(_ context.Context, id bson.ObjectID) (*models.Reel, error) {
	r, ok := m.reels[id]
	if !ok {
		return nil, apperr.NotFound(apperr.KindReel)
	}
	return r, nil
}

func (m *memVideos) SetOptimized(_ context.Context, id bson.ObjectID, urls models.VideoURLs, at time.Time) error {
	r, ok := m.reels[id]
	if !ok {
		return apperr.NotFound(apperr.KindReel)
	}
	r.VideoURLs, r.IsOptimized, r.OptimizedAt = &urls, true, &at
	return nil
}

func TestVideoRoutes(t *testing.T) {
	reel := &models.Reel{ID: bson.NewObjectID(), VideoURL: "https://res.example.com/demo/video/upload/v1/reels/clip.mov"}
	videos := &memVideos{reels: map[bson.ObjectID]*models.Reel{reel.ID: reel}}
	app := newTestApp(bson.NewObjectID())
	h := &VideoHandler{Videos: services.NewVideoService(videos)}
	app.Post("/videos/optimize", h.Optimize)
	app.Get("/videos/optimized/:reelId", h.Optimized)

	optimized := "/videos/optimized/" + reel.ID.Hex()
	status, raw := do(t, app, http.MethodGet, optimized, nil, "")
	require.Equal(t, http.StatusOK, status, string(raw))
	var pick dto.OptimizedVideoResp
	require.NoError(t, json.Unmarshal(raw, &pick))
	assert.Equal(t, "high", pick.Quality)
	assert.Equal(t, reel.VideoURL, pick.URL, "falls back to the upload before optimizing")

	status, raw = do(t, app, http.MethodPost, "/videos/optimize",
		jsonBody(t, dto.OptimizeVideoReq{ReelID: reel.ID.Hex(), VideoURL: reel.VideoURL}), "application/json")
	require.Equal(t, http.StatusOK, status, string(raw))
	var opt dto.OptimizeVideoResp
	require.NoError(t, json.Unmarshal(raw, &opt))
	assert.True(t, opt.Success)
	assert.Equal(t, services.OptimizedURLs(reel.VideoURL), opt.OptimizedURLs)
	assert.True(t, reel.IsOptimized)

	status, raw = do(t, app, http.MethodGet, optimized+"?dataSaver=true", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &pick))
	assert.Equal(t, "medium", pick.Quality)
	assert.Equal(t, opt.OptimizedURLs.Medium, pick.URL)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
		msg    string
	}{
		{"bad quality", http.MethodGet, optimized + "?quality=ultra", nil, http.StatusBadRequest, "quality must be one of: auto high medium low"},
		{"bad reel id", http.MethodGet, "/videos/optimized/nope", nil, http.StatusBadRequest, "invalid reel id"},
		{"unknown reel", http.MethodGet, "/videos/optimized/" + bson.NewObjectID().Hex(), nil, http.StatusNotFound, "reel not found"},
		{"missing url", http.MethodPost, "/videos/optimize", dto.OptimizeVideoReq{ReelID: reel.ID.Hex()}, http.StatusBadRequest, ""},
		{"optimize unknown reel", http.MethodPost, "/videos/optimize",
			dto.OptimizeVideoReq{ReelID: bson.NewObjectID().Hex(), VideoURL: reel.VideoURL}, http.StatusNotFound, "reel not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var status int
			var raw []byte
			if tt.body != nil {
				status, raw = do(t, app, tt.method, tt.target, jsonBody(t, tt.body), "application/json")
			} else {
				status, raw = do(t, app, tt.method, tt.target, nil, "")
			}
			assert.Equal(t, tt.status, status, string(raw))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, errorOf(t, raw))
			}
		})
	}
}
