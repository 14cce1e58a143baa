package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// memUsers is an in-memory CredentialStore, ProfileSource, UserStore and
// ExploreUsers.
type memUsers struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*models.User
}

func newMemUsers(us ...*models.User) *memUsers {
	s := &memUsers{users: map[bson.ObjectID]*models.User{}}
	for _, u := range us {
		s.users[u.ID] = u
	}
	return s
}

func (s *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound(apperr.KindUser)
}

func (s *memUsers) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.ID == id })
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Username == username })
}

func (s *memUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = bson.NewObjectID()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUsers) SetPassword(_ context.Context, id bson.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound(apperr.KindUser)
	}
	u.PasswordHash = hash
	u.ResetPasswordToken, u.ResetPasswordExpire = "", nil
	return nil
}

func (s *memUsers) SetResetToken(_ context.Context, id bson.ObjectID, tokenHash string, expire time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound(apperr.KindUser)
	}
	u.ResetPasswordToken, u.ResetPasswordExpire = tokenHash, &expire
	return nil
}

func (s *memUsers) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return s.find(func(u *models.User) bool {
		return u.ResetPasswordToken == tokenHash && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now)
	})
}

func (s *memUsers) ProfilesByIDs(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[bson.ObjectID]models.Profile{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = models.Profile{ID: id, Username: u.Username, ProfilePicture: u.ProfilePicture}
		}
	}
	return out, nil
}

func (s *memUsers) List(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *memUsers) UpdateProfile(_ context.Context, id bson.ObjectID, fields bson.M) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound(apperr.KindUser)
	}
	for k, v := range fields {
		switch k {
		case "username":
			u.Username = v.(string)
		case "fullName":
			u.FullName = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "profilePicture":
			u.ProfilePicture = v.(string)
		case "coverPhoto":
			u.CoverPhoto = v.(string)
		case "dob":
			dob := v.(time.Time)
			u.DOB = &dob
		}
	}
	cp := *u
	return &cp, nil
}

func (s *memUsers) Follow(_ context.Context, followerID, targetID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	follower, target := s.users[followerID], s.users[targetID]
	if follower == nil || target == nil {
		return apperr.NotFound(apperr.KindUser)
	}
	follower.Following = append(follower.Following, targetID)
	target.Followers = append(target.Followers, followerID)
	return nil
}

func (s *memUsers) Unfollow(_ context.Context, followerID, targetID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	follower, target := s.users[followerID], s.users[targetID]
	if follower == nil || target == nil {
		return apperr.NotFound(apperr.KindUser)
	}
	following := models.LikeSet(follower.Following)
	following.Toggle(targetID)
	follower.Following = following
	followers := models.LikeSet(target.Followers)
	followers.Toggle(followerID)
	target.Followers = followers
	return nil
}

func (s *memUsers) Suggested(ctx context.Context, exclude []bson.ObjectID, limit int64) ([]models.User, error) {
	all, _ := s.List(ctx)
	var out []models.User
	for _, u := range all {
		if !models.LikeSet(exclude).Has(u.ID) && int64(len(out)) < limit {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *memUsers) Search(ctx context.Context, q string, limit int64) ([]models.User, error) {
	all, _ := s.List(ctx)
	var out []models.User
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) && int64(len(out)) < limit {
			out = append(out, u)
		}
	}
	return out, nil
}

type sentMail struct{ to, subject, body string }

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

// memNotifications is an in-memory NotificationStore.
type memNotifications struct {
	mu    sync.Mutex
	items []models.Notification
}

func (s *memNotifications) Insert(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = bson.NewObjectID()
	s.items = append(s.items, *n)
	return nil
}

func (s *memNotifications) Latest(_ context.Context, recipient bson.ObjectID, limit int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for i := len(s.items) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if s.items[i].Recipient == recipient {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *memNotifications) CountUnread(_ context.Context, recipient bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, it := range s.items {
		if it.Recipient == recipient && !it.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *memNotifications) MarkRead(_ context.Context, id, recipient bson.ObjectID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].Recipient == recipient {
			s.items[i].IsRead = true
			cp := s.items[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound(apperr.KindNotification)
}

func (s *memNotifications) MarkAllRead(_ context.Context, recipient bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.items {
		if s.items[i].Recipient == recipient && !s.items[i].IsRead {
			s.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

// memBlob hands out predictable URLs and remembers deletions.
type memBlob struct {
	mu      sync.Mutex
	n       int
	deleted []string
}

func (b *memBlob) Put(_ context.Context, folder, filename, _ string, r io.Reader, _ int64) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.n++
	return "https://cdn.test/" + folder + "/" + filename, nil
}

func (b *memBlob) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, url)
	return nil
}

func upload(name string) *Upload {
	return &Upload{Name: name, ContentType: "image/png", Size: 3, Body: strings.NewReader("png")}
}

type notifyEvent struct {
	typ               models.NotiType
	recipient, sender bson.ObjectID
	ref               models.Ref
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifyEvent
}

func (n *recordingNotifier) Notify(typ models.NotiType, recipient, sender bson.ObjectID, ref models.Ref) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifyEvent{typ, recipient, sender, ref})
}

type recordingCache struct {
	invalidated []bson.ObjectID
}

func (c *recordingCache) Invalidate(_ context.Context, id bson.ObjectID) {
	c.invalidated = append(c.invalidated, id)
}

// memPosts is an in-memory PostStore and ExplorePosts. Owner checks
// behave like the repository: a missing post is NotFound, someone else's
// is Forbidden.
type memPosts struct {
	mu    sync.Mutex
	posts map[bson.ObjectID]*models.Post
}

func newMemPosts(ps ...*models.Post) *memPosts {
	s := &memPosts{posts: map[bson.ObjectID]*models.Post{}}
	for _, p := range ps {
		s.posts[p.ID] = p
	}
	return s
}

func (s *memPosts) FindByID(_ context.Context, id bson.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFound(apperr.KindPost)
	}
	cp := *p
	return &cp, nil
}

func (s *memPosts) Create(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = bson.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *memPosts) sorted() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memPosts) List(_ context.Context, q models.PostQuery) ([]models.Post, *string, error) {
	var out []models.Post
	for _, p := range s.sorted() {
		if q.AuthorID.IsZero() || p.Author == q.AuthorID {
			out = append(out, p)
		}
	}
	return out, nil, nil
}

func (s *memPosts) ToggleLike(_ context.Context, id, userID bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false, apperr.NotFound(apperr.KindPost)
	}
	return p.Likes.Toggle(userID), nil
}

func (s *memPosts) owned(id, author bson.ObjectID) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFound(apperr.KindPost)
	}
	if p.Author != author {
		return nil, apperr.ErrForbidden
	}
	return p, nil
}

func (s *memPosts) Update(_ context.Context, id, author bson.ObjectID, set bson.M) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.owned(id, author)
	if err != nil {
		return nil, err
	}
	if v, ok := set["content"].(string); ok {
		p.Content = v
	}
	if v, ok := set["image"].(string); ok {
		p.Image = v
	}
	cp := *p
	return &cp, nil
}

func (s *memPosts) Delete(_ context.Context, id, author bson.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.owned(id, author)
	if err != nil {
		return nil, err
	}
	delete(s.posts, id)
	return p, nil
}

func (s *memPosts) Popular(_ context.Context, limit int64) ([]models.Post, error) {
	out := s.sorted()
	sort.SliceStable(out, func(i, j int) bool { return out[i].EngagementScore() > out[j].EngagementScore() })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memPosts) Search(_ context.Context, q string, limit int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range s.sorted() {
		if strings.Contains(strings.ToLower(p.Content), strings.ToLower(q)) && int64(len(out)) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

// memReels is an in-memory ReelStore and VideoStore.
type memReels struct {
	mu    sync.Mutex
	reels map[bson.ObjectID]*models.Reel
	order []bson.ObjectID
}

func newMemReels(rs ...*models.Reel) *memReels {
	s := &memReels{reels: map[bson.ObjectID]*models.Reel{}}
	for _, r := range rs {
		s.reels[r.ID] = r
		s.order = append(s.order, r.ID)
	}
	return s
}

func (s *memReels) get(id bson.ObjectID) (*models.Reel, error) {
	r, ok := s.reels[id]
	if !ok {
		return nil, apperr.NotFound(apperr.KindReel)
	}
	return r, nil
}

func (s *memReels) FindByID(_ context.Context, id bson.ObjectID) (*models.Reel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	cp := *r
	return &cp, nil
}

func (s *memReels) Create(_ context.Context, r *models.Reel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = bson.NewObjectID()
	if r.Music == "" {
		r.Music = models.DefaultReelMusic
	}
	cp := *r
	s.reels[r.ID] = &cp
	s.order = append(s.order, r.ID)
	return nil
}

func (s *memReels) Page(_ context.Context, _ bson.M, page, limit int64) ([]models.Reel, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Reel
	for i := (page - 1) * limit; i < int64(len(s.order)) && int64(len(out)) < limit; i++ {
		out = append(out, *s.reels[s.order[i]])
	}
	return out, int64(len(s.order)), nil
}

func (s *memReels) ListByAuthor(_ context.Context, author bson.ObjectID) ([]models.Reel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Reel
	for _, id := range s.order {
		if r := s.reels[id]; r.Author == author {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memReels) inc(id bson.ObjectID, f func(*models.Reel)) (*models.Reel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	f(r)
	cp := *r
	return &cp, nil
}

func (s *memReels) IncViews(_ context.Context, id bson.ObjectID) (*models.Reel, error) {
	return s.inc(id, func(r *models.Reel) { r.Views++ })
}

func (s *memReels) IncShares(_ context.Context, id bson.ObjectID) (*models.Reel, error) {
	return s.inc(id, func(r *models.Reel) { r.Shares++ })
}

func (s *memReels) ToggleLike(_ context.Context, id, userID bson.ObjectID) (bool, error) {
	var liked bool
	_, err := s.inc(id, func(r *models.Reel) { liked = r.Likes.Toggle(userID) })
	return liked, err
}

func (s *memReels) Delete(_ context.Context, id, author bson.ObjectID) (*models.Reel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if r.Author != author {
		return nil, apperr.ErrForbidden
	}
	delete(s.reels, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return r, nil
}

func (s *memReels) SetOptimized(_ context.Context, id bson.ObjectID, urls models.VideoURLs, at time.Time) error {
	_, err := s.inc(id, func(r *models.Reel) {
		r.VideoURLs, r.IsOptimized, r.OptimizedAt = &urls, true, &at
	})
	return err
}
