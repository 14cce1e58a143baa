package engagement

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type revisioned interface {
	Content
	Revision() int64
}

// memStore keeps documents BSON-encoded so every read hands out an
// independent copy, and enforces the version guard like the Mongo store.
type memStore[T revisioned] struct {
	mu    sync.Mutex
	kind  string
	newT  func() T
	docs  map[bson.ObjectID]bson.Raw
	saves int

	// forced conflicts: each one bumps the stored version before the
	// guarded write, as a concurrent writer would.
	conflicts int
	saveErr   error
}

func newPostStore() *memStore[*models.Post] {
	return &memStore[*models.Post]{
		kind: apperr.KindPost,
		newT: func() *models.Post { return &models.Post{} },
		docs: map[bson.ObjectID]bson.Raw{},
	}
}

func newReelStore() *memStore[*models.Reel] {
	return &memStore[*models.Reel]{
		kind: apperr.KindReel,
		newT: func() *models.Reel { return &models.Reel{} },
		docs: map[bson.ObjectID]bson.Raw{},
	}
}

func (s *memStore[T]) put(item T) {
	raw, err := bson.Marshal(item)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[item.ContentID()] = raw
}

func (s *memStore[T]) FindByID(_ context.Context, id bson.ObjectID) (T, error) {
	s.mu.Lock()
	raw, ok := s.docs[id]
	s.mu.Unlock()

	out := s.newT()
	if !ok {
		var zero T
		return zero, apperr.NotFound(s.kind)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (s *memStore[T]) SaveTree(_ context.Context, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++

	if s.saveErr != nil {
		return apperr.Storage("save "+s.kind, s.saveErr)
	}
	raw, ok := s.docs[item.ContentID()]
	if !ok {
		return apperr.ErrConflict
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	stored, _ := doc["version"].(int64)

	if s.conflicts > 0 {
		s.conflicts--
		doc["version"] = stored + 1
		s.docs[item.ContentID()], _ = bson.Marshal(doc)
		return apperr.ErrConflict
	}
	if stored != item.Revision() {
		return apperr.ErrConflict
	}
	doc["comments"] = item.Tree().Comments
	doc["version"] = stored + 1
	next, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[item.ContentID()] = next
	return nil
}

func (s *memStore[T]) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type fakeResolver struct {
	mu       sync.Mutex
	profiles map[bson.ObjectID]models.Profile
	err      error
	calls    int
}

func newResolver(users ...models.Profile) *fakeResolver {
	r := &fakeResolver{profiles: map[bson.ObjectID]models.Profile{}}
	for _, u := range users {
		r.profiles[u.ID] = u
	}
	return r
}

func (r *fakeResolver) ResolveProfiles(_ context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[bson.ObjectID]models.Profile, len(ids))
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type event struct {
	typ       models.NotiType
	recipient bson.ObjectID
	sender    bson.ObjectID
	ref       models.Ref
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) Notify(typ models.NotiType, recipient, sender bson.ObjectID, ref models.Ref) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{typ, recipient, sender, ref})
}

func (n *recordingNotifier) all() []event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]event(nil), n.events...)
}

var (
	errResolver = errors.New("users collection unavailable")
	fixedNow    = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
)

func profile(name string) models.Profile {
	return models.Profile{ID: bson.NewObjectID(), Username: name, ProfilePicture: "https://cdn.test/" + name + ".png"}
}

func seedPost(author bson.ObjectID, comments ...models.Comment) *models.Post {
	p := &models.Post{
		ID:        bson.NewObjectID(),
		Author:    author,
		Content:   "hello",
		Likes:     models.LikeSet{},
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	p.Comments = comments
	p.Tree().Recount()
	return p
}

func seedComment(author bson.ObjectID, text string, recomments ...models.Recomment) models.Comment {
	return models.Comment{
		ID:         bson.NewObjectID(),
		User:       author,
		Text:       text,
		Likes:      models.LikeSet{},
		Recomments: recomments,
		CreatedAt:  fixedNow,
	}
}

func seedRecomment(author bson.ObjectID, text string) models.Recomment {
	return models.Recomment{
		ID:        bson.NewObjectID(),
		User:      author,
		Text:      text,
		Likes:     models.LikeSet{},
		CreatedAt: fixedNow,
	}
}
