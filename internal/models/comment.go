package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// LikeSet is a set of user ids persisted as a plain array.
type LikeSet []bson.ObjectID

func (s LikeSet) Has(id bson.ObjectID) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id when present (every copy of it) and adds it otherwise.
// It returns true when id is liked afterwards.
func (s *LikeSet) Toggle(id bson.ObjectID) bool {
	if s.Has(id) {
		kept := (*s)[:0]
		for _, v := range *s {
			if v != id {
				kept = append(kept, v)
			}
		}
		*s = kept
		return false
	}
	*s = append(*s, id)
	return true
}

// Normalize drops zero ids and duplicates, keeping first-seen order.
func (s LikeSet) Normalize() LikeSet {
	out := make(LikeSet, 0, len(s))
	seen := make(map[bson.ObjectID]struct{}, len(s))
	for _, v := range s {
		if v.IsZero() {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

type Recomment struct {
	ID        bson.ObjectID `bson:"_id"       json:"_id"`
	User      bson.ObjectID `bson:"user"      json:"user"`
	Text      string        `bson:"text"      json:"text"`
	Likes     LikeSet       `bson:"likes"     json:"likes"`
	LikeCount int           `bson:"likeCount" json:"likeCount"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type Comment struct {
	ID              bson.ObjectID  `bson:"_id"             json:"_id"`
	User            bson.ObjectID  `bson:"user"            json:"user"`
	Text            string         `bson:"text"            json:"text"`
	Likes           LikeSet        `bson:"likes"           json:"likes"`
	LikeCount       int            `bson:"likeCount"       json:"likeCount"`
	ParentCommentID *bson.ObjectID `bson:"parentCommentId" json:"parentCommentId"`
	Recomments      []Recomment    `bson:"recomments"      json:"recomments"`
	RecommentCount  int            `bson:"recommentCount"  json:"recommentCount"`
	CreatedAt       time.Time      `bson:"createdAt"       json:"createdAt"`
}

// Recomment returns a pointer into c.Recomments, or nil.
func (c *Comment) Recomment(id bson.ObjectID) *Recomment {
	for i := range c.Recomments {
		if c.Recomments[i].ID == id {
			return &c.Recomments[i]
		}
	}
	return nil
}

// CommentTree is the two-level comment collection embedded in posts and reels.
type CommentTree struct {
	Comments []Comment `bson:"comments" json:"comments"`
}

func (t *CommentTree) Tree() *CommentTree { return t }

// Comment returns a pointer into t.Comments, or nil.
func (t *CommentTree) Comment(id bson.ObjectID) *Comment {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return &t.Comments[i]
		}
	}
	return nil
}

// Recount normalizes every likes set and recomputes the derived counters.
// It must run right before the tree is persisted.
func (t *CommentTree) Recount() {
	if t.Comments == nil {
		t.Comments = []Comment{}
	}
	for i := range t.Comments {
		c := &t.Comments[i]
		c.Likes = c.Likes.Normalize()
		c.LikeCount = len(c.Likes)
		if c.Recomments == nil {
			c.Recomments = []Recomment{}
		}
		for j := range c.Recomments {
			r := &c.Recomments[j]
			r.Likes = r.Likes.Normalize()
			r.LikeCount = len(r.Likes)
		}
		c.RecommentCount = len(c.Recomments)
	}
}

// UserIDs lists every author and liker referenced by the tree, deduplicated.
func (t *CommentTree) UserIDs() []bson.ObjectID {
	var ids LikeSet
	for _, c := range t.Comments {
		ids = append(ids, c.UserRefs()...)
	}
	return ids.Normalize()
}

// UserRefs lists the author, likers and recomment authors/likers of c.
func (c Comment) UserRefs() []bson.ObjectID {
	ids := LikeSet{c.User}
	ids = append(ids, c.Likes...)
	for _, r := range c.Recomments {
		ids = append(ids, r.User)
		ids = append(ids, r.Likes...)
	}
	return ids
}

// DropAnonymous removes comments and recomments without an author, as left
// behind by deleted accounts in old data. It reports how many of each went.
func (t *CommentTree) DropAnonymous() (comments, recomments int) {
	kept := t.Comments[:0]
	for _, c := range t.Comments {
		if c.User.IsZero() {
			comments++
			continue
		}
		rs := c.Recomments[:0]
		for _, r := range c.Recomments {
			if r.User.IsZero() {
				recomments++
				continue
			}
			rs = append(rs, r)
		}
		c.Recomments = rs
		kept = append(kept, c)
	}
	t.Comments = kept
	return comments, recomments
}
