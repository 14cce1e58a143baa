package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const MaxPostContent = 500

type Post struct {
	ID          bson.ObjectID `json:"_id"                bson:"_id,omitempty"`
	Author      bson.ObjectID `json:"author"             bson:"author"`
	Content     string        `json:"content"            bson:"content"`
	Image       string        `json:"image,omitempty"    bson:"image,omitempty"`
	VoiceURL    string        `json:"voiceUrl,omitempty" bson:"voiceUrl,omitempty"`
	Likes       LikeSet       `json:"likes"              bson:"likes"`
	CommentTree `bson:",inline"`
	Version     int64     `json:"-"         bson:"version"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Post) ContentID() bson.ObjectID { return p.ID }
func (p *Post) AuthorID() bson.ObjectID  { return p.Author }
func (p *Post) Revision() int64          { return p.Version }

// EngagementScore ranks posts on the explore page.
func (p *Post) EngagementScore() int { return len(p.Likes) + len(p.Comments) }

// PostQuery drives newest-first listing.
type PostQuery struct {
	AuthorID   bson.ObjectID
	TextSearch string
	Limit      int64
	Cursor     string
}
