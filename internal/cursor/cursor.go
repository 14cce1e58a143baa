package cursor

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Cursor positions a newest-first listing after (createdAt, _id).
type Cursor struct {
	CreatedAt int64  `json:"createdAt"`
	ID        string `json:"id"`
}

func Encode(t time.Time, id bson.ObjectID) string {
	b, _ := json.Marshal(Cursor{
		CreatedAt: t.UnixMilli(),
		ID:        id.Hex(),
	})
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode returns a ValidationError for anything Encode did not produce.
func Decode(s string) (time.Time, bson.ObjectID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, bson.NilObjectID, apperr.Invalid("cursor", "")
	}

	var p Cursor
	if err := json.Unmarshal(raw, &p); err != nil {
		return time.Time{}, bson.NilObjectID, apperr.Invalid("cursor", "")
	}

	oid, err := bson.ObjectIDFromHex(p.ID)
	if err != nil {
		return time.Time{}, bson.NilObjectID, apperr.Invalid("cursor", "")
	}

	return time.UnixMilli(p.CreatedAt).UTC(), oid, nil
}

// After is the filter clause selecting documents older than the cursor.
func After(t time.Time, id bson.ObjectID) bson.M {
	return bson.M{"$or": []bson.M{
		{"createdAt": bson.M{"$lt": t}},
		{"createdAt": t, "_id": bson.M{"$lt": id}},
	}}
}
