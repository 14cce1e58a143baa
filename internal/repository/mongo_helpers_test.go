package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestVersionFilter(t *testing.T) {
	id := bson.NewObjectID()

	assert.Equal(t, bson.M{"_id": id, "version": int64(3)}, versionFilter(id, 3))

	legacy := versionFilter(id, 0)
	assert.Equal(t, id, legacy["_id"])
	assert.Len(t, legacy["$or"], 2)
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	assert.True(t, isDuplicateKey(dup))

	other := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121}}}
	assert.False(t, isDuplicateKey(other))
	assert.False(t, isDuplicateKey(errors.New("boom")))
}

func TestLiteralMatch(t *testing.T) {
	cases := []struct {
		q       string
		text    string
		matches bool
	}{
		{"ann", "Hi ANN!", true},
		{"a.b", "a.b here", true},
		{"a.b", "axb here", false},
		{"(x", "see (x)", true},
		{"c++", "I like C++", true},
		{".*", "anything", false},
		{"$1", "costs $1", true},
	}
	for _, tc := range cases {
		t.Run(tc.q, func(t *testing.T) {
			m := literalMatch(tc.q)
			assert.Equal(t, "i", m["$options"])
			re := regexp.MustCompile("(?i)" + m["$regex"].(string))
			assert.Equal(t, tc.matches, re.MatchString(tc.text))
		})
	}
}
