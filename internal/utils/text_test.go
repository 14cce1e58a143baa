package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextFilterClean(t *testing.T) {
	f := NewTextFilter([]string{"frobnicate"})

	tests := []struct {
		name, in, want string
	}{
		{"plain text untouched", "great shot!", "great shot!"},
		{"angle brackets kept", "is x<y or y<x?", "is x<y or y<x?"},
		{"markup kept verbatim", "<b>bold</b> move", "<b>bold</b> move"},
		{"generics kept", "use <T any> generics", "use <T any> generics"},
		{"entities not decoded", "&amp; literal", "&amp; literal"},
		{"ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"profanity masked", "what the Fuck", "what the ****"},
		{"no partial masking", "Scunthorpe class", "Scunthorpe class"},
		{"extra words", "do not frobnicate", "do not **********"},
		{"surrounding space trimmed", "  hi  ", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Clean(tt.in))
		})
	}
}

func TestProfanityLongestFirst(t *testing.T) {
	pf := NewProfanityFilter([]string{"shit", "bullshit", "SHIT"})
	assert.Equal(t, "******** and ****", pf.Mask("bullshit and shit"))
	assert.Len(t, pf.patterns, 2)
}

func TestNilFilterIsNoop(t *testing.T) {
	var pf *ProfanityFilter
	assert.Equal(t, "anything", pf.Mask("anything"))
}
