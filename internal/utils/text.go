package utils

import (
	"strings"
)

// TextFilter cleans user-written text (comments, replies, posts). Text is
// kept as written apart from banned words, which are masked. Responses are
// JSON; an HTML client escapes at render time.
type TextFilter struct {
	profanity *ProfanityFilter
}

// NewTextFilter uses the default banned words plus extra.
func NewTextFilter(extra []string) *TextFilter {
	words := append(append([]string{}, DefaultBannedWords...), extra...)
	return &TextFilter{profanity: NewProfanityFilter(words)}
}

func (f *TextFilter) Clean(s string) string {
	return strings.TrimSpace(f.profanity.Mask(s))
}
