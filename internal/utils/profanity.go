package utils

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// ProfanityFilter masks banned words with '*' of the same rune length.
// ASCII words match case-insensitively on word boundaries; anything else
// matches as a plain substring.
type ProfanityFilter struct {
	patterns []*regexp.Regexp
}

// DefaultBannedWords is the built-in list; PROFANITY_WORDS extends it.
var DefaultBannedWords = []string{
	"fuck", "fucking", "fucker", "motherfucker", "shit", "bullshit",
	"bastard", "bitch", "sonofabitch", "dick", "cock", "pussy", "cunt",
	"asshole", "dumbass", "jackass", "retard", "slut", "whore",
	"nigger", "faggot", "douche", "douchebag", "wanker", "twat", "prick",
	"arsehole", "bollocks", "cocksucker", "ballsack", "nutsack", "buttfuck",
	"shithead", "shitface", "dipshit", "dumbfuck", "cumshot", "dildo",
	"jerkoff", "handjob", "blowjob", "fuckface", "shitbag", "cockhead",
	"pisshead", "arseface", "tosser",
}

func NewProfanityFilter(words []string) *ProfanityFilter {
	uniq := make([]string, 0, len(words))
	seen := map[string]struct{}{}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, w)
	}
	// Longer words first so a short word never masks part of a longer one.
	sort.SliceStable(uniq, func(i, j int) bool {
		return len([]rune(uniq[i])) > len([]rune(uniq[j]))
	})

	pats := make([]*regexp.Regexp, 0, len(uniq))
	for _, w := range uniq {
		pattern := regexp.QuoteMeta(w)
		if isASCIIWord(w) {
			pattern = `(?i)\b` + pattern + `\b`
		}
		pats = append(pats, regexp.MustCompile(pattern))
	}
	return &ProfanityFilter{patterns: pats}
}

func (pf *ProfanityFilter) Mask(s string) string {
	if pf == nil || len(pf.patterns) == 0 || s == "" {
		return s
	}
	out := s
	for _, re := range pf.patterns {
		out = re.ReplaceAllStringFunc(out, func(m string) string {
			return strings.Repeat("*", len([]rune(m)))
		})
	}
	return out
}

func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
