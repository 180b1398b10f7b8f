package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Matcher decides whether a job title is wanted. Matching is a
// case-insensitive substring test, not whole-word: "engineer" matches
// "civil-engineering".
type Matcher struct {
	keywords       []string
	excludes       []string
	foldDiacritics bool
}

type Option func(*Matcher)

// WithExcludes rejects titles containing any of words, even when a keyword matches.
func WithExcludes(words []string) Option {
	return func(m *Matcher) {
		m.excludes = words
	}
}

// WithDiacriticFolding makes "inzenir" match "inženir".
func WithDiacriticFolding(on bool) Option {
	return func(m *Matcher) {
		m.foldDiacritics = on
	}
}

func NewMatcher(keywords []string, opts ...Option) *Matcher {
	m := &Matcher{}
	for _, opt := range opts {
		opt(m)
	}
	m.keywords = m.normalizeAll(keywords)
	m.excludes = m.normalizeAll(m.excludes)
	return m
}

func (m *Matcher) normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			continue
		}
		out = append(out, m.normalize(w))
	}
	return out
}

func (m *Matcher) normalize(s string) string {
	if m.foldDiacritics {
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(t, s); err == nil {
			s = folded
		}
	}
	return cases.Fold().String(s)
}

// Matches reports whether some keyword is a substring of title and no exclude word is.
func (m *Matcher) Matches(title string) bool {
	text := m.normalize(title)

	for _, excluded := range m.excludes {
		if strings.Contains(text, excluded) {
			return false
		}
	}
	for _, k := range m.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
