package dedup

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// SeenSet holds the job URLs processed during one run. It only grows and is
// owned by a single goroutine, so it uses the thread-unsafe set.
type SeenSet struct {
	seen mapset.Set[string]
}

func NewSeenSet() *SeenSet {
	return &SeenSet{seen: mapset.NewThreadUnsafeSet[string]()}
}

// IsSeen checks if a URL has already been processed
func (s *SeenSet) IsSeen(url string) bool {
	return s.seen.Contains(url)
}

// Add marks url as processed and reports whether it was new.
func (s *SeenSet) Add(url string) bool {
	return s.seen.Add(url)
}

// Unseen returns the distinct urls not in the set, in first-occurrence order.
// The set itself is not modified.
func (s *SeenSet) Unseen(urls []string) []string {
	page := mapset.NewThreadUnsafeSetWithSize[string](len(urls))
	fresh := make([]string, 0, len(urls))
	for _, u := range urls {
		if s.seen.Contains(u) || !page.Add(u) {
			continue
		}
		fresh = append(fresh, u)
	}
	return fresh
}

func (s *SeenSet) Len() int {
	return s.seen.Cardinality()
}

// URLs returns a copy of the set's contents in no particular order.
func (s *SeenSet) URLs() []string {
	return s.seen.ToSlice()
}
