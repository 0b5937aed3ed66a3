package listings

import (
	"sort"
	"strings"
	"sync"

	"github.com/gigrithm/gigrithm/internal/client/models"
)

// Filter keeps items whose title, organisation, location or tags contain
// text, and whose category equals category. Both comparisons ignore case;
// empty arguments match everything.
func Filter[T models.Listing](items []T, text, category string) []T {
	text = strings.ToLower(strings.TrimSpace(text))
	category = strings.TrimSpace(category)

	out := make([]T, 0, len(items))
	for _, it := range items {
		if category != "" && !strings.EqualFold(it.Category(), category) {
			continue
		}
		if text != "" && !matches(it.Haystack(), text) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// FilterLocation keeps items whose location contains place, ignoring case.
// An empty place matches everything.
func FilterLocation[T models.Listing](items []T, place string) []T {
	place = strings.ToLower(strings.TrimSpace(place))
	if place == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Where()), place) {
			out = append(out, it)
		}
	}
	return out
}

func matches(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Saved is the in-memory set of bookmarked listing keys.
type Saved struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewSaved() *Saved {
	return &Saved{keys: make(map[string]struct{})}
}

// Toggle flips key and reports whether it is now saved.
func (s *Saved) Toggle(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

func (s *Saved) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok
}

// List returns saved keys in sorted order.
func (s *Saved) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Pick returns the items of list whose keys are saved.
func Pick[T models.Listing](s *Saved, list []T) []T {
	out := []T{}
	for _, it := range list {
		if s.Has(it.Key()) {
			out = append(out, it)
		}
	}
	return out
}
