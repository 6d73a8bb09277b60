package trip

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type tripSource []Trip

func (s tripSource) String(i int) string {
	t := s[i]
	parts := []string{t.Title, t.City, t.Country}
	if owner := t.Owner(); owner != "" {
		parts = append(parts, owner)
	}
	return strings.Join(parts, " ")
}

func (s tripSource) Len() int { return len(s) }

// Search fuzzy matches pattern against each trip's title, place and owner,
// best match first. A blank pattern returns trips unchanged.
func Search(pattern string, trips []Trip) []Trip {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return trips
	}
	matches := fuzzy.FindFrom(pattern, tripSource(trips))
	out := make([]Trip, 0, len(matches))
	for _, m := range matches {
		out = append(out, trips[m.Index])
	}
	return out
}
