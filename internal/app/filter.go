package app

import "github.com/yourusername/reddit-dl-go/internal/domain"

// Filter admits posts meeting the minimum score until the accepted limit is
// reached, independent of how many were scanned. Filtering is stable: the
// relative order of surviving posts matches input order. Sort mode and time
// window are request-level parameters, not filter predicates.
type Filter struct {
	minScore int
	limit    int
	accepted int
}

// NewFilter creates a filter; limit <= 0 means unlimited
func NewFilter(minScore, limit int) *Filter {
	return &Filter{minScore: minScore, limit: limit}
}

// Admit reports whether the post survives, and whether the filter is done
// accepting (the limit has been reached).
func (f *Filter) Admit(post *domain.Post) (accept bool, done bool) {
	if f.limit > 0 && f.accepted >= f.limit {
		return false, true
	}
	if post.Score < f.minScore {
		return false, false
	}
	f.accepted++
	return true, f.limit > 0 && f.accepted >= f.limit
}

// Accepted returns how many posts were admitted so far
func (f *Filter) Accepted() int {
	return f.accepted
}
