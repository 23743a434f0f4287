package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

func post(id string, score int) *domain.Post {
	return &domain.Post{ID: id, Subreddit: "demo", Score: score}
}

func TestFilter_DropsBelowMinScore(t *testing.T) {
	f := NewFilter(10, 0)

	accept, done := f.Admit(post("a", 50))
	assert.True(t, accept)
	assert.False(t, done)

	accept, _ = f.Admit(post("b", 5))
	assert.False(t, accept)

	accept, _ = f.Admit(post("c", 10))
	assert.True(t, accept)

	assert.Equal(t, 2, f.Accepted())
}

func TestFilter_StopsAtLimitIndependentOfScanned(t *testing.T) {
	f := NewFilter(10, 2)

	var accepted []string
	posts := []*domain.Post{
		post("a", 5), post("b", 50), post("c", 3), post("d", 20), post("e", 99),
	}
	for _, p := range posts {
		accept, done := f.Admit(p)
		if accept {
			accepted = append(accepted, p.ID)
		}
		if done {
			break
		}
	}

	// Stable: surviving order matches input order, and "e" is never reached.
	assert.Equal(t, []string{"b", "d"}, accepted)
}

func TestFilter_DoneAfterLimit(t *testing.T) {
	f := NewFilter(0, 1)

	accept, done := f.Admit(post("a", 1))
	assert.True(t, accept)
	assert.True(t, done)

	accept, done = f.Admit(post("b", 100))
	assert.False(t, accept)
	assert.True(t, done)
}

func TestFilter_ZeroLimitIsUnlimited(t *testing.T) {
	f := NewFilter(0, 0)
	for i := 0; i < 100; i++ {
		accept, done := f.Admit(post("x", 1))
		assert.True(t, accept)
		assert.False(t, done)
	}
}
