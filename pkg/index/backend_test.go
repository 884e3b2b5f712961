package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uw-nexus/nexus-be/pkg/search"
)

func intp(n int) *int       { return &n }
func int64p(n int64) *int64 { return &n }
func strp(s string) *string { return &s }

func ids(cands []candidate) []int64 {
	out := make([]int64, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.id)
	}
	return out
}

func TestApplyCursorRanked(t *testing.T) {
	cands := []candidate{
		{id: 1, score: 9},
		{id: 2, score: 6},
		{id: 5, score: 6},
		{id: 3, score: 4},
	}
	c := search.Cursor{LastScore: intp(6), LastID: int64p(2)}

	got := applyCursor(cands, true, c)

	// Keeps the same-score row with a higher id and every lower score.
	assert.Equal(t, []int64{5, 3}, ids(got))
}

func TestApplyCursorUnranked(t *testing.T) {
	cands := []candidate{{id: 1}, {id: 2}, {id: 3}}
	c := search.Cursor{LastID: int64p(2)}

	got := applyCursor(cands, false, c)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestApplyCursorEmptyPassesThrough(t *testing.T) {
	cands := []candidate{{id: 1}, {id: 2}}
	got := applyCursor(cands, true, search.Cursor{})
	assert.Len(t, got, 2)
}

func TestMatchers(t *testing.T) {
	assert.True(t, matchEqual("Active", nil), "nil filter matches anything")
	assert.False(t, matchEqual("Active", strp("Closed")))
	assert.True(t, matchContains("Chat Server", strp("chat")), "contains is case-insensitive")
	assert.False(t, matchContains("Chat Server", strp("web")))
}

func TestSplitList(t *testing.T) {
	assert.Empty(t, splitList(""))
	assert.Equal(t, []string{"Go", "SQL"}, splitList("Go,SQL"))
}
