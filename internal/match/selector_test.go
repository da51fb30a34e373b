package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelmap/internal/domain"
	"reelmap/internal/match"
)

func rec(id, name string) domain.RawPlaceRecord {
	r := domain.RawPlaceRecord{ID: id}
	if name != "" {
		r.DisplayName = &domain.LocalizedText{Text: name}
	}
	return r
}

func TestRank_SortsAndSkipsNameless(t *testing.T) {
	recs := []domain.RawPlaceRecord{
		rec("p1", "Tiong Bahru Market"),
		rec("p2", ""),
		rec("p3", "Tiong Bahru Bakery"),
	}
	got := match.Rank("Tiong Bahru Bakery", recs)
	require.Len(t, got, 2)
	assert.Equal(t, "p3", got[0].Record.ID)
	assert.Equal(t, 1.0, got[0].Score)
	assert.Equal(t, "p1", got[1].Record.ID)
	assert.Less(t, got[1].Score, got[0].Score)
}

func TestRank_TiesKeepProviderOrder(t *testing.T) {
	recs := []domain.RawPlaceRecord{
		rec("a", "Blue Bottle Coffee Kiyosumi"),
		rec("b", "Blue Bottle Coffee Shinjuku"),
		rec("c", "Blue Bottle Coffee Aoyama"),
	}
	got := match.Rank("Blue Bottle Coffee", recs)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Record.ID, got[1].Record.ID, got[2].Record.ID})
}

func TestBest(t *testing.T) {
	_, ok := match.Best(nil)
	assert.False(t, ok)

	top, ok := match.Best(match.Rank("x", []domain.RawPlaceRecord{rec("p1", "x")}))
	require.True(t, ok)
	assert.Equal(t, "p1", top.Record.ID)
}
