package catalog_test

import (
	"testing"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		roster    []string
		expected  bool
	}{
		{"duplicate pick satisfied", []string{"A", "A"}, []string{"A", "A", "B"}, true},
		{"duplicate pick not satisfied", []string{"A", "A"}, []string{"A", "B"}, false},
		{"empty request matches anything", nil, []string{"A"}, true},
		{"empty request matches empty roster", nil, nil, true},
		{"missing hero", []string{"C"}, []string{"A", "B"}, false},
		{"exact multiset", []string{"A", "B"}, []string{"B", "A"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Matches(catalog.BuildMultiset(tt.requested), catalog.BuildMultiset(tt.roster))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMatches_Monotonic(t *testing.T) {
	roster := catalog.BuildMultiset([]string{"A", "A", "B"})
	bigger := catalog.BuildMultiset([]string{"A", "A", "B"})
	smaller := catalog.BuildMultiset([]string{"A", "B"})

	require.True(t, catalog.Matches(bigger, roster))
	assert.True(t, catalog.Matches(smaller, roster), "removing a pick never loses a match")

	more := catalog.BuildMultiset([]string{"A", "A", "A"})
	assert.False(t, catalog.Matches(more, roster))
}

func TestFilter(t *testing.T) {
	game := gachaGame()
	a1 := account(t, game, domain.AccountStatusActive, "A", "A", "B")
	a2 := account(t, game, domain.AccountStatusActive, "A", "B")
	sold := account(t, game, domain.AccountStatusSold, "A", "A")
	accounts := []*catalog.Account{a1, a2, sold}

	t.Run("empty selection on gacha game", func(t *testing.T) {
		res := catalog.Filter(game, catalog.BuildMultiset(nil), accounts)
		assert.Equal(t, catalog.StateSelectHeroes, res.State)
		assert.Empty(t, res.Accounts)
	})

	t.Run("duplicate picks", func(t *testing.T) {
		res := catalog.Filter(game, catalog.BuildMultiset([]string{"A", "A"}), accounts)
		assert.Equal(t, catalog.StateResults, res.State)
		require.Len(t, res.Accounts, 1)
		assert.Equal(t, a1.ID, res.Accounts[0].ID)
	})

	t.Run("preserves input order", func(t *testing.T) {
		res := catalog.Filter(game, catalog.BuildMultiset([]string{"B"}), accounts)
		require.Len(t, res.Accounts, 2)
		assert.Equal(t, a1.ID, res.Accounts[0].ID)
		assert.Equal(t, a2.ID, res.Accounts[1].ID)
	})

	t.Run("no results", func(t *testing.T) {
		res := catalog.Filter(game, catalog.BuildMultiset([]string{"Z"}), accounts)
		assert.Equal(t, catalog.StateNoResults, res.State)
		assert.Empty(t, res.Accounts)
	})

	t.Run("other game excluded", func(t *testing.T) {
		other := gachaGame()
		res := catalog.Filter(other, catalog.BuildMultiset([]string{"A"}), accounts)
		assert.Equal(t, catalog.StateNoResults, res.State)
	})
}

func TestFilter_NonGachaGameListsAllActive(t *testing.T) {
	game := &domain.Game{ID: uuid.New(), NameEn: "Chess", NameRu: "Шахматы", Slug: "chess"}
	a1 := account(t, game, domain.AccountStatusActive)
	hidden := account(t, game, domain.AccountStatusHidden)

	res := catalog.Filter(game, catalog.BuildMultiset(nil), []*catalog.Account{a1, hidden})

	assert.Equal(t, catalog.StateResults, res.State)
	require.Len(t, res.Accounts, 1)
	assert.Equal(t, a1.ID, res.Accounts[0].ID)
}
