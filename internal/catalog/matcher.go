package catalog

import "github.com/dom/account-store/internal/domain"

// FilterState tells the presentation layer what to render.
type FilterState string

const (
	StateSelectHeroes FilterState = "select_heroes"
	StateNoResults    FilterState = "no_results"
	StateResults      FilterState = "results"
)

// Matches reports whether a roster holds at least as many copies of every
// requested hero as were requested. An empty request matches everything.
func Matches(requested, roster Multiset) bool {
	for id, want := range requested {
		if roster[id] < want {
			return false
		}
	}
	return true
}

type FilterResult struct {
	State    FilterState
	Accounts []*Account
}

// Filter returns the active accounts of game that satisfy requested, in
// input order. For gacha games an empty request yields no accounts and the
// select_heroes state; other games list every active account.
func Filter(game *domain.Game, requested Multiset, accounts []*Account) FilterResult {
	if game.HasGachaHeroes && requested.Empty() {
		return FilterResult{State: StateSelectHeroes, Accounts: []*Account{}}
	}

	matched := make([]*Account, 0, len(accounts))
	for _, a := range accounts {
		if a == nil || a.Status != domain.AccountStatusActive || a.GameID != game.ID {
			continue
		}
		if game.HasGachaHeroes && !Matches(requested, a.counts) {
			continue
		}
		matched = append(matched, a)
	}

	if len(matched) == 0 {
		return FilterResult{State: StateNoResults, Accounts: matched}
	}
	return FilterResult{State: StateResults, Accounts: matched}
}
