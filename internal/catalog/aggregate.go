package catalog

import (
	"unicode/utf8"

	"github.com/dom/account-store/internal/domain"
)

const (
	// PageSize is how many accounts one "load more" step reveals.
	PageSize = 6
	// MaxHeroBadges caps the hero badges on an account card.
	MaxHeroBadges = 8
	// DescriptionLimit is the card description length in characters.
	DescriptionLimit = 100
)

// HeroBadge is a unique roster hero with its multiplicity.
type HeroBadge struct {
	Hero  domain.RosterHero
	Count int
}

// UniqueHeroes collapses a roster to one badge per identifier, in order of
// first appearance.
func UniqueHeroes(roster []domain.RosterHero) []HeroBadge {
	idx := make(map[string]int, len(roster))
	badges := make([]HeroBadge, 0, len(roster))
	for _, h := range roster {
		if i, ok := idx[h.ID]; ok {
			badges[i].Count++
			continue
		}
		idx[h.ID] = len(badges)
		badges = append(badges, HeroBadge{Hero: h, Count: 1})
	}
	return badges
}

// CardBadges returns at most MaxHeroBadges badges and whether more exist.
func CardBadges(roster []domain.RosterHero) ([]HeroBadge, bool) {
	badges := UniqueHeroes(roster)
	if len(badges) > MaxHeroBadges {
		return badges[:MaxHeroBadges], true
	}
	return badges, false
}

// Truncate cuts text to limit characters and appends "..." when anything
// was cut.
func Truncate(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}

// Paginator tracks how many PageSize steps of a result list are visible.
type Paginator struct {
	total int
	pages int
}

func NewPaginator(total int) *Paginator {
	return &Paginator{total: total, pages: 1}
}

// NewPaginatorAt opens a paginator with the first page pages visible,
// clamped to the last page.
func NewPaginatorAt(total, page int) *Paginator {
	p := NewPaginator(total)
	last := max(1, (total+PageSize-1)/PageSize)
	p.pages = min(max(page, 1), last)
	return p
}

// LoadMore reveals the next page. It reports false and changes nothing once
// every item is visible.
func (p *Paginator) LoadMore() bool {
	if !p.HasMore() {
		return false
	}
	p.pages++
	return true
}

func (p *Paginator) Shown() int {
	return min(p.pages*PageSize, p.total)
}

func (p *Paginator) Total() int {
	return p.total
}

func (p *Paginator) Page() int {
	return p.pages
}

func (p *Paginator) HasMore() bool {
	return p.pages*PageSize < p.total
}

// Window is the visible prefix of a result list.
type Window struct {
	Accounts []*Account
	Page     int
	Shown    int
	Total    int
	HasMore  bool
}

// WindowOf applies the paginator to accounts.
func WindowOf(accounts []*Account, p *Paginator) Window {
	shown := p.Shown()
	if shown > len(accounts) {
		shown = len(accounts)
	}
	return Window{
		Accounts: accounts[:shown],
		Page:     p.Page(),
		Shown:    shown,
		Total:    p.Total(),
		HasMore:  p.HasMore(),
	}
}
