package catalog

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/dom/account-store/internal/domain"
	"golang.org/x/text/collate"
)

// PaletteHero is a hero offered for picking together with its availability.
type PaletteHero struct {
	Hero      *domain.Hero
	Available bool
}

// PaletteComparator orders palette entries: available heroes first, then
// legendary before epic, then higher rarity, then by localized name.
// A Collator is not safe for concurrent use, so neither is the comparator.
type PaletteComparator struct {
	locale domain.Locale
	coll   *collate.Collator
}

func NewPaletteComparator(locale domain.Locale) *PaletteComparator {
	return &PaletteComparator{
		locale: locale,
		coll:   collate.New(locale.Tag(), collate.IgnoreCase),
	}
}

func (c *PaletteComparator) Compare(a, b PaletteHero) int {
	if a.Available != b.Available {
		if a.Available {
			return -1
		}
		return 1
	}
	if ra, rb := typeRank(a.Hero.Type), typeRank(b.Hero.Type); ra != rb {
		return ra - rb
	}
	if n := cmp.Compare(rarityOf(b.Hero), rarityOf(a.Hero)); n != 0 {
		return n
	}
	if n := c.coll.CompareString(a.Hero.Name(c.locale), b.Hero.Name(c.locale)); n != 0 {
		return n
	}
	return strings.Compare(a.Hero.ID.String(), b.Hero.ID.String())
}

func typeRank(t domain.HeroType) int {
	if t == domain.HeroTypeLegendary {
		return 0
	}
	return 1
}

// SortPalette pairs heroes with availability and sorts them for display.
// The input slice is not modified.
func SortPalette(heroes []*domain.Hero, av Availability, locale domain.Locale) []PaletteHero {
	out := make([]PaletteHero, 0, len(heroes))
	for _, h := range heroes {
		if h == nil {
			continue
		}
		out = append(out, PaletteHero{Hero: h, Available: av.Has(h.ID.String())})
	}
	slices.SortStableFunc(out, NewPaletteComparator(locale).Compare)
	return out
}

// SortForAdmin orders heroes for the admin list: legendary first, then
// rarity descending, then English name.
func SortForAdmin(heroes []*domain.Hero) {
	coll := collate.New(domain.LocaleEN.Tag(), collate.IgnoreCase)
	slices.SortStableFunc(heroes, func(a, b *domain.Hero) int {
		if ra, rb := typeRank(a.Type), typeRank(b.Type); ra != rb {
			return ra - rb
		}
		if n := cmp.Compare(rarityOf(b), rarityOf(a)); n != 0 {
			return n
		}
		return coll.CompareString(a.NameEn, b.NameEn)
	})
}

// Missing rarity ranks below every explicit tier.
func rarityOf(h *domain.Hero) int {
	if h.Rarity == nil {
		return math.MinInt
	}
	return *h.Rarity
}

// NameMatches reports whether name contains query, ignoring case.
// An empty query matches everything.
func NameMatches(name, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}
