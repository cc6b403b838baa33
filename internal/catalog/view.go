package catalog

import (
	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HeroView is a localized hero as sent to clients.
type HeroView struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Icon    string          `json:"icon"`
	Type    domain.HeroType `json:"type"`
	Rarity  *int            `json:"rarity,omitempty"`
	Element *string         `json:"element,omitempty"`
	Count   int             `json:"count,omitempty"`
}

type PaletteEntry struct {
	HeroView
	Available bool `json:"available"`
}

// SelectedHero is a picked hero badge. Available turns false when a reload
// finds no active roster holding the hero any more.
type SelectedHero struct {
	HeroView
	Available bool `json:"available"`
}

type AccountCard struct {
	ID             uuid.UUID         `json:"id"`
	GameID         uuid.UUID         `json:"gameId"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	Image          string            `json:"image"`
	Server         string            `json:"server,omitempty"`
	Level          *int              `json:"level,omitempty"`
	Guaranteed     bool              `json:"guaranteed"`
	GuaranteeLabel string            `json:"guaranteeLabel"`
	Heroes         []HeroView        `json:"heroes"`
	HasMoreHeroes  bool              `json:"hasMoreHeroes"`
	RosterSize     int               `json:"rosterSize"`
	Resources      []domain.Resource `json:"resources"`
}

// AccountDetail is the full account page: untruncated text and every
// unique hero.
type AccountDetail struct {
	AccountCard
	Status          domain.AccountStatus `json:"status"`
	MetaTitle       string               `json:"metaTitle,omitempty"`
	MetaDescription string               `json:"metaDescription,omitempty"`
	MetaKeywords    string               `json:"metaKeywords,omitempty"`
	Game            *GameView            `json:"game,omitempty"`
}

type GameView struct {
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Image          string    `json:"image"`
	HasGachaHeroes bool      `json:"hasGachaHeroes"`
	AccountCount   int64     `json:"accountCount"`
}

// AccountsView is one rendering of a search result.
type AccountsView struct {
	State    FilterState   `json:"state"`
	Message  string        `json:"message,omitempty"`
	Accounts []AccountCard `json:"accounts"`
	Page     int           `json:"page"`
	Shown    int           `json:"shown"`
	Total    int           `json:"total"`
	HasMore  bool          `json:"hasMore"`
}

type NotificationView struct {
	ID           uuid.UUID       `json:"id"`
	AccountID    uuid.UUID       `json:"accountId"`
	GameName     string          `json:"gameName"`
	AccountTitle string          `json:"accountTitle"`
	Price        decimal.Decimal `json:"price"`
	Heroes       []HeroView      `json:"heroes"`
	TimeAgo      string          `json:"timeAgo"`
}

func NewHeroView(h domain.RosterHero, count int, l domain.Locale) HeroView {
	return HeroView{
		ID:      h.ID,
		Name:    h.Name(l),
		Icon:    h.Icon,
		Type:    h.Type,
		Rarity:  h.Rarity,
		Element: h.Element,
		Count:   count,
	}
}

func NewPalette(entries []PaletteHero, l domain.Locale) []PaletteEntry {
	out := make([]PaletteEntry, len(entries))
	for i, e := range entries {
		out[i] = PaletteEntry{
			HeroView:  NewHeroView(e.Hero.Snapshot(), 0, l),
			Available: e.Available,
		}
	}
	return out
}

func NewGameView(g *domain.Game, count int64, l domain.Locale) GameView {
	return GameView{
		ID:             g.ID,
		Slug:           g.Slug,
		Name:           g.Name(l),
		Description:    g.Description(l),
		Image:          g.Image,
		HasGachaHeroes: g.HasGachaHeroes,
		AccountCount:   count,
	}
}

func NewAccountCard(a *Account, l domain.Locale) AccountCard {
	badges, more := CardBadges(a.Roster)
	return newCard(a, badges, more, Truncate(a.Description(l), DescriptionLimit), l)
}

func NewAccountDetail(a *Account, game *domain.Game, l domain.Locale) AccountDetail {
	d := AccountDetail{
		AccountCard:     newCard(a, UniqueHeroes(a.Roster), false, a.Description(l), l),
		Status:          a.Status,
		MetaTitle:       l.Pick(a.MetaTitleEn, a.MetaTitleRu),
		MetaDescription: l.Pick(a.MetaDescEn, a.MetaDescRu),
		MetaKeywords:    l.Pick(a.MetaKeywordsEn, a.MetaKeywordsRu),
	}
	if game != nil {
		gv := NewGameView(game, 0, l)
		d.Game = &gv
	}
	return d
}

func newCard(a *Account, badges []HeroBadge, more bool, description string, l domain.Locale) AccountCard {
	heroes := make([]HeroView, len(badges))
	for i, b := range badges {
		heroes[i] = NewHeroView(b.Hero, b.Count, l)
	}
	resources := a.Resources
	if resources == nil {
		resources = []domain.Resource{}
	}
	return AccountCard{
		ID:             a.ID,
		GameID:         a.GameID,
		Title:          a.Title(l),
		Description:    description,
		Price:          a.Price,
		Image:          a.Image,
		Server:         a.Server,
		Level:          a.Level,
		Guaranteed:     a.Guaranteed,
		GuaranteeLabel: a.GuaranteeLabel(l),
		Heroes:         heroes,
		HasMoreHeroes:  more,
		RosterSize:     len(a.Roster),
		Resources:      resources,
	}
}

func NewAccountsView(state FilterState, w Window, l domain.Locale) AccountsView {
	cards := make([]AccountCard, len(w.Accounts))
	for i, a := range w.Accounts {
		cards[i] = NewAccountCard(a, l)
	}
	return AccountsView{
		State:    state,
		Message:  stateMessage(state, l),
		Accounts: cards,
		Page:     w.Page,
		Shown:    w.Shown,
		Total:    w.Total,
		HasMore:  w.HasMore,
	}
}

func stateMessage(state FilterState, l domain.Locale) string {
	switch state {
	case StateSelectHeroes:
		return l.Pick("Select heroes to see matching accounts", "Выберите героев, чтобы увидеть подходящие аккаунты")
	case StateNoResults:
		return l.Pick("No accounts found matching your criteria", "Аккаунты, соответствующие вашим критериям, не найдены")
	}
	return ""
}

func NewNotificationView(n *domain.PurchaseNotification, l domain.Locale) NotificationView {
	heroes := make([]HeroView, len(n.Heroes))
	for i, h := range n.Heroes {
		heroes[i] = NewHeroView(h, 0, l)
	}
	v := NotificationView{
		ID:           n.ID,
		AccountID:    n.AccountID,
		AccountTitle: l.Pick(n.TitleEn, n.TitleRu),
		Price:        n.Price,
		Heroes:       heroes,
		TimeAgo:      n.Ago.Phrase(l),
	}
	if n.Game != nil {
		v.GameName = n.Game.Name(l)
	}
	return v
}
