package domain

import (
	"time"

	"github.com/google/uuid"
)

type HeroType string

const (
	HeroTypeLegendary HeroType = "legendary"
	HeroTypeEpic      HeroType = "epic"
)

func (t HeroType) Valid() bool {
	return t == HeroTypeLegendary || t == HeroTypeEpic
}

type Hero struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GameID    uuid.UUID `json:"gameId" gorm:"type:uuid;not null;index"`
	NameEn    string    `json:"nameEn" gorm:"not null"`
	NameRu    string    `json:"nameRu" gorm:"not null"`
	Icon      string    `json:"icon"`
	Type      HeroType  `json:"type" gorm:"not null;default:'epic'"`
	Rarity    *int      `json:"rarity,omitempty"`
	Element   *string   `json:"element,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Game *Game `json:"game,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

func (h *Hero) Name(l Locale) string {
	return l.Pick(h.NameEn, h.NameRu)
}

// Snapshot returns the copy of the hero that is embedded in an account roster.
func (h *Hero) Snapshot() RosterHero {
	return RosterHero{
		ID:      h.ID.String(),
		NameEn:  h.NameEn,
		NameRu:  h.NameRu,
		Icon:    h.Icon,
		Type:    h.Type,
		GameID:  h.GameID.String(),
		Rarity:  h.Rarity,
		Element: h.Element,
	}
}

// RosterHero is a hero as stored inside an account's roster document.
// Entries are snapshots and are not kept in sync with the hero table.
type RosterHero struct {
	ID      string   `json:"id"`
	NameEn  string   `json:"nameEn"`
	NameRu  string   `json:"nameRu"`
	Icon    string   `json:"icon"`
	Type    HeroType `json:"type"`
	GameID  string   `json:"gameId,omitempty"`
	Rarity  *int     `json:"rarity,omitempty"`
	Element *string  `json:"element,omitempty"`
}

func (h RosterHero) Name(l Locale) string {
	return l.Pick(h.NameEn, h.NameRu)
}
