package domain

import (
	"time"

	"github.com/google/uuid"
)

type Game struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	NameEn         string    `json:"nameEn" gorm:"not null"`
	NameRu         string    `json:"nameRu" gorm:"not null"`
	DescriptionEn  string    `json:"descriptionEn" gorm:"type:text"`
	DescriptionRu  string    `json:"descriptionRu" gorm:"type:text"`
	Image          string    `json:"image"`
	Slug           string    `json:"slug" gorm:"uniqueIndex;not null"`
	HasGachaHeroes bool      `json:"hasGachaHeroes" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (g *Game) Name(l Locale) string {
	return l.Pick(g.NameEn, g.NameRu)
}

func (g *Game) Description(l Locale) string {
	return l.Pick(g.DescriptionEn, g.DescriptionRu)
}
