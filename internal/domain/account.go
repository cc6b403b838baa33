package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusSold   AccountStatus = "sold"
	AccountStatusHidden AccountStatus = "hidden"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusSold, AccountStatusHidden:
		return true
	}
	return false
}

// Account is a listing as stored. Heroes and Resources hold raw JSON
// documents; use catalog.ParseAccount before reading them.
type Account struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GameID         uuid.UUID       `json:"gameId" gorm:"type:uuid;not null;index"`
	TitleEn        string          `json:"titleEn" gorm:"not null"`
	TitleRu        string          `json:"titleRu" gorm:"not null"`
	DescriptionEn  string          `json:"descriptionEn" gorm:"type:text"`
	DescriptionRu  string          `json:"descriptionRu" gorm:"type:text"`
	Price          decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
	Image          string          `json:"image"`
	Server         string          `json:"server"`
	Level          *int            `json:"level,omitempty"`
	Guaranteed     bool            `json:"guaranteed" gorm:"not null;default:false"`
	Heroes         datatypes.JSON  `json:"heroes" gorm:"type:jsonb;not null;default:'[]'"`
	Resources      datatypes.JSON  `json:"resources" gorm:"type:jsonb;not null;default:'[]'"`
	Status         AccountStatus   `json:"status" gorm:"not null;default:'active';index"`
	MetaTitleEn    string          `json:"metaTitleEn"`
	MetaTitleRu    string          `json:"metaTitleRu"`
	MetaDescEn     string          `json:"metaDescriptionEn"`
	MetaDescRu     string          `json:"metaDescriptionRu"`
	MetaKeywordsEn string          `json:"metaKeywordsEn"`
	MetaKeywordsRu string          `json:"metaKeywordsRu"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	Game *Game `json:"game,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

func (a *Account) Title(l Locale) string {
	return l.Pick(a.TitleEn, a.TitleRu)
}

func (a *Account) Description(l Locale) string {
	return l.Pick(a.DescriptionEn, a.DescriptionRu)
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// GuaranteeLabel is the badge shown on the account card.
func (a *Account) GuaranteeLabel(l Locale) string {
	if a.Guaranteed {
		return l.Pick("Starter Account", "Стартовый аккаунт")
	}
	return l.Pick("Personal Account", "Личный аккаунт")
}

// Resource is a named in-game quantity listed on an account.
type Resource struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
