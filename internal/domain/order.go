package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContactMethod string

const (
	ContactTelegram ContactMethod = "telegram"
	ContactWhatsApp ContactMethod = "whatsapp"
	ContactPhone    ContactMethod = "phone"
	ContactEmail    ContactMethod = "email"
	ContactOther    ContactMethod = "other"
)

// ContactMethods lists the accepted methods in display order.
var ContactMethods = []ContactMethod{
	ContactTelegram,
	ContactWhatsApp,
	ContactPhone,
	ContactEmail,
	ContactOther,
}

func (m ContactMethod) Valid() bool {
	for _, c := range ContactMethods {
		if c == m {
			return true
		}
	}
	return false
}

func (m ContactMethod) Label(l Locale) string {
	switch m {
	case ContactTelegram:
		return "Telegram"
	case ContactWhatsApp:
		return "WhatsApp"
	case ContactPhone:
		return l.Pick("Phone", "Телефон")
	case ContactEmail:
		return "Email"
	default:
		return l.Pick("Other", "Другое")
	}
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order records a lead that reached the operator channel.
type Order struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccountID     uuid.UUID       `json:"accountId" gorm:"type:uuid;not null;index"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	ContactMethod ContactMethod   `json:"contactMethod" gorm:"not null"`
	ContactValue  string          `json:"contactValue" gorm:"not null"`
	Status        OrderStatus     `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"index"`

	Account *Account `json:"account,omitempty" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}
