package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RelativeTime is one of the fixed "time ago" phrases used by purchase
// notifications.
type RelativeTime int

var relativeTimes = []struct{ en, ru string }{
	{"a few seconds", "несколько секунд"},
	{"1 minute", "1 минуту"},
	{"2 minutes", "2 минуты"},
	{"5 minutes", "5 минут"},
	{"10 minutes", "10 минут"},
	{"15 minutes", "15 минут"},
	{"30 minutes", "30 минут"},
	{"1 hour", "1 час"},
	{"2 hours", "2 часа"},
}

// RelativeTimeCount is the number of available phrases.
var RelativeTimeCount = len(relativeTimes)

func (r RelativeTime) Phrase(l Locale) string {
	if r < 0 || int(r) >= len(relativeTimes) {
		r = 0
	}
	p := relativeTimes[r]
	if l == LocaleRU {
		return p.ru + " назад"
	}
	return p.en + " ago"
}

// NotificationHeroLimit caps the heroes shown in a purchase notification.
const NotificationHeroLimit = 3

// PurchaseNotification is a synthetic "someone just bought" event built from
// a random active account. It is never persisted.
type PurchaseNotification struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Game      *Game
	TitleEn   string
	TitleRu   string
	Price     decimal.Decimal
	Heroes    []RosterHero
	Ago       RelativeTime
}
