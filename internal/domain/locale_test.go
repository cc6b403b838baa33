package domain_test

import (
	"testing"

	"github.com/dom/account-store/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNegotiateLocale(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		header   string
		expected domain.Locale
	}{
		{"explicit wins", "ru", "en-US,en;q=0.9", domain.LocaleRU},
		{"explicit region tag", "en-GB", "", domain.LocaleEN},
		{"header russian", "", "ru-RU,ru;q=0.9,en;q=0.8", domain.LocaleRU},
		{"header english", "", "en-US", domain.LocaleEN},
		{"unsupported explicit falls back to header", "de", "ru", domain.LocaleRU},
		{"nothing", "", "", domain.DefaultLocale},
		{"garbage header", "", ";;;", domain.DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NegotiateLocale(tt.explicit, tt.header))
		})
	}
}

func TestLocalePick(t *testing.T) {
	assert.Equal(t, "one", domain.LocaleEN.Pick("one", "один"))
	assert.Equal(t, "один", domain.LocaleRU.Pick("one", "один"))
}

func TestRelativeTimePhrase(t *testing.T) {
	assert.Equal(t, "несколько секунд назад", domain.RelativeTime(0).Phrase(domain.LocaleRU))
	assert.Equal(t, "2 hours ago", domain.RelativeTime(domain.RelativeTimeCount-1).Phrase(domain.LocaleEN))
	assert.Equal(t, "a few seconds ago", domain.RelativeTime(99).Phrase(domain.LocaleEN))
}

func TestContactMethodLabel(t *testing.T) {
	assert.Equal(t, "Телефон", domain.ContactPhone.Label(domain.LocaleRU))
	assert.Equal(t, "Telegram", domain.ContactTelegram.Label(domain.LocaleRU))
	assert.True(t, domain.ContactEmail.Valid())
	assert.False(t, domain.ContactMethod("pigeon").Valid())
}
