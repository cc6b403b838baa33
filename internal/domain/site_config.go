package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultAIAPIURL = "https://api.openai.com/v1/chat/completions"
	DefaultAIModel  = "gpt-3.5-turbo"
)

// SiteConfig is the single row of operator settings.
type SiteConfig struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TelegramBotToken string    `json:"telegramBotToken"`
	TelegramChatID   string    `json:"telegramChatId"`
	AIAPIKey         string    `json:"aiApiKey"`
	AIAPIURL         string    `json:"aiApiUrl"`
	AIModel          string    `json:"aiModel"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DefaultSiteConfig is what the admin sees before anything is saved.
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		AIAPIURL: DefaultAIAPIURL,
		AIModel:  DefaultAIModel,
	}
}

func (c *SiteConfig) LeadChannelConfigured() bool {
	return c != nil && c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func (c *SiteConfig) AssistantConfigured() bool {
	return c != nil && c.AIAPIKey != "" && c.AIAPIURL != "" && c.AIModel != ""
}
