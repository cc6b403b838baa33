package service

import (
	"time"

	"github.com/dom/account-store/internal/cache"
	"github.com/dom/account-store/internal/config"
	"github.com/dom/account-store/internal/llm"
	"github.com/dom/account-store/internal/repository"
	"github.com/dom/account-store/internal/storage"
	"github.com/dom/account-store/internal/telegram"
)

const defaultOutboundTimeout = 30 * time.Second

// Externals are the outbound collaborators. Nil fields get defaults built
// from the config.
type Externals struct {
	Cache     cache.AvailabilityCache
	Sender    MessageSender
	Completer Completer
	Uploader  storage.Uploader
}

type Services struct {
	Auth         *AuthService
	Catalog      *CatalogService
	Admin        *AdminService
	Settings     *SettingsService
	Lead         *LeadService
	Assistant    *AssistantService
	Notification *NotificationService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, ext Externals) *Services {
	timeout := cfg.OutboundTimeout
	if timeout <= 0 {
		timeout = defaultOutboundTimeout
	}
	if ext.Cache == nil {
		ext.Cache = cache.NewMemoryAvailabilityCache(cfg.AvailabilityTTL)
	}
	if ext.Sender == nil {
		ext.Sender = telegram.NewClient(cfg.TelegramAPIURL, timeout)
	}
	if ext.Completer == nil {
		ext.Completer = llm.NewClient(timeout)
	}
	if ext.Uploader == nil {
		ext.Uploader = storage.DisabledUploader{}
	}

	catalogService := NewCatalogService(repos.Game, repos.Hero, repos.Account, ext.Cache)
	settings := NewSettingsService(repos.SiteConfig)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.Session, cfg),
		Catalog:      catalogService,
		Admin:        NewAdminService(repos, catalogService, ext.Uploader),
		Settings:     settings,
		Lead:         NewLeadService(repos.Account, repos.Order, settings, ext.Sender, cfg.OperatorLocale),
		Assistant:    NewAssistantService(repos.Game, repos.Hero, repos.Account, settings, ext.Completer),
		Notification: NewNotificationService(repos.Account),
	}
}
