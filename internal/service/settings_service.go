package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"gorm.io/gorm"
)

type SettingsService struct {
	repo repository.SiteConfigRepository
}

func NewSettingsService(repo repository.SiteConfigRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the stored settings, or the defaults when nothing was saved.
func (s *SettingsService) Get(ctx context.Context) (*domain.SiteConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultSiteConfig(), nil
	}
	return cfg, err
}

type SettingsInput struct {
	TelegramBotToken string
	TelegramChatID   string
	AIAPIKey         string
	AIAPIURL         string
	AIModel          string
}

func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (*domain.SiteConfig, error) {
	cfg := &domain.SiteConfig{
		TelegramBotToken: strings.TrimSpace(in.TelegramBotToken),
		TelegramChatID:   strings.TrimSpace(in.TelegramChatID),
		AIAPIKey:         strings.TrimSpace(in.AIAPIKey),
		AIAPIURL:         strings.TrimSpace(in.AIAPIURL),
		AIModel:          strings.TrimSpace(in.AIModel),
		UpdatedAt:        time.Now(),
	}
	if cfg.AIAPIURL == "" {
		cfg.AIAPIURL = domain.DefaultAIAPIURL
	}
	if cfg.AIModel == "" {
		cfg.AIModel = domain.DefaultAIModel
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
