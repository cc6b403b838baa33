package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/llm"
	"github.com/dom/account-store/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAssistantNotConfigured = errors.New("assistant is not configured")
	ErrAssistantUnavailable   = errors.New("assistant is unavailable")
	ErrEmptyQuestion          = errors.New("message is required")
)

// MaxHistoryTurns bounds how much prior conversation is forwarded.
const MaxHistoryTurns = 20

// Completer produces a chat reply.
type Completer interface {
	Complete(ctx context.Context, ep llm.Endpoint, messages []llm.Message) (string, error)
}

// AssistantService answers shopper questions grounded in the live catalog.
type AssistantService struct {
	gameRepo    repository.GameRepository
	heroRepo    repository.HeroRepository
	accountRepo repository.AccountRepository
	settings    *SettingsService
	completer   Completer
}

func NewAssistantService(gameRepo repository.GameRepository, heroRepo repository.HeroRepository, accountRepo repository.AccountRepository, settings *SettingsService, completer Completer) *AssistantService {
	return &AssistantService{
		gameRepo:    gameRepo,
		heroRepo:    heroRepo,
		accountRepo: accountRepo,
		settings:    settings,
		completer:   completer,
	}
}

type ChatTurn struct {
	Role    llm.Role
	Content string
}

type AssistantInput struct {
	History []ChatTurn
	Message string
	Locale  domain.Locale
}

// Reply loads games, heroes and active accounts concurrently, builds the
// catalog context and asks the configured model. Any failed load fails the
// whole request.
func (s *AssistantService) Reply(ctx context.Context, in AssistantInput) (string, error) {
	question := strings.TrimSpace(in.Message)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	if !cfg.AssistantConfigured() {
		return "", ErrAssistantNotConfigured
	}

	var (
		games    []*domain.Game
		heroes   []*domain.Hero
		accounts []*domain.Account
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		heroes, err = s.heroRepo.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.GetActive(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	prompt, err := BuildSystemPrompt(in.Locale, games, heroes, catalog.ParseAccounts(accounts))
	if err != nil {
		return "", err
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: prompt}}
	messages = append(messages, historyMessages(in.History)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	reply, err := s.completer.Complete(ctx, llm.Endpoint{
		URL:    cfg.AIAPIURL,
		APIKey: cfg.AIAPIKey,
		Model:  cfg.AIModel,
	}, messages)
	if err != nil {
		log.Printf("ERROR [assistant.Reply] model=%s: %v", cfg.AIModel, err)
		return "", fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}
	return reply, nil
}

// FallbackReply is shown to the shopper when the assistant fails.
func FallbackReply(l domain.Locale) string {
	return l.Pick(
		"Sorry, I encountered an error. Please try again.",
		"Извините, произошла ошибка. Пожалуйста, попробуйте снова.",
	)
}

func historyMessages(history []ChatTurn) []llm.Message {
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}
	out := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		if turn.Role != llm.RoleUser && turn.Role != llm.RoleAssistant {
			continue
		}
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		out = append(out, llm.Message{Role: turn.Role, Content: content})
	}
	return out
}

type promptGame struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	HasGachaHeroes bool   `json:"hasGachaHeroes"`
}

type promptHero struct {
	ID     string          `json:"id"`
	GameID string          `json:"gameId"`
	Name   string          `json:"name"`
	Type   domain.HeroType `json:"type"`
}

type promptAccount struct {
	ID         string          `json:"id"`
	GameID     string          `json:"gameId"`
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Server     string          `json:"server,omitempty"`
	Guaranteed bool            `json:"guaranteed"`
	Heroes     []string        `json:"heroes"`
}

type promptPricing struct {
	Currency string          `json:"currency"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
}

type promptContext struct {
	Games    []promptGame    `json:"games"`
	Heroes   []promptHero    `json:"heroes"`
	Accounts []promptAccount `json:"accounts"`
	Pricing  promptPricing   `json:"pricing"`
}

// BuildSystemPrompt renders the catalog as JSON inside the instructions
// given to the model.
func BuildSystemPrompt(l domain.Locale, games []*domain.Game, heroes []*domain.Hero, accounts []*catalog.Account) (string, error) {
	pc := promptContext{
		Games:    make([]promptGame, 0, len(games)),
		Heroes:   make([]promptHero, 0, len(heroes)),
		Accounts: make([]promptAccount, 0, len(accounts)),
		Pricing:  promptPricing{Currency: "RUB"},
	}
	for _, g := range games {
		pc.Games = append(pc.Games, promptGame{ID: g.ID.String(), Name: g.Name(l), Slug: g.Slug, HasGachaHeroes: g.HasGachaHeroes})
	}
	for _, h := range heroes {
		pc.Heroes = append(pc.Heroes, promptHero{ID: h.ID.String(), GameID: h.GameID.String(), Name: h.Name(l), Type: h.Type})
	}
	for i, a := range accounts {
		names := make([]string, 0, len(a.Roster))
		for _, b := range catalog.UniqueHeroes(a.Roster) {
			name := b.Hero.Name(l)
			if b.Count > 1 {
				name = fmt.Sprintf("%s x%d", name, b.Count)
			}
			names = append(names, name)
		}
		pc.Accounts = append(pc.Accounts, promptAccount{
			ID:         a.ID.String(),
			GameID:     a.GameID.String(),
			Title:      a.Title(l),
			Price:      a.Price,
			Server:     a.Server,
			Guaranteed: a.Guaranteed,
			Heroes:     names,
		})
		if i == 0 || a.Price.LessThan(pc.Pricing.Min) {
			pc.Pricing.Min = a.Price
		}
		if i == 0 || a.Price.GreaterThan(pc.Pricing.Max) {
			pc.Pricing.Max = a.Price
		}
	}

	data, err := json.Marshal(pc)
	if err != nil {
		return "", err
	}

	language := l.Pick("English", "Russian")
	return fmt.Sprintf(`You are the sales assistant of a game account store.
Answer only from the catalog below. If something is not listed, say so.
Prices are in %s. Recommend specific accounts by title when they fit the question.
Always answer in %s.

Catalog:
%s`, pc.Pricing.Currency, language, data), nil
}
