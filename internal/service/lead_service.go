package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidLead              = errors.New("invalid lead")
	ErrLeadChannelNotConfigured = errors.New("lead channel is not configured")
	ErrDeliveryFailed           = errors.New("lead delivery failed")
)

// MaxContactValueLength bounds the free-form contact field.
const MaxContactValueLength = 200

// MessageSender delivers operator notifications.
type MessageSender interface {
	SendMessage(ctx context.Context, token, chatID, text string) error
}

// LeadService relays purchase intents to the operator and records them as
// orders once delivered.
type LeadService struct {
	accountRepo repository.AccountRepository
	orderRepo   repository.OrderRepository
	settings    *SettingsService
	sender      MessageSender
	locale      domain.Locale
}

func NewLeadService(accountRepo repository.AccountRepository, orderRepo repository.OrderRepository, settings *SettingsService, sender MessageSender, operatorLocale domain.Locale) *LeadService {
	return &LeadService{
		accountRepo: accountRepo,
		orderRepo:   orderRepo,
		settings:    settings,
		sender:      sender,
		locale:      operatorLocale,
	}
}

type LeadInput struct {
	AccountID     string
	ContactMethod domain.ContactMethod
	ContactValue  string
	Consent       bool
}

type LeadResult struct {
	// Order is nil when the message went out but recording it failed.
	Order     *domain.Order
	Delivered bool
}

// Submit validates the lead, sends it to the operator channel once and then
// records a pending order. Nothing is recorded when delivery fails.
func (s *LeadService) Submit(ctx context.Context, in LeadInput) (*LeadResult, error) {
	accountID, value, err := validateLead(in)
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.LeadChannelConfigured() {
		return nil, ErrLeadChannelNotConfigured
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	if !account.IsActive() {
		return nil, domain.ErrAccountNotActive
	}

	text := FormatLeadMessage(s.locale, account, in.ContactMethod, value)
	if err := s.sender.SendMessage(ctx, cfg.TelegramBotToken, cfg.TelegramChatID, text); err != nil {
		log.Printf("ERROR [lead.Submit] accountID=%s delivery: %v", account.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	order := &domain.Order{
		ID:            uuid.New(),
		AccountID:     account.ID,
		Price:         account.Price,
		ContactMethod: in.ContactMethod,
		ContactValue:  value,
		Status:        domain.OrderStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		log.Printf("ERROR [lead.Submit] accountID=%s delivered but order not recorded: %v", account.ID, err)
		return &LeadResult{Delivered: true}, nil
	}

	return &LeadResult{Order: order, Delivered: true}, nil
}

func validateLead(in LeadInput) (uuid.UUID, string, error) {
	accountID, err := uuid.Parse(strings.TrimSpace(in.AccountID))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: account id is invalid", ErrInvalidLead)
	}
	if !in.ContactMethod.Valid() {
		return uuid.Nil, "", fmt.Errorf("%w: %v", ErrInvalidLead, domain.ErrInvalidContactMethod)
	}
	value := strings.TrimSpace(in.ContactValue)
	if value == "" {
		return uuid.Nil, "", fmt.Errorf("%w: contact value is required", ErrInvalidLead)
	}
	if utf8.RuneCountInString(value) > MaxContactValueLength {
		return uuid.Nil, "", fmt.Errorf("%w: contact value is too long", ErrInvalidLead)
	}
	if !in.Consent {
		return uuid.Nil, "", fmt.Errorf("%w: consent is required", ErrInvalidLead)
	}
	return accountID, value, nil
}

// FormatLeadMessage renders the operator notification. User-supplied text is
// HTML-escaped because the message is sent with HTML parse mode.
func FormatLeadMessage(l domain.Locale, account *domain.Account, method domain.ContactMethod, value string) string {
	gameName := ""
	if account.Game != nil {
		gameName = account.Game.Name(l)
	}

	labels := []string{"New purchase request!", "Game", "Account", "Price", "Contact method", "Contact"}
	if l == domain.LocaleRU {
		labels = []string{"Новая заявка на покупку!", "Игра", "Аккаунт", "Цена", "Способ связи", "Контакт"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎮 %s\n\n", labels[0])
	fmt.Fprintf(&b, "🎯 %s: %s\n", labels[1], html.EscapeString(gameName))
	fmt.Fprintf(&b, "🏷️ %s: %s\n", labels[2], html.EscapeString(account.Title(l)))
	fmt.Fprintf(&b, "💰 %s: %s ₽\n", labels[3], account.Price.String())
	fmt.Fprintf(&b, "📱 %s: %s\n", labels[4], method.Label(l))
	fmt.Fprintf(&b, "📞 %s: %s", labels[5], html.EscapeString(value))
	return b.String()
}
