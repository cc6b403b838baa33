package service

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"time"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	notificationInitialDelay = 5 * time.Second
	notificationTimeout      = 10 * time.Second
)

// Broadcaster pushes a notification to every connected shopper.
type Broadcaster interface {
	BroadcastNotification(n *domain.PurchaseNotification)
}

// NotificationService produces synthetic "recent purchase" events.
type NotificationService struct {
	accountRepo repository.AccountRepository
	intn        func(n int) int
}

func NewNotificationService(accountRepo repository.AccountRepository) *NotificationService {
	return &NotificationService{
		accountRepo: accountRepo,
		intn:        rand.IntN,
	}
}

// Generate builds a notification from a random active account.
func (s *NotificationService) Generate(ctx context.Context) (*domain.PurchaseNotification, error) {
	raw, err := s.accountRepo.GetRandomActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveAccounts
		}
		return nil, err
	}
	account, err := catalog.ParseAccount(raw)
	if err != nil {
		return nil, err
	}

	heroes := account.Roster
	if len(heroes) > domain.NotificationHeroLimit {
		heroes = heroes[:domain.NotificationHeroLimit]
	}

	return &domain.PurchaseNotification{
		ID:        uuid.New(),
		AccountID: account.ID,
		Game:      account.Game,
		TitleEn:   account.TitleEn,
		TitleRu:   account.TitleRu,
		Price:     account.Price,
		Heroes:    heroes,
		Ago:       domain.RelativeTime(s.intn(domain.RelativeTimeCount)),
	}, nil
}

// Schedule starts a scheduler that broadcasts one notification at a random
// interval between minInterval and maxInterval. Callers must Shutdown the
// returned scheduler.
func (s *NotificationService) Schedule(b Broadcaster, minInterval, maxInterval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationRandomJob(minInterval, maxInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
			defer cancel()
			s.broadcastOnce(ctx, b)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartDateTime(time.Now().Add(notificationInitialDelay))),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}

func (s *NotificationService) broadcastOnce(ctx context.Context, b Broadcaster) {
	n, err := s.Generate(ctx)
	if errors.Is(err, domain.ErrNoActiveAccounts) {
		return
	}
	if err != nil {
		log.Printf("ERROR [notification.broadcast]: %v", err)
		return
	}
	b.BroadcastNotification(n)
}
