package repository

import (
	"context"
	"time"

	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetLiveByUserID(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type GameRepository interface {
	Create(ctx context.Context, game *domain.Game) error
	Update(ctx context.Context, game *domain.Game) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Game, error)
	GetAll(ctx context.Context) ([]*domain.Game, error)
	SlugExists(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type HeroRepository interface {
	Create(ctx context.Context, hero *domain.Hero) error
	Update(ctx context.Context, hero *domain.Hero) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Hero, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Hero, error)
	GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Hero, error)
	GetAll(ctx context.Context) ([]*domain.Hero, error)
}

// AccountFilter narrows admin account listings. Zero values match all.
type AccountFilter struct {
	GameID *uuid.UUID
	Status *domain.AccountStatus
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
	GetActiveByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Account, error)
	GetActive(ctx context.Context) ([]*domain.Account, error)
	GetRandomActive(ctx context.Context) (*domain.Account, error)
	CountActiveByGame(ctx context.Context) (map[uuid.UUID]int64, error)
	Count(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetRecent(ctx context.Context, limit, offset int) ([]*domain.Order, error)
	Count(ctx context.Context) (int64, error)
}

type SiteConfigRepository interface {
	// Get returns gorm.ErrRecordNotFound until settings are first saved.
	Get(ctx context.Context) (*domain.SiteConfig, error)
	Save(ctx context.Context, cfg *domain.SiteConfig) error
}

type Repositories struct {
	User       UserRepository
	Session    SessionRepository
	Game       GameRepository
	Hero       HeroRepository
	Account    AccountRepository
	Order      OrderRepository
	SiteConfig SiteConfigRepository
}
