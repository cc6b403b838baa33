package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dom/account-store/internal/cache"
	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"github.com/dom/account-store/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// gatedAccountRepo serves active accounts from memory. While gate is set,
// GetActiveByGameID snapshots the listings, reports on loaded and then waits
// for release before returning the snapshot.
type gatedAccountRepo struct {
	repository.AccountRepository

	mu       sync.Mutex
	accounts []*domain.Account
	gate     bool
	loaded   chan struct{}
	release  chan struct{}
}

func (r *gatedAccountRepo) GetActiveByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Account, error) {
	r.mu.Lock()
	snapshot := append([]*domain.Account(nil), r.accounts...)
	gate := r.gate
	r.gate = false
	r.mu.Unlock()

	if gate {
		close(r.loaded)
		<-r.release
	}
	return snapshot, nil
}

func (r *gatedAccountRepo) replace(accounts ...*domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = accounts
}

func listing(gameID uuid.UUID, heroID string) *domain.Account {
	return &domain.Account{
		ID:     uuid.New(),
		GameID: gameID,
		Status: domain.AccountStatusActive,
		Heroes: datatypes.JSON(`[{"id": "` + heroID + `"}]`),
	}
}

func TestCatalogService_Availability_WriteDuringLoad(t *testing.T) {
	ctx := context.Background()
	gameID := uuid.New()

	repo := &gatedAccountRepo{
		accounts: []*domain.Account{listing(gameID, "X")},
		gate:     true,
		loaded:   make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc := service.NewCatalogService(nil, nil, repo, cache.NewMemoryAvailabilityCache(time.Hour))

	done := make(chan catalog.Availability, 1)
	go func() {
		av, err := svc.Availability(ctx, gameID)
		assert.NoError(t, err)
		done <- av
	}()

	<-repo.loaded
	// The operator swaps the only listing for one with another hero while
	// the first reader is still loading.
	repo.replace(listing(gameID, "Y"))
	svc.InvalidateAvailability(ctx, gameID)
	close(repo.release)

	stale := <-done
	assert.True(t, stale.Has("X"))

	av, err := svc.Availability(ctx, gameID)
	require.NoError(t, err)
	assert.False(t, av.Has("X"))
	assert.True(t, av.Has("Y"))
}

func TestCatalogService_Availability_CachesBetweenWrites(t *testing.T) {
	ctx := context.Background()
	gameID := uuid.New()

	repo := &gatedAccountRepo{accounts: []*domain.Account{listing(gameID, "X")}}
	svc := service.NewCatalogService(nil, nil, repo, cache.NewMemoryAvailabilityCache(time.Hour))

	av, err := svc.Availability(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, av.Has("X"))

	// Without an invalidation the cached set is served.
	repo.replace(listing(gameID, "Y"))
	av, err = svc.Availability(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, av.Has("X"))

	svc.InvalidateAvailability(ctx, gameID)
	av, err = svc.Availability(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, av.Has("Y"))
	assert.False(t, av.Has("X"))
}
