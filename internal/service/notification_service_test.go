package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Generate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.services.Notification.Generate(ctx)
	assert.ErrorIs(t, err, domain.ErrNoActiveAccounts)

	game := testutil.NewGameBuilder().Build(t, f.db.DB)
	var heroes []*domain.Hero
	for i := 0; i < 5; i++ {
		heroes = append(heroes, testutil.NewHeroBuilder(game).Build(t, f.db.DB))
	}
	account := testutil.NewAccountBuilder(game).WithHeroes(heroes...).WithPrice(777).Build(t, f.db.DB)
	testutil.NewAccountBuilder(game).WithStatus(domain.AccountStatusSold).Build(t, f.db.DB)

	for i := 0; i < 5; i++ {
		n, err := f.services.Notification.Generate(ctx)
		require.NoError(t, err)
		assert.Equal(t, account.ID, n.AccountID)
		require.NotNil(t, n.Game)
		assert.Equal(t, game.ID, n.Game.ID)
		assert.Len(t, n.Heroes, domain.NotificationHeroLimit)
		assert.Equal(t, heroes[0].ID.String(), n.Heroes[0].ID)
		assert.GreaterOrEqual(t, int(n.Ago), 0)
		assert.Less(t, int(n.Ago), domain.RelativeTimeCount)
	}
}

type captureBroadcaster struct {
	mu   sync.Mutex
	seen []*domain.PurchaseNotification
}

func (c *captureBroadcaster) BroadcastNotification(n *domain.PurchaseNotification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, n)
}

func (c *captureBroadcaster) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func TestNotificationService_Schedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler's initial delay")
	}

	f := newServiceFixture(t)
	game := testutil.NewGameBuilder().Build(t, f.db.DB)
	testutil.NewAccountBuilder(game).Build(t, f.db.DB)

	b := &captureBroadcaster{}
	sched, err := f.services.Notification.Schedule(b, 100*time.Millisecond, 200*time.Millisecond)
	require.NoError(t, err)
	defer sched.Shutdown()

	assert.Eventually(t, func() bool { return b.count() >= 2 }, 10*time.Second, 50*time.Millisecond)
}
