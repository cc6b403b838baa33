package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository/postgres"
	"github.com/dom/account-store/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSiteConfigRepository_SaveKeepsSingleRow(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewSiteConfigRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	first := domain.DefaultSiteConfig()
	first.TelegramBotToken = "token-1"
	require.NoError(t, repo.Save(ctx, first))

	second := domain.DefaultSiteConfig()
	second.TelegramBotToken = "token-2"
	second.TelegramChatID = "-100"
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-2", got.TelegramBotToken)
	assert.Equal(t, "-100", got.TelegramChatID)
	assert.Equal(t, domain.DefaultAIModel, got.AIModel)

	var rows int64
	require.NoError(t, testDB.DB.Model(&domain.SiteConfig{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestOrderRepository_GetRecent(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewOrderRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, testDB.DB)
	account := testutil.NewAccountBuilder(game).Build(t, testDB.DB)

	base := time.Now().Add(-time.Hour)
	for i, contact := range []string{"@first", "@second", "@third"} {
		order := &domain.Order{
			AccountID:     account.ID,
			Price:         decimal.NewFromInt(1000),
			ContactMethod: domain.ContactTelegram,
			ContactValue:  contact,
			Status:        domain.OrderStatusPending,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, order))
	}

	orders, err := repo.GetRecent(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "@third", orders[0].ContactValue)
	assert.Equal(t, "@second", orders[1].ContactValue)
	require.NotNil(t, orders[0].Account)
	require.NotNil(t, orders[0].Account.Game)
	assert.Equal(t, game.ID, orders[0].Account.Game.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
