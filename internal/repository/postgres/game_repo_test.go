package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository/postgres"
	"github.com/dom/account-store/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGameRepository_Lookup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewGameRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.NewGameBuilder().WithSlug("genshin-impact").Build(t, testDB.DB)

	got, err := repo.GetBySlug(ctx, "genshin-impact")
	require.NoError(t, err)
	assert.Equal(t, game.ID, got.ID)

	got, err = repo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "genshin-impact", got.Slug)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGameRepository_SlugExists(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewGameRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.NewGameBuilder().WithSlug("honkai").Build(t, testDB.DB)

	tests := []struct {
		name     string
		slug     string
		exceptID uuid.UUID
		want     bool
	}{
		{name: "taken", slug: "honkai", exceptID: uuid.Nil, want: true},
		{name: "taken by self", slug: "honkai", exceptID: game.ID, want: false},
		{name: "free", slug: "honkai-2", exceptID: uuid.Nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SlugExists(ctx, tt.slug, tt.exceptID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGameRepository_GetAllSortedByName(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewGameRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewGameBuilder().WithNames("Zenless", "Зенлесс").Build(t, testDB.DB)
	testutil.NewGameBuilder().WithNames("Arknights", "Аркнайтс").Build(t, testDB.DB)

	games, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Arknights", games[0].NameEn)
	assert.Equal(t, "Zenless", games[1].NameEn)
}

func TestGameRepository_DeleteCascades(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	games := postgres.NewGameRepository(testDB.DB)
	heroes := postgres.NewHeroRepository(testDB.DB)
	accounts := postgres.NewAccountRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, testDB.DB)
	hero := testutil.NewHeroBuilder(game).Build(t, testDB.DB)
	account := testutil.NewAccountBuilder(game).WithHeroes(hero).Build(t, testDB.DB)

	require.NoError(t, games.Delete(ctx, game.ID))

	_, err := heroes.GetByID(ctx, hero.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = accounts.GetByID(ctx, account.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, games.Delete(ctx, game.ID), gorm.ErrRecordNotFound)
}

func TestHeroRepository_ByGame(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewHeroRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, testDB.DB)
	other := testutil.NewGameBuilder().Build(t, testDB.DB)
	bennett := testutil.NewHeroBuilder(game).WithNames("Bennett", "Беннет").Build(t, testDB.DB)
	albedo := testutil.NewHeroBuilder(game).WithNames("Albedo", "Альбедо").Legendary().Build(t, testDB.DB)
	testutil.NewHeroBuilder(other).Build(t, testDB.DB)

	got, err := repo.GetByGameID(ctx, game.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, albedo.ID, got[0].ID)
	assert.Equal(t, bennett.ID, got[1].ID)

	byIDs, err := repo.GetByIDs(ctx, []uuid.UUID{bennett.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, domain.HeroTypeEpic, byIDs[0].Type)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestHeroRepository_UpdateAndDelete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewHeroRepository(testDB.DB)
	ctx := context.Background()

	game := testutil.NewGameBuilder().Build(t, testDB.DB)
	hero := testutil.NewHeroBuilder(game).Build(t, testDB.DB)

	hero.Type = domain.HeroTypeLegendary
	require.NoError(t, repo.Update(ctx, hero))

	got, err := repo.GetByID(ctx, hero.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HeroTypeLegendary, got.Type)

	require.NoError(t, repo.Delete(ctx, hero.ID))
	assert.ErrorIs(t, repo.Delete(ctx, hero.ID), gorm.ErrRecordNotFound)
}
