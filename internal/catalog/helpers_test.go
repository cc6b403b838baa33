package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func gachaGame() *domain.Game {
	return &domain.Game{ID: uuid.New(), NameEn: "Genshin Impact", NameRu: "Геншин", Slug: "genshin-impact", HasGachaHeroes: true}
}

func rosterJSON(t *testing.T, gameID uuid.UUID, ids ...string) []byte {
	t.Helper()
	entries := make([]domain.RosterHero, len(ids))
	for i, id := range ids {
		entries[i] = domain.RosterHero{ID: id, NameEn: id, NameRu: id, Type: domain.HeroTypeEpic, GameID: gameID.String()}
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	return data
}

func account(t *testing.T, game *domain.Game, status domain.AccountStatus, heroIDs ...string) *catalog.Account {
	t.Helper()
	raw := &domain.Account{
		ID:      uuid.New(),
		GameID:  game.ID,
		TitleEn: "Account",
		TitleRu: "Аккаунт",
		Status:  status,
		Heroes:  rosterJSON(t, game.ID, heroIDs...),
	}
	a, err := catalog.ParseAccount(raw)
	require.NoError(t, err)
	return a
}
