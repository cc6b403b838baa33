package websocket_test

import (
	"testing"
	"time"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/testutil"
	"github.com/dom/account-store/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultTimeout = 5 * time.Second

func TestBrowseFlow_ConnectSyncsState(t *testing.T) {
	ts := testutil.NewTestServer(t)

	wsClient := testutil.NewWSClient(t, ts.WebSocketURL("ru"))

	state := wsClient.ExpectSessionState(defaultTimeout)
	assert.Equal(t, websocket.StateNoGameSelected, state.State)
	assert.Equal(t, domain.LocaleRU, state.Locale)
	assert.Nil(t, state.Game)
	assert.Empty(t, state.Palette)
}

func TestBrowseFlow_PickAndSearch(t *testing.T) {
	ts := testutil.NewTestServer(t)

	game := testutil.NewGameBuilder().WithNames("Genshin Impact", "Геншин Импакт").Build(t, ts.DB.DB)
	albedo := testutil.NewHeroBuilder(game).WithNames("Albedo", "Альбедо").Legendary().Build(t, ts.DB.DB)
	bennett := testutil.NewHeroBuilder(game).WithNames("Bennett", "Беннет").Build(t, ts.DB.DB)
	aether := testutil.NewHeroBuilder(game).WithNames("Aether", "Итэр").Legendary().Build(t, ts.DB.DB)

	double := testutil.NewAccountBuilder(game).WithHeroes(albedo, albedo, bennett).Build(t, ts.DB.DB)
	testutil.NewAccountBuilder(game).WithHeroes(albedo, bennett).Build(t, ts.DB.DB)

	wsClient := testutil.NewWSClient(t, ts.WebSocketURL("en"))
	wsClient.ExpectSessionState(defaultTimeout)

	wsClient.SelectGame(game.Slug)
	selected := wsClient.ExpectGameSelected(defaultTimeout)
	assert.Equal(t, game.ID, selected.Game.ID)
	assert.Equal(t, int64(2), selected.Game.AccountCount)
	require.Len(t, selected.Palette, 3)
	assert.Equal(t, albedo.ID.String(), selected.Palette[0].ID)
	assert.Equal(t, bennett.ID.String(), selected.Palette[1].ID)
	assert.Equal(t, aether.ID.String(), selected.Palette[2].ID)
	assert.False(t, selected.Palette[2].Available)

	wsClient.PickHero(aether.ID.String())
	wsClient.ExpectErrorWithCode(websocket.ErrCodeHeroUnavailable, defaultTimeout)

	wsClient.PickHero(albedo.ID.String())
	selection := wsClient.ExpectSelection(defaultTimeout)
	assert.Equal(t, websocket.StateHeroesBeingPicked, selection.State)
	assert.Equal(t, []string{albedo.ID.String()}, selection.Picks)

	wsClient.PickHero(albedo.ID.String())
	selection = wsClient.ExpectSelection(defaultTimeout)
	require.Len(t, selection.Heroes, 1)
	assert.Equal(t, 2, selection.Heroes[0].Count)

	wsClient.Search()
	accounts := wsClient.ExpectAccounts(defaultTimeout)
	assert.Equal(t, catalog.StateResults, accounts.State)
	require.Len(t, accounts.Accounts, 1)
	assert.Equal(t, double.ID, accounts.Accounts[0].ID)
	assert.False(t, accounts.HasMore)

	wsClient.SyncState()
	state := wsClient.ExpectSessionState(defaultTimeout)
	assert.Equal(t, websocket.StateAccountsShown, state.State)
	require.NotNil(t, state.Accounts)
	assert.Equal(t, 1, state.Accounts.Total)

	wsClient.RemoveHero(albedo.ID.String())
	selection = wsClient.ExpectSelection(defaultTimeout)
	assert.Equal(t, websocket.StateHeroesBeingPicked, selection.State)
	assert.Len(t, selection.Picks, 1)

	wsClient.Search()
	accounts = wsClient.ExpectAccounts(defaultTimeout)
	assert.Equal(t, 2, accounts.Total)
}

func TestBrowseFlow_GameWithoutRosters(t *testing.T) {
	ts := testutil.NewTestServer(t)

	game := testutil.NewGameBuilder().WithoutHeroes().Build(t, ts.DB.DB)
	for i := 0; i < catalog.PageSize+2; i++ {
		testutil.NewAccountBuilder(game).Build(t, ts.DB.DB)
	}

	wsClient := testutil.NewWSClient(t, ts.WebSocketURL(""))
	wsClient.ExpectSessionState(defaultTimeout)

	wsClient.SelectGame(game.ID.String())
	wsClient.ExpectGameSelected(defaultTimeout)

	accounts := wsClient.ExpectAccounts(defaultTimeout)
	assert.Equal(t, catalog.StateResults, accounts.State)
	assert.Len(t, accounts.Accounts, catalog.PageSize)
	assert.True(t, accounts.HasMore)

	wsClient.LoadMore()
	accounts = wsClient.ExpectAccounts(defaultTimeout)
	assert.Len(t, accounts.Accounts, catalog.PageSize+2)
	assert.False(t, accounts.HasMore)

	wsClient.PickHero(uuid.NewString())
	wsClient.ExpectErrorWithCode(websocket.ErrCodeHeroesNotSupported, defaultTimeout)
}

func TestBrowseFlow_Errors(t *testing.T) {
	ts := testutil.NewTestServer(t)

	wsClient := testutil.NewWSClient(t, ts.WebSocketURL(""))
	wsClient.ExpectSessionState(defaultTimeout)

	wsClient.Search()
	wsClient.ExpectErrorWithCode(websocket.ErrCodeNoGame, defaultTimeout)

	wsClient.SelectGame("does-not-exist")
	wsClient.ExpectErrorWithCode(websocket.ErrCodeGameNotFound, defaultTimeout)

	wsClient.SetLocale("de")
	wsClient.ExpectErrorWithCode(websocket.ErrCodeUnsupportedLocale, defaultTimeout)

	wsClient.Send("DANCE", nil)
	wsClient.ExpectErrorWithCode(websocket.ErrCodeUnknownMessage, defaultTimeout)

	wsClient.SendRaw("not a message")
	wsClient.ExpectErrorWithCode(websocket.ErrCodeInvalidPayload, defaultTimeout)
}

func TestBrowseFlow_SetLocaleRelocalizes(t *testing.T) {
	ts := testutil.NewTestServer(t)

	game := testutil.NewGameBuilder().WithNames("Genshin Impact", "Геншин Импакт").Build(t, ts.DB.DB)
	testutil.NewHeroBuilder(game).WithNames("Albedo", "Альбедо").Build(t, ts.DB.DB)

	wsClient := testutil.NewWSClient(t, ts.WebSocketURL("en"))
	wsClient.ExpectSessionState(defaultTimeout)

	wsClient.SelectGame(game.Slug)
	selected := wsClient.ExpectGameSelected(defaultTimeout)
	assert.Equal(t, "Genshin Impact", selected.Game.Name)

	wsClient.SetLocale("ru")
	state := wsClient.ExpectSessionState(defaultTimeout)
	assert.Equal(t, domain.LocaleRU, state.Locale)
	require.NotNil(t, state.Game)
	assert.Equal(t, "Геншин Импакт", state.Game.Name)
	require.Len(t, state.Palette, 1)
	assert.Equal(t, "Альбедо", state.Palette[0].Name)

	wsClient.FilterHeroes("аль")
	palette := wsClient.ExpectPalette(defaultTimeout)
	assert.Equal(t, "аль", palette.Query)
	assert.Len(t, palette.Palette, 1)

	wsClient.FilterHeroes("zzz")
	palette = wsClient.ExpectPalette(defaultTimeout)
	assert.Empty(t, palette.Palette)
}

func TestBrowseFlow_NotificationBroadcast(t *testing.T) {
	ts := testutil.NewTestServer(t)

	en := testutil.NewWSClient(t, ts.WebSocketURL("en"))
	ru := testutil.NewWSClient(t, ts.WebSocketURL("ru"))
	en.ExpectSessionState(defaultTimeout)
	ru.ExpectSessionState(defaultTimeout)

	require.Eventually(t, func() bool { return ts.Hub.ClientCount() == 2 }, defaultTimeout, 10*time.Millisecond)

	game := &domain.Game{ID: uuid.New(), NameEn: "Genshin Impact", NameRu: "Геншин Импакт"}
	n := &domain.PurchaseNotification{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Game:      game,
		TitleEn:   "Starter",
		TitleRu:   "Стартовый",
		Price:     decimal.NewFromInt(990),
		Ago:       domain.RelativeTime(0),
	}
	ts.Hub.BroadcastNotification(n)

	enView := en.ExpectNotification(defaultTimeout)
	assert.Equal(t, n.AccountID, enView.AccountID)
	assert.Equal(t, "Genshin Impact", enView.GameName)
	assert.Contains(t, enView.TimeAgo, "ago")

	ruView := ru.ExpectNotification(defaultTimeout)
	assert.Equal(t, "Стартовый", ruView.AccountTitle)
	assert.Contains(t, ruView.TimeAgo, "назад")
}

func TestBrowseFlow_DisconnectUnregisters(t *testing.T) {
	ts := testutil.NewTestServer(t)

	wsClient := testutil.NewWSClient(t, ts.WebSocketURL(""))
	wsClient.ExpectSessionState(defaultTimeout)
	require.Eventually(t, func() bool { return ts.Hub.ClientCount() == 1 }, defaultTimeout, 10*time.Millisecond)

	wsClient.Close()
	assert.Eventually(t, func() bool { return ts.Hub.ClientCount() == 0 }, defaultTimeout, 10*time.Millisecond)
}
