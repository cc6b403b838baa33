package websocket_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	mu       sync.Mutex
	games    map[string]*domain.Game
	heroes   map[uuid.UUID][]*domain.Hero
	accounts map[uuid.UUID][]*catalog.Account
	gates    map[string]chan struct{}
	ctxErrs  map[string]error
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		games:    make(map[string]*domain.Game),
		heroes:   make(map[uuid.UUID][]*domain.Hero),
		accounts: make(map[uuid.UUID][]*catalog.Account),
		gates:    make(map[string]chan struct{}),
		ctxErrs:  make(map[string]error),
	}
}

// gate makes GetGame for ref block until the returned channel is closed,
// ignoring cancellation.
func (f *fakeBrowser) gate(ref string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[ref] = ch
	return ch
}

func (f *fakeBrowser) ctxErr(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctxErrs[ref]
}

func (f *fakeBrowser) GetGame(ctx context.Context, ref string) (*domain.Game, error) {
	f.mu.Lock()
	gate := f.gates[ref]
	f.mu.Unlock()
	if gate != nil {
		<-gate
		f.mu.Lock()
		f.ctxErrs[ref] = ctx.Err()
		f.mu.Unlock()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	game, ok := f.games[ref]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return game, nil
}

func (f *fakeBrowser) GameHeroes(ctx context.Context, gameID uuid.UUID) ([]*domain.Hero, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heroes[gameID], nil
}

func (f *fakeBrowser) ActiveAccounts(ctx context.Context, gameID uuid.UUID) ([]*catalog.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[gameID], nil
}

func (f *fakeBrowser) addGame(g *domain.Game) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games[g.Slug] = g
}

func (f *fakeBrowser) addAccount(t *testing.T, g *domain.Game, heroes ...*domain.Hero) {
	t.Helper()
	roster := make([]domain.RosterHero, len(heroes))
	for i, h := range heroes {
		roster[i] = h.Snapshot()
	}
	doc, err := json.Marshal(roster)
	require.NoError(t, err)

	a, err := catalog.ParseAccount(&domain.Account{
		ID:      uuid.New(),
		GameID:  g.ID,
		TitleEn: "Account",
		TitleRu: "Аккаунт",
		Price:   decimal.NewFromInt(1000),
		Status:  domain.AccountStatusActive,
		Heroes:  doc,
	})
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[g.ID] = append(f.accounts[g.ID], a)
}

type recorder struct {
	ch chan *websocket.Message
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan *websocket.Message, 128)}
}

func (r *recorder) emit(msg *websocket.Message) {
	r.ch <- msg
}

// next returns the first message of the given type, skipping others.
func (r *recorder) next(t *testing.T, typ websocket.MessageType, out interface{}) *websocket.Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-r.ch:
			if msg.Type != typ {
				continue
			}
			if out != nil {
				require.NoError(t, json.Unmarshal(msg.Payload, out))
			}
			return msg
		case <-timeout:
			t.Fatalf("timed out waiting for %s", typ)
			return nil
		}
	}
}

func (r *recorder) expectError(t *testing.T, code string) {
	t.Helper()
	var payload websocket.ErrorPayload
	r.next(t, websocket.MessageTypeError, &payload)
	assert.Equal(t, code, payload.Code)
}

func (r *recorder) expectNone(t *testing.T, typ websocket.MessageType, wait time.Duration) {
	t.Helper()
	timeout := time.After(wait)
	for {
		select {
		case msg := <-r.ch:
			if msg.Type == typ {
				t.Fatalf("unexpected %s message", typ)
			}
		case <-timeout:
			return
		}
	}
}

type fixture struct {
	browser *fakeBrowser
	rec     *recorder
	session *websocket.Session
	gacha   *domain.Game
	plain   *domain.Game
	heroA   *domain.Hero
	heroB   *domain.Hero
	heroC   *domain.Hero
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{browser: newFakeBrowser(), rec: newRecorder()}

	f.gacha = &domain.Game{ID: uuid.New(), NameEn: "Genshin Impact", NameRu: "Геншин Импакт", Slug: "genshin-impact", HasGachaHeroes: true}
	f.plain = &domain.Game{ID: uuid.New(), NameEn: "Brawl Stars", NameRu: "Бравл Старс", Slug: "brawl-stars"}
	f.browser.addGame(f.gacha)
	f.browser.addGame(f.plain)

	f.heroA = &domain.Hero{ID: uuid.New(), GameID: f.gacha.ID, NameEn: "Albedo", NameRu: "Альбедо", Type: domain.HeroTypeLegendary}
	f.heroB = &domain.Hero{ID: uuid.New(), GameID: f.gacha.ID, NameEn: "Bennett", NameRu: "Беннет", Type: domain.HeroTypeEpic}
	f.heroC = &domain.Hero{ID: uuid.New(), GameID: f.gacha.ID, NameEn: "Chongyun", NameRu: "Чунь Юнь", Type: domain.HeroTypeLegendary}
	f.browser.heroes[f.gacha.ID] = []*domain.Hero{f.heroB, f.heroC, f.heroA}

	f.browser.addAccount(t, f.gacha, f.heroA, f.heroA, f.heroB)
	f.browser.addAccount(t, f.gacha, f.heroA, f.heroB)
	f.browser.addAccount(t, f.plain)
	f.browser.addAccount(t, f.plain)

	f.session = websocket.NewSession(f.browser, domain.LocaleEN, f.rec.emit)
	t.Cleanup(f.session.Close)
	return f
}

func (f *fixture) selectGacha(t *testing.T) websocket.GameSelectedPayload {
	t.Helper()
	f.session.SelectGame(f.gacha.Slug)
	var payload websocket.GameSelectedPayload
	f.rec.next(t, websocket.MessageTypeGameSelected, &payload)
	return payload
}

func paletteNames(entries []catalog.PaletteEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestSession_SelectGame(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, websocket.StateNoGameSelected, f.session.State())

	payload := f.selectGacha(t)

	assert.Equal(t, f.gacha.ID, payload.Game.ID)
	assert.Equal(t, int64(2), payload.Game.AccountCount)
	require.Len(t, payload.Palette, 3)
	assert.Equal(t, []string{"Albedo", "Bennett", "Chongyun"}, paletteNames(payload.Palette))
	assert.True(t, payload.Palette[0].Available)
	assert.True(t, payload.Palette[1].Available)
	assert.False(t, payload.Palette[2].Available)
	assert.Equal(t, websocket.StateGameSelected, f.session.State())
}

func TestSession_SelectGame_WithoutRostersShowsAccounts(t *testing.T) {
	f := newFixture(t)

	f.session.SelectGame(f.plain.Slug)
	f.rec.next(t, websocket.MessageTypeGameSelected, nil)

	var view catalog.AccountsView
	f.rec.next(t, websocket.MessageTypeAccounts, &view)
	assert.Equal(t, catalog.StateResults, view.State)
	assert.Equal(t, 2, view.Total)
	assert.Len(t, view.Accounts, 2)
	assert.Equal(t, websocket.StateAccountsShown, f.session.State())
}

func TestSession_SelectGame_NotFound(t *testing.T) {
	f := newFixture(t)

	f.session.SelectGame("missing")

	f.rec.expectError(t, websocket.ErrCodeGameNotFound)
	assert.Equal(t, websocket.StateNoGameSelected, f.session.State())
}

func TestSession_PickAndSearch(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)

	f.session.PickHero(f.heroA.ID.String())
	f.rec.next(t, websocket.MessageTypeSelectionUpdated, nil)
	f.session.PickHero(f.heroA.ID.String())

	var sel websocket.SelectionPayload
	f.rec.next(t, websocket.MessageTypeSelectionUpdated, &sel)
	assert.Equal(t, websocket.StateHeroesBeingPicked, sel.State)
	assert.Equal(t, []string{f.heroA.ID.String(), f.heroA.ID.String()}, sel.Picks)
	require.Len(t, sel.Heroes, 1)
	assert.Equal(t, 2, sel.Heroes[0].Count)

	f.session.Search()

	var view catalog.AccountsView
	f.rec.next(t, websocket.MessageTypeAccounts, &view)
	assert.Equal(t, catalog.StateResults, view.State)
	assert.Equal(t, 1, view.Total, "only the roster holding two copies matches")
	assert.Equal(t, websocket.StateAccountsShown, f.session.State())
}

func TestSession_SearchFlagsPicksThatSoldOut(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)

	var sel websocket.SelectionPayload
	f.session.PickHero(f.heroB.ID.String())
	f.rec.next(t, websocket.MessageTypeSelectionUpdated, &sel)
	require.Len(t, sel.Heroes, 1)
	assert.True(t, sel.Heroes[0].Available)

	// Both rosters holding Bennett are sold before the customer searches
	f.browser.mu.Lock()
	f.browser.accounts[f.gacha.ID] = nil
	f.browser.mu.Unlock()
	f.browser.addAccount(t, f.gacha, f.heroA)

	f.session.Search()

	f.rec.next(t, websocket.MessageTypeSelectionUpdated, &sel)
	assert.Equal(t, []string{f.heroB.ID.String()}, sel.Picks)
	require.Len(t, sel.Heroes, 1)
	assert.Equal(t, f.heroB.ID.String(), sel.Heroes[0].ID)
	assert.False(t, sel.Heroes[0].Available)

	var view catalog.AccountsView
	f.rec.next(t, websocket.MessageTypeAccounts, &view)
	assert.Equal(t, catalog.StateNoResults, view.State)
}

func TestSession_SearchWithoutPicks(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)

	f.session.Search()

	var view catalog.AccountsView
	f.rec.next(t, websocket.MessageTypeAccounts, &view)
	assert.Equal(t, catalog.StateSelectHeroes, view.State)
	assert.Empty(t, view.Accounts)
	assert.NotEmpty(t, view.Message)
	assert.Equal(t, websocket.StateGameSelected, f.session.State())
}

func TestSession_PickHero_Rejections(t *testing.T) {
	t.Run("before a game is selected", func(t *testing.T) {
		f := newFixture(t)
		f.session.PickHero(f.heroA.ID.String())
		f.rec.expectError(t, websocket.ErrCodeNoGame)
	})

	t.Run("unknown hero", func(t *testing.T) {
		f := newFixture(t)
		f.selectGacha(t)
		f.session.PickHero(uuid.NewString())
		f.rec.expectError(t, websocket.ErrCodeHeroNotFound)
	})

	t.Run("hero on no active account", func(t *testing.T) {
		f := newFixture(t)
		f.selectGacha(t)
		f.session.PickHero(f.heroC.ID.String())
		f.rec.expectError(t, websocket.ErrCodeHeroUnavailable)
		assert.Empty(t, f.session.Picks())
	})

	t.Run("game without rosters", func(t *testing.T) {
		f := newFixture(t)
		f.session.SelectGame(f.plain.Slug)
		f.rec.next(t, websocket.MessageTypeAccounts, nil)
		f.session.PickHero(f.heroA.ID.String())
		f.rec.expectError(t, websocket.ErrCodeHeroesNotSupported)
	})
}

func TestSession_RemoveHero(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)

	f.session.PickHero(f.heroA.ID.String())
	f.session.PickHero(f.heroB.ID.String())
	f.session.RemoveHero(f.heroA.ID.String())

	assert.Equal(t, []string{f.heroB.ID.String()}, f.session.Picks())
	assert.Equal(t, websocket.StateHeroesBeingPicked, f.session.State())

	f.session.RemoveHero(f.heroB.ID.String())
	assert.Empty(t, f.session.Picks())
	assert.Equal(t, websocket.StateGameSelected, f.session.State())

	f.session.RemoveHero(f.heroB.ID.String())
	f.rec.expectError(t, websocket.ErrCodeHeroNotSelected)
}

func TestSession_ClearHeroes(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)
	f.session.PickHero(f.heroA.ID.String())
	f.session.Search()
	f.rec.next(t, websocket.MessageTypeAccounts, nil)

	f.session.ClearHeroes()

	var sel websocket.SelectionPayload
	f.rec.next(t, websocket.MessageTypeSelectionUpdated, &sel)
	assert.Empty(t, sel.Picks)
	assert.Equal(t, websocket.StateGameSelected, sel.State)

	f.session.LoadMore()
	f.rec.expectError(t, websocket.ErrCodeNoResults)
}

func TestSession_SelectGameDiscardsPicks(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)
	f.session.PickHero(f.heroA.ID.String())
	require.Len(t, f.session.Picks(), 1)

	f.selectGacha(t)

	assert.Empty(t, f.session.Picks())
	assert.Equal(t, websocket.StateGameSelected, f.session.State())
}

func TestSession_LoadMore(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.browser.addAccount(t, f.plain)
	}

	f.session.SelectGame(f.plain.Slug)

	var view catalog.AccountsView
	f.rec.next(t, websocket.MessageTypeAccounts, &view)
	assert.Equal(t, 14, view.Total)

	for _, want := range []struct {
		shown   int
		hasMore bool
	}{{6, true}, {12, true}, {14, false}, {14, false}} {
		if want.shown > 6 {
			f.session.LoadMore()
			f.rec.next(t, websocket.MessageTypeAccounts, &view)
		}
		assert.Equal(t, want.shown, view.Shown)
		assert.Len(t, view.Accounts, want.shown)
		assert.Equal(t, want.hasMore, view.HasMore)
	}
}

func TestSession_StaleLoadIsDiscarded(t *testing.T) {
	f := newFixture(t)
	release := f.browser.gate(f.plain.Slug)

	f.session.SelectGame(f.plain.Slug)
	payload := f.selectGacha(t)
	assert.Equal(t, f.gacha.ID, payload.Game.ID)

	close(release)

	f.rec.expectNone(t, websocket.MessageTypeGameSelected, 200*time.Millisecond)
	assert.ErrorIs(t, f.browser.ctxErr(f.plain.Slug), context.Canceled)
	assert.Equal(t, websocket.StateGameSelected, f.session.State())
}

func TestSession_PickCancelsInFlightSearch(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)

	f.session.PickHero(f.heroA.ID.String())
	f.session.Search()
	f.session.PickHero(f.heroB.ID.String())

	// A pick invalidates results whether or not the search finished first.
	assert.Equal(t, websocket.StateHeroesBeingPicked, f.session.State())
	f.session.LoadMore()
	f.rec.expectError(t, websocket.ErrCodeNoResults)
}

func TestSession_SetLocale(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)

	f.session.SetLocale("ru")

	var state websocket.SessionStatePayload
	f.rec.next(t, websocket.MessageTypeSessionState, &state)
	assert.Equal(t, domain.LocaleRU, state.Locale)
	require.NotNil(t, state.Game)
	assert.Equal(t, "Геншин Импакт", state.Game.Name)
	assert.Equal(t, []string{"Альбедо", "Беннет", "Чунь Юнь"}, paletteNames(state.Palette))

	f.session.SetLocale("de")
	f.rec.expectError(t, websocket.ErrCodeUnsupportedLocale)
	assert.Equal(t, domain.LocaleRU, f.session.Locale())
}

func TestSession_FilterHeroes(t *testing.T) {
	f := newFixture(t)
	f.selectGacha(t)

	f.session.FilterHeroes("ben")

	var payload websocket.PalettePayload
	f.rec.next(t, websocket.MessageTypePaletteUpdated, &payload)
	assert.Equal(t, []string{"Bennett"}, paletteNames(payload.Palette))
}

func TestSession_Handle(t *testing.T) {
	tests := []struct {
		name    string
		msgType websocket.MessageType
		payload string
		code    string
	}{
		{"select game without payload", websocket.MessageTypeSelectGame, "", websocket.ErrCodeInvalidPayload},
		{"select game with empty ref", websocket.MessageTypeSelectGame, `{"game":""}`, websocket.ErrCodeInvalidPayload},
		{"pick hero with bad json", websocket.MessageTypePickHero, `{"heroId":`, websocket.ErrCodeInvalidPayload},
		{"unknown type", websocket.MessageType("DANCE"), "", websocket.ErrCodeUnknownMessage},
		{"search without game", websocket.MessageTypeSearch, "", websocket.ErrCodeNoGame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			msg := &websocket.Message{Type: tt.msgType}
			if tt.payload != "" {
				msg.Payload = json.RawMessage(tt.payload)
			}
			f.session.Handle(msg)
			f.rec.expectError(t, tt.code)
		})
	}
}

func TestSession_HandleSelectGame(t *testing.T) {
	f := newFixture(t)

	msg, err := websocket.NewMessage(websocket.MessageTypeSelectGame, websocket.SelectGamePayload{Game: f.gacha.Slug})
	require.NoError(t, err)
	f.session.Handle(msg)

	f.rec.next(t, websocket.MessageTypeGameSelected, nil)
}

func TestSession_MessagesAreSequenced(t *testing.T) {
	f := newFixture(t)

	f.session.SyncState()
	f.session.SyncState()

	first := f.rec.next(t, websocket.MessageTypeSessionState, nil)
	second := f.rec.next(t, websocket.MessageTypeSessionState, nil)
	assert.Equal(t, first.Seq+1, second.Seq)
}

func TestSession_Notify(t *testing.T) {
	f := newFixture(t)
	f.session.SetLocale("ru")

	f.session.Notify(&domain.PurchaseNotification{
		ID:      uuid.New(),
		Game:    f.gacha,
		TitleEn: "Starter",
		TitleRu: "Стартовый",
		Price:   decimal.NewFromInt(500),
		Ago:     domain.RelativeTime(1),
	})

	var view catalog.NotificationView
	f.rec.next(t, websocket.MessageTypeNotification, &view)
	assert.Equal(t, "Стартовый", view.AccountTitle)
	assert.Equal(t, domain.RelativeTime(1).Phrase(domain.LocaleRU), view.TimeAgo)
}
