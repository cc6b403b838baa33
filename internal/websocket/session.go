package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type SessionState string

const (
	StateNoGameSelected    SessionState = "no_game_selected"
	StateGameSelected      SessionState = "game_selected"
	StateHeroesBeingPicked SessionState = "heroes_being_picked"
	StateAccountsShown     SessionState = "accounts_shown"
)

const defaultLoadTimeout = 15 * time.Second

// Browser is the catalog read side a session needs.
type Browser interface {
	GetGame(ctx context.Context, idOrSlug string) (*domain.Game, error)
	GameHeroes(ctx context.Context, gameID uuid.UUID) ([]*domain.Hero, error)
	ActiveAccounts(ctx context.Context, gameID uuid.UUID) ([]*catalog.Account, error)
}

// Session is the account-discovery flow of one connection. Every load it
// starts is tagged with a generation; starting a newer load cancels the older
// one, and a completion whose generation is no longer current is dropped.
type Session struct {
	browser Browser
	emit    func(*Message)
	timeout time.Duration

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu           sync.Mutex
	seq          uint64
	gen          uint64
	cancel       context.CancelFunc
	closed       bool
	state        SessionState
	locale       domain.Locale
	game         *domain.Game
	heroes       []*domain.Hero
	heroByID     map[string]*domain.Hero
	accounts     []*catalog.Account
	availability catalog.Availability
	picks        []string
	query        string
	results      *catalog.FilterResult
	pager        *catalog.Paginator
}

// NewSession creates a session that reports to emit. emit is called with the
// session lock held and must not block.
func NewSession(browser Browser, locale domain.Locale, emit func(*Message)) *Session {
	if !locale.Valid() {
		locale = domain.DefaultLocale
	}
	base, cancel := context.WithCancel(context.Background())
	return &Session{
		browser: browser,
		emit:    emit,
		timeout: defaultLoadTimeout,
		base:    base,
		stop:    cancel,
		state:   StateNoGameSelected,
		locale:  locale,
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Locale() domain.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// Picks returns a copy of the current hero selection.
func (s *Session) Picks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.picks)
}

// Close cancels any in-flight load and waits for it to return.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.stop()
	s.wg.Wait()
}

// Handle dispatches one client message.
func (s *Session) Handle(msg *Message) {
	switch msg.Type {
	case MessageTypeSelectGame:
		var payload SelectGamePayload
		if err := decode(msg, &payload); err != nil || payload.Game == "" {
			s.Error(ErrCodeInvalidPayload, "Invalid select game payload")
			return
		}
		s.SelectGame(payload.Game)

	case MessageTypePickHero:
		var payload HeroPayload
		if err := decode(msg, &payload); err != nil || payload.HeroID == "" {
			s.Error(ErrCodeInvalidPayload, "Invalid pick hero payload")
			return
		}
		s.PickHero(payload.HeroID)

	case MessageTypeRemoveHero:
		var payload HeroPayload
		if err := decode(msg, &payload); err != nil || payload.HeroID == "" {
			s.Error(ErrCodeInvalidPayload, "Invalid remove hero payload")
			return
		}
		s.RemoveHero(payload.HeroID)

	case MessageTypeClearHeroes:
		s.ClearHeroes()

	case MessageTypeSearch:
		s.Search()

	case MessageTypeLoadMore:
		s.LoadMore()

	case MessageTypeSetLocale:
		var payload SetLocalePayload
		if err := decode(msg, &payload); err != nil {
			s.Error(ErrCodeInvalidPayload, "Invalid set locale payload")
			return
		}
		s.SetLocale(payload.Locale)

	case MessageTypeFilterHeroes:
		var payload FilterHeroesPayload
		if err := decode(msg, &payload); err != nil {
			s.Error(ErrCodeInvalidPayload, "Invalid filter heroes payload")
			return
		}
		s.FilterHeroes(payload.Query)

	case MessageTypeSyncState:
		s.SyncState()

	default:
		s.Error(ErrCodeUnknownMessage, "Unknown message type: "+string(msg.Type))
	}
}

func decode(msg *Message, v interface{}) error {
	if len(msg.Payload) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(msg.Payload, v)
}

// SelectGame discards the current game and picks and loads the referenced
// game with its heroes and active accounts. A game without hero rosters goes
// straight to its account list.
func (s *Session) SelectGame(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.state = StateNoGameSelected
	s.game = nil
	s.heroes = nil
	s.heroByID = nil
	s.accounts = nil
	s.availability = nil
	s.picks = nil
	s.query = ""
	s.resetResults()

	ctx, gen := s.beginLoad()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loadGame(ctx, gen, ref)
	}()
}

func (s *Session) loadGame(ctx context.Context, gen uint64, ref string) {
	game, err := s.browser.GetGame(ctx, ref)

	var (
		heroes   []*domain.Hero
		accounts []*catalog.Account
	)
	if err == nil {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			heroes, err = s.browser.GameHeroes(gctx, game.ID)
			return err
		})
		g.Go(func() error {
			var err error
			accounts, err = s.browser.ActiveAccounts(gctx, game.ID)
			return err
		})
		err = g.Wait()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.finishLoad()

	if err != nil {
		s.loadFailed("SelectGame", ref, err)
		return
	}

	s.game = game
	s.heroes = heroes
	s.heroByID = make(map[string]*domain.Hero, len(heroes))
	for _, h := range heroes {
		s.heroByID[h.ID.String()] = h
	}
	s.setAccounts(accounts)
	s.state = StateGameSelected

	view := catalog.NewGameView(game, int64(len(s.accounts)), s.locale)
	s.send(MessageTypeGameSelected, GameSelectedPayload{
		Game:    view,
		Palette: s.palette(),
	})

	if !game.HasGachaHeroes {
		s.showResults()
	}
}

// PickHero adds one copy of a hero to the selection. Heroes outside the
// game's catalog or absent from every active roster are refused.
func (s *Session) PickHero(heroID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireRosterGame() {
		return
	}
	if _, ok := s.heroByID[heroID]; !ok {
		s.fail(ErrCodeHeroNotFound, "Hero does not belong to the selected game")
		return
	}
	if !s.availability.Has(heroID) {
		s.fail(ErrCodeHeroUnavailable, "No active account has this hero")
		return
	}

	s.abortLoad()
	s.resetResults()
	s.picks = append(s.picks, heroID)
	s.state = StateHeroesBeingPicked
	s.sendSelection()
}

// RemoveHero drops the most recently added copy of a hero.
func (s *Session) RemoveHero(heroID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireRosterGame() {
		return
	}
	i := slices.Index(s.picks, heroID)
	if i < 0 {
		s.fail(ErrCodeHeroNotSelected, "Hero is not selected")
		return
	}
	for j := len(s.picks) - 1; j >= 0; j-- {
		if s.picks[j] == heroID {
			i = j
			break
		}
	}

	s.abortLoad()
	s.resetResults()
	s.picks = slices.Delete(s.picks, i, i+1)
	if len(s.picks) == 0 {
		s.picks = nil
		s.state = StateGameSelected
	} else {
		s.state = StateHeroesBeingPicked
	}
	s.sendSelection()
}

func (s *Session) ClearHeroes() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireRosterGame() {
		return
	}
	s.abortLoad()
	s.resetResults()
	s.picks = nil
	s.state = StateGameSelected
	s.sendSelection()
}

// Search reloads the game's active accounts and matches them against the
// current selection.
func (s *Session) Search() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.game == nil {
		s.fail(ErrCodeNoGame, "Select a game first")
		return
	}

	gameID := s.game.ID
	ctx, gen := s.beginLoad()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loadAccounts(ctx, gen, gameID)
	}()
}

func (s *Session) loadAccounts(ctx context.Context, gen uint64, gameID uuid.UUID) {
	accounts, err := s.browser.ActiveAccounts(ctx, gameID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.finishLoad()

	if err != nil {
		s.loadFailed("Search", gameID.String(), err)
		return
	}
	s.setAccounts(accounts)
	if len(s.picks) > 0 {
		s.sendSelection()
	}
	s.showResults()
}

// LoadMore extends the shown window by one page. Past the end it re-sends
// the unchanged window.
func (s *Session) LoadMore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pager == nil {
		s.fail(ErrCodeNoResults, "No accounts are shown")
		return
	}
	s.pager.LoadMore()
	s.sendAccounts()
}

func (s *Session) SetLocale(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	locale, ok := domain.ParseLocale(value)
	if !ok {
		s.fail(ErrCodeUnsupportedLocale, "Unsupported locale: "+value)
		return
	}
	s.locale = locale
	s.sendState()
}

// FilterHeroes narrows the palette to heroes whose localized name contains
// query. The selection is unaffected.
func (s *Session) FilterHeroes(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		s.fail(ErrCodeNoGame, "Select a game first")
		return
	}
	s.query = query
	s.send(MessageTypePaletteUpdated, PalettePayload{
		Query:   query,
		Palette: s.palette(),
	})
}

func (s *Session) SyncState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendState()
}

// Error sends an error message to the client.
func (s *Session) Error(code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail(code, message)
}

// Notify forwards a pushed notification rendered in the session locale.
func (s *Session) Notify(n *domain.PurchaseNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send(MessageTypeNotification, catalog.NewNotificationView(n, s.locale))
}

// Everything below expects s.mu to be held.

func (s *Session) beginLoad() (context.Context, uint64) {
	s.abortLoad()
	ctx, cancel := context.WithTimeout(s.base, s.timeout)
	s.cancel = cancel
	return ctx, s.gen
}

// abortLoad cancels the in-flight load and retires its generation.
func (s *Session) abortLoad() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) fail(code, message string) {
	s.send(MessageTypeError, ErrorPayload{Code: code, Message: message})
}

// finishLoad releases the context of the load that just completed.
func (s *Session) finishLoad() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) current(gen uint64) bool {
	return !s.closed && gen == s.gen
}

func (s *Session) loadFailed(op, ref string, err error) {
	if errors.Is(err, domain.ErrGameNotFound) {
		s.fail(ErrCodeGameNotFound, "Game not found")
		return
	}
	log.Printf("ERROR [websocket.%s] ref=%s: %v", op, ref, err)
	s.fail(ErrCodeLoadFailed, "Failed to load catalog")
}

func (s *Session) requireRosterGame() bool {
	if s.game == nil {
		s.fail(ErrCodeNoGame, "Select a game first")
		return false
	}
	if !s.game.HasGachaHeroes {
		s.fail(ErrCodeHeroesNotSupported, "This game has no hero rosters")
		return false
	}
	return true
}

func (s *Session) setAccounts(accounts []*catalog.Account) {
	s.accounts = accounts
	s.availability = catalog.BuildAvailability(accounts)
}

func (s *Session) resetResults() {
	s.results = nil
	s.pager = nil
}

func (s *Session) showResults() {
	res := catalog.Filter(s.game, catalog.BuildMultiset(s.picks), s.accounts)
	s.results = &res
	s.pager = catalog.NewPaginator(len(res.Accounts))
	if res.State != catalog.StateSelectHeroes {
		s.state = StateAccountsShown
	}
	s.sendAccounts()
}

func (s *Session) palette() []catalog.PaletteEntry {
	filtered := make([]*domain.Hero, 0, len(s.heroes))
	for _, h := range s.heroes {
		if catalog.NameMatches(h.Name(s.locale), s.query) {
			filtered = append(filtered, h)
		}
	}
	return catalog.NewPalette(catalog.SortPalette(filtered, s.availability, s.locale), s.locale)
}

func (s *Session) selection() SelectionPayload {
	roster := make([]domain.RosterHero, 0, len(s.picks))
	for _, id := range s.picks {
		if h, ok := s.heroByID[id]; ok {
			roster = append(roster, h.Snapshot())
		}
	}
	badges := catalog.UniqueHeroes(roster)
	views := make([]catalog.SelectedHero, len(badges))
	for i, b := range badges {
		views[i] = catalog.SelectedHero{
			HeroView:  catalog.NewHeroView(b.Hero, b.Count, s.locale),
			Available: s.availability.Has(b.Hero.ID),
		}
	}
	picks := slices.Clone(s.picks)
	if picks == nil {
		picks = []string{}
	}
	return SelectionPayload{State: s.state, Picks: picks, Heroes: views}
}

func (s *Session) accountsView() *catalog.AccountsView {
	if s.results == nil || s.pager == nil {
		return nil
	}
	view := catalog.NewAccountsView(s.results.State, catalog.WindowOf(s.results.Accounts, s.pager), s.locale)
	return &view
}

func (s *Session) sendSelection() {
	s.send(MessageTypeSelectionUpdated, s.selection())
}

func (s *Session) sendAccounts() {
	s.send(MessageTypeAccounts, s.accountsView())
}

func (s *Session) sendState() {
	payload := SessionStatePayload{
		State:     s.state,
		Locale:    s.locale,
		Palette:   []catalog.PaletteEntry{},
		Selection: s.selection(),
		Accounts:  s.accountsView(),
	}
	if s.game != nil {
		view := catalog.NewGameView(s.game, int64(len(s.accounts)), s.locale)
		payload.Game = &view
		payload.Palette = s.palette()
	}
	s.send(MessageTypeSessionState, payload)
}

func (s *Session) send(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("ERROR [websocket.send] type=%s: %v", msgType, err)
		return
	}
	s.seq++
	msg.Seq = s.seq
	s.emit(msg)
}
