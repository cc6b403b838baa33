package service

import (
	"context"
	"errors"
	"log"

	"github.com/dom/account-store/internal/cache"
	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService serves the public storefront reads.
type CatalogService struct {
	gameRepo    repository.GameRepository
	heroRepo    repository.HeroRepository
	accountRepo repository.AccountRepository
	cache       cache.AvailabilityCache
}

func NewCatalogService(gameRepo repository.GameRepository, heroRepo repository.HeroRepository, accountRepo repository.AccountRepository, availability cache.AvailabilityCache) *CatalogService {
	return &CatalogService{
		gameRepo:    gameRepo,
		heroRepo:    heroRepo,
		accountRepo: accountRepo,
		cache:       availability,
	}
}

type GameSummary struct {
	Game         *domain.Game
	AccountCount int64
}

// ListGames returns every game with its active-account count, optionally
// narrowed to names containing query in the given locale.
func (s *CatalogService) ListGames(ctx context.Context, locale domain.Locale, query string) ([]GameSummary, error) {
	games, err := s.gameRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.accountRepo.CountActiveByGame(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		if !catalog.NameMatches(g.Name(locale), query) {
			continue
		}
		out = append(out, GameSummary{Game: g, AccountCount: counts[g.ID]})
	}
	return out, nil
}

// GetGame resolves a game by UUID or slug.
func (s *CatalogService) GetGame(ctx context.Context, idOrSlug string) (*domain.Game, error) {
	var (
		game *domain.Game
		err  error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		game, err = s.gameRepo.GetByID(ctx, id)
	} else {
		game, err = s.gameRepo.GetBySlug(ctx, idOrSlug)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrGameNotFound
	}
	return game, err
}

// GameSummary resolves a game and counts its active accounts.
func (s *CatalogService) GameSummary(ctx context.Context, idOrSlug string) (*GameSummary, error) {
	game, err := s.GetGame(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	counts, err := s.accountRepo.CountActiveByGame(ctx)
	if err != nil {
		return nil, err
	}
	return &GameSummary{Game: game, AccountCount: counts[game.ID]}, nil
}

func (s *CatalogService) GameHeroes(ctx context.Context, gameID uuid.UUID) ([]*domain.Hero, error) {
	return s.heroRepo.GetByGameID(ctx, gameID)
}

// ActiveAccounts loads and parses the active listings of a game. Listings
// whose documents fail to parse are skipped.
func (s *CatalogService) ActiveAccounts(ctx context.Context, gameID uuid.UUID) ([]*catalog.Account, error) {
	raw, err := s.accountRepo.GetActiveByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return catalog.ParseAccounts(raw), nil
}

// Availability returns the game's available-hero set, served from cache
// when possible. Cache failures fall back to the database.
func (s *CatalogService) Availability(ctx context.Context, gameID uuid.UUID) (catalog.Availability, error) {
	ids, ok, err := s.cache.Get(ctx, gameID)
	if err != nil {
		log.Printf("WARN [catalog.Availability] gameID=%s cache get: %v", gameID, err)
	}
	if ok {
		return catalog.AvailabilityFromIDs(ids), nil
	}

	// The version is taken before loading so a write that lands during the
	// load keeps this result out of the cache.
	version, verErr := s.cache.Version(ctx, gameID)
	if verErr != nil {
		log.Printf("WARN [catalog.Availability] gameID=%s cache version: %v", gameID, verErr)
	}

	accounts, err := s.ActiveAccounts(ctx, gameID)
	if err != nil {
		return nil, err
	}
	av := catalog.BuildAvailability(accounts)

	if verErr == nil {
		if err := s.cache.Set(ctx, gameID, version, av.IDs()); err != nil {
			log.Printf("WARN [catalog.Availability] gameID=%s cache set: %v", gameID, err)
		}
	}
	return av, nil
}

// InvalidateAvailability drops the cached set after any write to the game's
// accounts.
func (s *CatalogService) InvalidateAvailability(ctx context.Context, gameID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, gameID); err != nil {
		log.Printf("WARN [catalog.InvalidateAvailability] gameID=%s: %v", gameID, err)
	}
}

// Palette returns the game's heroes sorted for picking, optionally narrowed
// by a name query in the given locale.
func (s *CatalogService) Palette(ctx context.Context, gameID uuid.UUID, locale domain.Locale, query string) ([]catalog.PaletteHero, error) {
	heroes, err := s.heroRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	av, err := s.Availability(ctx, gameID)
	if err != nil {
		return nil, err
	}

	filtered := heroes[:0:0]
	for _, h := range heroes {
		if catalog.NameMatches(h.Name(locale), query) {
			filtered = append(filtered, h)
		}
	}
	return catalog.SortPalette(filtered, av, locale), nil
}

type SearchInput struct {
	Game  string
	Picks []string
	Page  int
}

type SearchResult struct {
	Game   *domain.Game
	State  catalog.FilterState
	Window catalog.Window
}

// SearchAccounts runs the hero filter over the game's active accounts and
// returns the first Page pages of matches.
func (s *CatalogService) SearchAccounts(ctx context.Context, in SearchInput) (*SearchResult, error) {
	game, err := s.GetGame(ctx, in.Game)
	if err != nil {
		return nil, err
	}
	accounts, err := s.ActiveAccounts(ctx, game.ID)
	if err != nil {
		return nil, err
	}

	res := catalog.Filter(game, catalog.BuildMultiset(in.Picks), accounts)
	pager := catalog.NewPaginatorAt(len(res.Accounts), in.Page)

	return &SearchResult{
		Game:   game,
		State:  res.State,
		Window: catalog.WindowOf(res.Accounts, pager),
	}, nil
}

// GetAccount returns a listing for its detail page. Hidden listings are
// reported as not found.
func (s *CatalogService) GetAccount(ctx context.Context, id uuid.UUID) (*catalog.Account, error) {
	raw, err := s.accountRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if raw.Status == domain.AccountStatusHidden {
		return nil, domain.ErrAccountNotFound
	}
	account, err := catalog.ParseAccount(raw)
	if err != nil {
		log.Printf("WARN [catalog.GetAccount] id=%s rejected: %v", id, err)
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}
