package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"github.com/dom/account-store/internal/storage"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecentOrdersLimit is how many orders the dashboard shows.
const RecentOrdersLimit = 5

// AdminService implements the operator CRUD surface.
type AdminService struct {
	repos    *repository.Repositories
	catalog  *CatalogService
	uploader storage.Uploader
}

func NewAdminService(repos *repository.Repositories, catalogService *CatalogService, uploader storage.Uploader) *AdminService {
	return &AdminService{
		repos:    repos,
		catalog:  catalogService,
		uploader: uploader,
	}
}

type GameInput struct {
	NameEn         string
	NameRu         string
	DescriptionEn  string
	DescriptionRu  string
	Image          string
	Slug           string
	HasGachaHeroes bool
}

func (s *AdminService) ListGames(ctx context.Context) ([]*domain.Game, error) {
	return s.repos.Game.GetAll(ctx)
}

func (s *AdminService) CreateGame(ctx context.Context, in GameInput) (*domain.Game, error) {
	game := &domain.Game{ID: uuid.New(), CreatedAt: time.Now()}
	if err := s.applyGameInput(ctx, game, in); err != nil {
		return nil, err
	}
	if err := s.repos.Game.Create(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *AdminService) UpdateGame(ctx context.Context, id uuid.UUID, in GameInput) (*domain.Game, error) {
	game, err := s.repos.Game.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}
	wasGacha := game.HasGachaHeroes
	if err := s.applyGameInput(ctx, game, in); err != nil {
		return nil, err
	}
	if err := s.repos.Game.Update(ctx, game); err != nil {
		return nil, err
	}
	if wasGacha != game.HasGachaHeroes {
		s.catalog.InvalidateAvailability(ctx, game.ID)
	}
	return game, nil
}

func (s *AdminService) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Game.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrGameNotFound
		}
		return err
	}
	s.catalog.InvalidateAvailability(ctx, id)
	return nil
}

func (s *AdminService) applyGameInput(ctx context.Context, game *domain.Game, in GameInput) error {
	nameEn, nameRu := strings.TrimSpace(in.NameEn), strings.TrimSpace(in.NameRu)
	if nameEn == "" || nameRu == "" {
		return domain.ErrMissingName
	}

	explicit := strings.TrimSpace(in.Slug) != ""
	source := in.Slug
	if !explicit {
		source = nameEn
	}
	base := slug.Make(source)
	if base == "" {
		base = "game"
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repos.Game.SlugExists(ctx, candidate, game.ID)
		if err != nil {
			return err
		}
		if !taken {
			break
		}
		if explicit {
			return domain.ErrSlugTaken
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	game.NameEn = nameEn
	game.NameRu = nameRu
	game.DescriptionEn = in.DescriptionEn
	game.DescriptionRu = in.DescriptionRu
	game.Image = in.Image
	game.Slug = candidate
	game.HasGachaHeroes = in.HasGachaHeroes
	game.UpdatedAt = time.Now()
	return nil
}

type HeroInput struct {
	GameID  uuid.UUID
	NameEn  string
	NameRu  string
	Icon    string
	Type    domain.HeroType
	Rarity  *int
	Element *string
}

// ListHeroes returns heroes in admin order, optionally for one game.
func (s *AdminService) ListHeroes(ctx context.Context, gameID *uuid.UUID) ([]*domain.Hero, error) {
	var (
		heroes []*domain.Hero
		err    error
	)
	if gameID != nil {
		heroes, err = s.repos.Hero.GetByGameID(ctx, *gameID)
	} else {
		heroes, err = s.repos.Hero.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	catalog.SortForAdmin(heroes)
	return heroes, nil
}

func (s *AdminService) CreateHero(ctx context.Context, in HeroInput) (*domain.Hero, error) {
	hero := &domain.Hero{ID: uuid.New(), CreatedAt: time.Now()}
	if err := s.applyHeroInput(ctx, hero, in); err != nil {
		return nil, err
	}
	if err := s.repos.Hero.Create(ctx, hero); err != nil {
		return nil, err
	}
	return hero, nil
}

func (s *AdminService) UpdateHero(ctx context.Context, id uuid.UUID, in HeroInput) (*domain.Hero, error) {
	hero, err := s.repos.Hero.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHeroNotFound
		}
		return nil, err
	}
	if err := s.applyHeroInput(ctx, hero, in); err != nil {
		return nil, err
	}
	if err := s.repos.Hero.Update(ctx, hero); err != nil {
		return nil, err
	}
	return hero, nil
}

// DeleteHero removes the hero from the catalog. Rosters keep their
// snapshots of it.
func (s *AdminService) DeleteHero(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Hero.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrHeroNotFound
		}
		return err
	}
	return nil
}

func (s *AdminService) applyHeroInput(ctx context.Context, hero *domain.Hero, in HeroInput) error {
	nameEn, nameRu := strings.TrimSpace(in.NameEn), strings.TrimSpace(in.NameRu)
	if nameEn == "" || nameRu == "" {
		return domain.ErrMissingName
	}
	if in.Type == "" {
		in.Type = domain.HeroTypeEpic
	}
	if !in.Type.Valid() {
		return domain.ErrInvalidHeroType
	}
	if _, err := s.repos.Game.GetByID(ctx, in.GameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrGameNotFound
		}
		return err
	}

	hero.GameID = in.GameID
	hero.NameEn = nameEn
	hero.NameRu = nameRu
	hero.Icon = in.Icon
	hero.Type = in.Type
	hero.Rarity = in.Rarity
	hero.Element = in.Element
	hero.UpdatedAt = time.Now()
	return nil
}

type AccountInput struct {
	GameID         uuid.UUID
	TitleEn        string
	TitleRu        string
	DescriptionEn  string
	DescriptionRu  string
	Price          decimal.Decimal
	Image          string
	Server         string
	Level          *int
	Guaranteed     bool
	HeroIDs        []string
	Resources      []domain.Resource
	Status         domain.AccountStatus
	MetaTitleEn    string
	MetaTitleRu    string
	MetaDescEn     string
	MetaDescRu     string
	MetaKeywordsEn string
	MetaKeywordsRu string
}

func (s *AdminService) ListAccounts(ctx context.Context, filter repository.AccountFilter) ([]*domain.Account, error) {
	return s.repos.Account.List(ctx, filter)
}

func (s *AdminService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.repos.Account.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	return account, err
}

func (s *AdminService) CreateAccount(ctx context.Context, in AccountInput) (*domain.Account, error) {
	account := &domain.Account{ID: uuid.New(), CreatedAt: time.Now()}
	if err := s.applyAccountInput(ctx, account, in); err != nil {
		return nil, err
	}
	if err := s.repos.Account.Create(ctx, account); err != nil {
		return nil, err
	}
	s.catalog.InvalidateAvailability(ctx, account.GameID)
	return account, nil
}

func (s *AdminService) UpdateAccount(ctx context.Context, id uuid.UUID, in AccountInput) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	previousGame := account.GameID
	if err := s.applyAccountInput(ctx, account, in); err != nil {
		return nil, err
	}
	account.Game = nil
	if err := s.repos.Account.Update(ctx, account); err != nil {
		return nil, err
	}
	s.catalog.InvalidateAvailability(ctx, account.GameID)
	if previousGame != account.GameID {
		s.catalog.InvalidateAvailability(ctx, previousGame)
	}
	return account, nil
}

func (s *AdminService) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidAccountStatus
	}
	if err := s.repos.Account.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	s.catalog.InvalidateAvailability(ctx, account.GameID)
	return account, nil
}

func (s *AdminService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Account.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}
	s.catalog.InvalidateAvailability(ctx, account.GameID)
	return nil
}

func (s *AdminService) applyAccountInput(ctx context.Context, account *domain.Account, in AccountInput) error {
	titleEn, titleRu := strings.TrimSpace(in.TitleEn), strings.TrimSpace(in.TitleRu)
	if titleEn == "" || titleRu == "" {
		return domain.ErrMissingName
	}
	if in.Price.IsNegative() {
		return domain.ErrNegativePrice
	}
	if in.Status == "" {
		in.Status = domain.AccountStatusActive
	}
	if !in.Status.Valid() {
		return domain.ErrInvalidAccountStatus
	}
	if _, err := s.repos.Game.GetByID(ctx, in.GameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrGameNotFound
		}
		return err
	}

	roster, err := s.resolveRoster(ctx, in.GameID, in.HeroIDs)
	if err != nil {
		return err
	}
	rosterJSON, err := json.Marshal(roster)
	if err != nil {
		return err
	}

	resources := make([]domain.Resource, 0, len(in.Resources))
	for _, r := range in.Resources {
		if name := strings.TrimSpace(r.Name); name != "" {
			resources = append(resources, domain.Resource{Name: name, Value: r.Value})
		}
	}
	resourcesJSON, err := json.Marshal(resources)
	if err != nil {
		return err
	}

	account.GameID = in.GameID
	account.TitleEn = titleEn
	account.TitleRu = titleRu
	account.DescriptionEn = in.DescriptionEn
	account.DescriptionRu = in.DescriptionRu
	account.Price = in.Price.Round(2)
	account.Image = in.Image
	account.Server = in.Server
	account.Level = in.Level
	account.Guaranteed = in.Guaranteed
	account.Heroes = datatypes.JSON(rosterJSON)
	account.Resources = datatypes.JSON(resourcesJSON)
	account.Status = in.Status
	account.MetaTitleEn = in.MetaTitleEn
	account.MetaTitleRu = in.MetaTitleRu
	account.MetaDescEn = in.MetaDescEn
	account.MetaDescRu = in.MetaDescRu
	account.MetaKeywordsEn = in.MetaKeywordsEn
	account.MetaKeywordsRu = in.MetaKeywordsRu
	account.UpdatedAt = time.Now()
	return nil
}

// resolveRoster snapshots the referenced heroes in the order given. Repeated
// identifiers become repeated roster entries. Every hero must exist and
// belong to gameID.
func (s *AdminService) resolveRoster(ctx context.Context, gameID uuid.UUID, heroIDs []string) ([]domain.RosterHero, error) {
	roster := make([]domain.RosterHero, 0, len(heroIDs))
	if len(heroIDs) == 0 {
		return roster, nil
	}

	ids := make([]uuid.UUID, 0, len(heroIDs))
	seen := make(map[uuid.UUID]bool, len(heroIDs))
	parsed := make([]uuid.UUID, len(heroIDs))
	for i, raw := range heroIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRoster, raw)
		}
		parsed[i] = id
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	heroes, err := s.repos.Hero.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.Hero, len(heroes))
	for _, h := range heroes {
		byID[h.ID] = h
	}

	for _, id := range parsed {
		h, ok := byID[id]
		if !ok || h.GameID != gameID {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRoster, id)
		}
		roster = append(roster, h.Snapshot())
	}
	return roster, nil
}

type OrderPage struct {
	Orders []*domain.Order
	Total  int64
}

func (s *AdminService) ListOrders(ctx context.Context, limit, offset int) (*OrderPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var page OrderPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Orders, err = s.repos.Order.GetRecent(gctx, limit, offset)
		return err
	})
	g.Go(func() error {
		var err error
		page.Total, err = s.repos.Order.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &page, nil
}

type Dashboard struct {
	Accounts     int64
	Games        int64
	Orders       int64
	RecentOrders []*domain.Order
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Accounts, err = s.repos.Account.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Games, err = s.repos.Game.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Orders, err = s.repos.Order.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.RecentOrders, err = s.repos.Order.GetRecent(gctx, RecentOrdersLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// UploadImage stores an image and returns its public URL.
func (s *AdminService) UploadImage(ctx context.Context, folder, contentType string, body io.Reader) (string, error) {
	key, err := storage.ImageKey(folder, contentType)
	if err != nil {
		return "", err
	}
	return s.uploader.Upload(ctx, key, contentType, body)
}
