package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminBuilder creates operator accounts with a builder pattern
type AdminBuilder struct {
	email    string
	password string
}

// NewAdminBuilder creates a new AdminBuilder with default values
func NewAdminBuilder() *AdminBuilder {
	return &AdminBuilder{
		email:    fmt.Sprintf("admin_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithEmail sets the email
func (b *AdminBuilder) WithEmail(email string) *AdminBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *AdminBuilder) WithPassword(password string) *AdminBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *AdminBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates the admin and logs in through the API,
// returning the user and access token
func (b *AdminBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{
		"email":    user.Email,
		"password": password,
	})

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return user, authResp.AccessToken
}

// GameBuilder creates test games
type GameBuilder struct {
	nameEn string
	nameRu string
	slug   string
	gacha  bool
}

// NewGameBuilder creates a gacha game with unique names
func NewGameBuilder() *GameBuilder {
	suffix := uuid.New().String()[:8]
	return &GameBuilder{
		nameEn: "Game " + suffix,
		nameRu: "Игра " + suffix,
		slug:   "game-" + suffix,
		gacha:  true,
	}
}

func (b *GameBuilder) WithNames(en, ru string) *GameBuilder {
	b.nameEn = en
	b.nameRu = ru
	return b
}

func (b *GameBuilder) WithSlug(slug string) *GameBuilder {
	b.slug = slug
	return b
}

// WithoutHeroes marks the game as having no hero rosters
func (b *GameBuilder) WithoutHeroes() *GameBuilder {
	b.gacha = false
	return b
}

// Build creates the game in the database
func (b *GameBuilder) Build(t *testing.T, db *gorm.DB) *domain.Game {
	t.Helper()

	game := &domain.Game{
		ID:             uuid.New(),
		NameEn:         b.nameEn,
		NameRu:         b.nameRu,
		Slug:           b.slug,
		HasGachaHeroes: b.gacha,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := db.Create(game).Error; err != nil {
		t.Fatalf("failed to create game: %v", err)
	}

	return game
}

// HeroBuilder creates test heroes
type HeroBuilder struct {
	game     *domain.Game
	nameEn   string
	nameRu   string
	heroType domain.HeroType
	rarity   *int
}

// NewHeroBuilder creates a new epic hero for game
func NewHeroBuilder(game *domain.Game) *HeroBuilder {
	suffix := uuid.New().String()[:8]
	return &HeroBuilder{
		game:     game,
		nameEn:   "Hero " + suffix,
		nameRu:   "Герой " + suffix,
		heroType: domain.HeroTypeEpic,
	}
}

func (b *HeroBuilder) WithNames(en, ru string) *HeroBuilder {
	b.nameEn = en
	b.nameRu = ru
	return b
}

func (b *HeroBuilder) Legendary() *HeroBuilder {
	b.heroType = domain.HeroTypeLegendary
	return b
}

func (b *HeroBuilder) WithRarity(rarity int) *HeroBuilder {
	b.rarity = &rarity
	return b
}

// Build creates the hero in the database
func (b *HeroBuilder) Build(t *testing.T, db *gorm.DB) *domain.Hero {
	t.Helper()

	hero := &domain.Hero{
		ID:        uuid.New(),
		GameID:    b.game.ID,
		NameEn:    b.nameEn,
		NameRu:    b.nameRu,
		Icon:      "https://cdn.test/heroes/" + b.nameEn + ".png",
		Type:      b.heroType,
		Rarity:    b.rarity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Omit("Game").Create(hero).Error; err != nil {
		t.Fatalf("failed to create hero: %v", err)
	}

	return hero
}

// AccountBuilder creates test accounts
type AccountBuilder struct {
	game        *domain.Game
	heroes      []*domain.Hero
	status      domain.AccountStatus
	price       decimal.Decimal
	titleEn     string
	titleRu     string
	description string
	guaranteed  bool
	createdAt   time.Time
}

// NewAccountBuilder creates an active account for game with an empty roster
func NewAccountBuilder(game *domain.Game) *AccountBuilder {
	return &AccountBuilder{
		game:        game,
		status:      domain.AccountStatusActive,
		price:       decimal.NewFromInt(1000),
		titleEn:     "Account",
		titleRu:     "Аккаунт",
		description: "A ready to play account",
		createdAt:   time.Now(),
	}
}

// WithHeroes sets the roster. Repeat a hero to add copies.
func (b *AccountBuilder) WithHeroes(heroes ...*domain.Hero) *AccountBuilder {
	b.heroes = heroes
	return b
}

func (b *AccountBuilder) WithStatus(status domain.AccountStatus) *AccountBuilder {
	b.status = status
	return b
}

func (b *AccountBuilder) WithPrice(price int64) *AccountBuilder {
	b.price = decimal.NewFromInt(price)
	return b
}

func (b *AccountBuilder) WithTitles(en, ru string) *AccountBuilder {
	b.titleEn = en
	b.titleRu = ru
	return b
}

func (b *AccountBuilder) WithDescription(description string) *AccountBuilder {
	b.description = description
	return b
}

func (b *AccountBuilder) Guaranteed() *AccountBuilder {
	b.guaranteed = true
	return b
}

// CreatedAt pins the creation time, which orders customer listings
func (b *AccountBuilder) CreatedAt(at time.Time) *AccountBuilder {
	b.createdAt = at
	return b
}

// Build creates the account in the database
func (b *AccountBuilder) Build(t *testing.T, db *gorm.DB) *domain.Account {
	t.Helper()

	roster := make([]domain.RosterHero, len(b.heroes))
	for i, h := range b.heroes {
		roster[i] = h.Snapshot()
	}
	rosterJSON, _ := json.Marshal(roster)

	account := &domain.Account{
		ID:            uuid.New(),
		GameID:        b.game.ID,
		TitleEn:       b.titleEn,
		TitleRu:       b.titleRu,
		DescriptionEn: b.description,
		DescriptionRu: b.description,
		Price:         b.price,
		Guaranteed:    b.guaranteed,
		Heroes:        datatypes.JSON(rosterJSON),
		Resources:     datatypes.JSON(`[]`),
		Status:        b.status,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.createdAt,
	}

	if err := db.Omit("Game").Create(account).Error; err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	return account
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
