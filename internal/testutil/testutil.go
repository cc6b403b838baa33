package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dom/account-store/internal/api"
	"github.com/dom/account-store/internal/cache"
	"github.com/dom/account-store/internal/config"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	repoPostgres "github.com/dom/account-store/internal/repository/postgres"
	"github.com/dom/account-store/internal/service"
	"github.com/dom/account-store/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_account_store"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(repoPostgres.Models...); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"orders",
		"accounts",
		"heroes",
		"games",
		"site_configs",
		"user_sessions",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                    "0", // Random port
		Environment:             "test",
		AllowedOrigins:          []string{"*"},
		AvailabilityTTL:         time.Minute,
		JWTSecret:               "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours:      1,
		OperatorLocale:          domain.LocaleRU,
		TelegramAPIURL:          "http://127.0.0.1:0",
		OutboundTimeout:         5 * time.Second,
		NotificationMinInterval: 30 * time.Second,
		NotificationMaxInterval: 60 * time.Second,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server    *httptest.Server
	DB        *TestDB
	Repos     *repository.Repositories
	Services  *service.Services
	Hub       *websocket.Hub
	Config    *config.Config
	Sender    *FakeSender
	Completer *FakeCompleter
	Uploader  *FakeUploader
}

// NewTestServer creates a complete test server with all dependencies.
// Outbound collaborators are replaced with in-process fakes.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := repoPostgres.NewRepositories(testDB.DB)
	hub := websocket.NewHub()
	go hub.Run()

	sender := &FakeSender{}
	completer := &FakeCompleter{Reply: "ok"}
	uploader := &FakeUploader{BaseURL: "https://cdn.test"}

	services := service.NewServices(repos, cfg, service.Externals{
		Cache:     cache.NewMemoryAvailabilityCache(cfg.AvailabilityTTL),
		Sender:    sender,
		Completer: completer,
		Uploader:  uploader,
	})
	router := api.NewRouter(services, hub, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:    server,
		DB:        testDB,
		Repos:     repos,
		Services:  services,
		Hub:       hub,
		Config:    cfg,
		Sender:    sender,
		Completer: completer,
		Uploader:  uploader,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the WebSocket URL for a session in the given locale
func (ts *TestServer) WebSocketURL(lang string) string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	if lang == "" {
		return wsURL + "/api/v1/ws"
	}
	return fmt.Sprintf("%s/api/v1/ws?lang=%s", wsURL, url.QueryEscape(lang))
}

// ConfigureLeadChannel stores Telegram credentials so leads can be delivered.
func (ts *TestServer) ConfigureLeadChannel(t *testing.T) {
	t.Helper()
	_, err := ts.Services.Settings.Update(context.Background(), service.SettingsInput{
		TelegramBotToken: "test-bot-token",
		TelegramChatID:   "-100123",
		AIAPIKey:         "test-ai-key",
	})
	if err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
}
