package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient talks to the admin API of a running store
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

type Game struct {
	ID             string `json:"id"`
	Slug           string `json:"slug"`
	NameEn         string `json:"nameEn"`
	HasGachaHeroes bool   `json:"hasGachaHeroes"`
}

type Hero struct {
	ID     string `json:"id"`
	NameEn string `json:"nameEn"`
	Type   string `json:"type"`
}

type Account struct {
	ID      string `json:"id"`
	TitleEn string `json:"titleEn"`
	Status  string `json:"status"`
}

type Resource struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type GameRequest struct {
	NameEn         string `json:"nameEn"`
	NameRu         string `json:"nameRu"`
	DescriptionEn  string `json:"descriptionEn"`
	DescriptionRu  string `json:"descriptionRu"`
	Slug           string `json:"slug,omitempty"`
	HasGachaHeroes bool   `json:"hasGachaHeroes"`
}

type HeroRequest struct {
	GameID  string  `json:"gameId"`
	NameEn  string  `json:"nameEn"`
	NameRu  string  `json:"nameRu"`
	Icon    string  `json:"icon"`
	Type    string  `json:"type"`
	Rarity  *int    `json:"rarity,omitempty"`
	Element *string `json:"element,omitempty"`
}

type AccountRequest struct {
	GameID        string     `json:"gameId"`
	TitleEn       string     `json:"titleEn"`
	TitleRu       string     `json:"titleRu"`
	DescriptionEn string     `json:"descriptionEn"`
	DescriptionRu string     `json:"descriptionRu"`
	Price         string     `json:"price"`
	Server        string     `json:"server"`
	Level         *int       `json:"level,omitempty"`
	Guaranteed    bool       `json:"guaranteed"`
	HeroIDs       []string   `json:"heroIds"`
	Resources     []Resource `json:"resources"`
	Status        string     `json:"status"`
}

type SettingsRequest struct {
	TelegramBotToken string `json:"telegramBotToken"`
	TelegramChatID   string `json:"telegramChatId"`
	AIAPIKey         string `json:"aiApiKey"`
	AIAPIURL         string `json:"aiApiUrl"`
	AIModel          string `json:"aiModel"`
}

// Login authenticates as an operator; later calls reuse the token
func (c *APIClient) Login(email, password string) (*AuthResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", body, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	c.token = result.AccessToken
	return &result, nil
}

// ListGames returns the games already in the catalog
func (c *APIClient) ListGames() ([]Game, error) {
	var games []Game
	if err := c.do(http.MethodGet, "/admin/games", nil, http.StatusOK, &games); err != nil {
		return nil, fmt.Errorf("list games failed: %w", err)
	}
	return games, nil
}

func (c *APIClient) CreateGame(req GameRequest) (*Game, error) {
	var game Game
	if err := c.do(http.MethodPost, "/admin/games", req, http.StatusCreated, &game); err != nil {
		return nil, fmt.Errorf("create game %q failed: %w", req.NameEn, err)
	}
	return &game, nil
}

func (c *APIClient) DeleteGame(id string) error {
	if err := c.do(http.MethodDelete, "/admin/games/"+id, nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("delete game %s failed: %w", id, err)
	}
	return nil
}

func (c *APIClient) CreateHero(req HeroRequest) (*Hero, error) {
	var hero Hero
	if err := c.do(http.MethodPost, "/admin/heroes", req, http.StatusCreated, &hero); err != nil {
		return nil, fmt.Errorf("create hero %q failed: %w", req.NameEn, err)
	}
	return &hero, nil
}

func (c *APIClient) CreateAccount(req AccountRequest) (*Account, error) {
	var account Account
	if err := c.do(http.MethodPost, "/admin/accounts", req, http.StatusCreated, &account); err != nil {
		return nil, fmt.Errorf("create account %q failed: %w", req.TitleEn, err)
	}
	return &account, nil
}

func (c *APIClient) UpdateSettings(req SettingsRequest) error {
	if err := c.do(http.MethodPut, "/admin/settings", req, http.StatusOK, nil); err != nil {
		return fmt.Errorf("update settings failed: %w", err)
	}
	return nil
}

// HTTP helpers

func (c *APIClient) do(method, path string, body interface{}, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
