package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/account-store/internal/api/middleware"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"github.com/dom/account-store/internal/service"
	"github.com/dom/account-store/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	adminService    *service.AdminService
	settingsService *service.SettingsService
}

func NewAdminHandler(adminService *service.AdminService, settingsService *service.SettingsService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		settingsService: settingsService,
	}
}

type GameRequest struct {
	NameEn         string `json:"nameEn"`
	NameRu         string `json:"nameRu"`
	DescriptionEn  string `json:"descriptionEn"`
	DescriptionRu  string `json:"descriptionRu"`
	Image          string `json:"image"`
	Slug           string `json:"slug"`
	HasGachaHeroes bool   `json:"hasGachaHeroes"`
}

type HeroRequest struct {
	GameID  string  `json:"gameId"`
	NameEn  string  `json:"nameEn"`
	NameRu  string  `json:"nameRu"`
	Icon    string  `json:"icon"`
	Type    string  `json:"type"`
	Rarity  *int    `json:"rarity"`
	Element *string `json:"element"`
}

type AccountRequest struct {
	GameID         string            `json:"gameId"`
	TitleEn        string            `json:"titleEn"`
	TitleRu        string            `json:"titleRu"`
	DescriptionEn  string            `json:"descriptionEn"`
	DescriptionRu  string            `json:"descriptionRu"`
	Price          decimal.Decimal   `json:"price"`
	Image          string            `json:"image"`
	Server         string            `json:"server"`
	Level          *int              `json:"level"`
	Guaranteed     bool              `json:"guaranteed"`
	HeroIDs        []string          `json:"heroIds"`
	Resources      []domain.Resource `json:"resources"`
	Status         string            `json:"status"`
	MetaTitleEn    string            `json:"metaTitleEn"`
	MetaTitleRu    string            `json:"metaTitleRu"`
	MetaDescEn     string            `json:"metaDescriptionEn"`
	MetaDescRu     string            `json:"metaDescriptionRu"`
	MetaKeywordsEn string            `json:"metaKeywordsEn"`
	MetaKeywordsRu string            `json:"metaKeywordsRu"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type OrdersResponse struct {
	Orders []*domain.Order `json:"orders"`
	Total  int64           `json:"total"`
}

type DashboardResponse struct {
	Accounts     int64           `json:"accounts"`
	Games        int64           `json:"games"`
	Orders       int64           `json:"orders"`
	RecentOrders []*domain.Order `json:"recentOrders"`
}

type SettingsRequest struct {
	TelegramBotToken string `json:"telegramBotToken"`
	TelegramChatID   string `json:"telegramChatId"`
	AIAPIKey         string `json:"aiApiKey"`
	AIAPIURL         string `json:"aiApiUrl"`
	AIModel          string `json:"aiModel"`
}

// Games

func (h *AdminHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.adminService.ListGames(r.Context())
	if err != nil {
		adminError(w, r, "ListGames", err)
		return
	}
	respondJSON(w, http.StatusOK, games)
}

func (h *AdminHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.adminService.CreateGame(r.Context(), req.input())
	if err != nil {
		adminError(w, r, "CreateGame", err)
		return
	}
	respondJSON(w, http.StatusCreated, game)
}

func (h *AdminHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game, err := h.adminService.UpdateGame(r.Context(), id, req.input())
	if err != nil {
		adminError(w, r, "UpdateGame", err)
		return
	}
	respondJSON(w, http.StatusOK, game)
}

func (h *AdminHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	if err := h.adminService.DeleteGame(r.Context(), id); err != nil {
		adminError(w, r, "DeleteGame", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req GameRequest) input() service.GameInput {
	return service.GameInput{
		NameEn:         req.NameEn,
		NameRu:         req.NameRu,
		DescriptionEn:  req.DescriptionEn,
		DescriptionRu:  req.DescriptionRu,
		Image:          req.Image,
		Slug:           req.Slug,
		HasGachaHeroes: req.HasGachaHeroes,
	}
}

// Heroes

func (h *AdminHandler) ListHeroes(w http.ResponseWriter, r *http.Request) {
	gameID, ok := optionalGameID(r)
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	heroes, err := h.adminService.ListHeroes(r.Context(), gameID)
	if err != nil {
		adminError(w, r, "ListHeroes", err)
		return
	}
	respondJSON(w, http.StatusOK, heroes)
}

func (h *AdminHandler) CreateHero(w http.ResponseWriter, r *http.Request) {
	var req HeroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	in, ok := req.input()
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	hero, err := h.adminService.CreateHero(r.Context(), in)
	if err != nil {
		adminError(w, r, "CreateHero", err)
		return
	}
	respondJSON(w, http.StatusCreated, hero)
}

func (h *AdminHandler) UpdateHero(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid hero ID", http.StatusBadRequest)
		return
	}

	var req HeroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	in, ok := req.input()
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	hero, err := h.adminService.UpdateHero(r.Context(), id, in)
	if err != nil {
		adminError(w, r, "UpdateHero", err)
		return
	}
	respondJSON(w, http.StatusOK, hero)
}

func (h *AdminHandler) DeleteHero(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid hero ID", http.StatusBadRequest)
		return
	}

	if err := h.adminService.DeleteHero(r.Context(), id); err != nil {
		adminError(w, r, "DeleteHero", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req HeroRequest) input() (service.HeroInput, bool) {
	gameID, err := uuid.Parse(req.GameID)
	if err != nil {
		return service.HeroInput{}, false
	}
	return service.HeroInput{
		GameID:  gameID,
		NameEn:  req.NameEn,
		NameRu:  req.NameRu,
		Icon:    req.Icon,
		Type:    domain.HeroType(req.Type),
		Rarity:  req.Rarity,
		Element: req.Element,
	}, true
}

// Accounts

func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	gameID, ok := optionalGameID(r)
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	filter := repository.AccountFilter{GameID: gameID}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.AccountStatus(s)
		if !status.Valid() {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}

	accounts, err := h.adminService.ListAccounts(r.Context(), filter)
	if err != nil {
		adminError(w, r, "ListAccounts", err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *AdminHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	account, err := h.adminService.GetAccount(r.Context(), id)
	if err != nil {
		adminError(w, r, "GetAccount", err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	in, ok := req.input()
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	account, err := h.adminService.CreateAccount(r.Context(), in)
	if err != nil {
		adminError(w, r, "CreateAccount", err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

func (h *AdminHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	in, ok := req.input()
	if !ok {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	account, err := h.adminService.UpdateAccount(r.Context(), id, in)
	if err != nil {
		adminError(w, r, "UpdateAccount", err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) UpdateAccountStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.adminService.UpdateAccountStatus(r.Context(), id, domain.AccountStatus(req.Status))
	if err != nil {
		adminError(w, r, "UpdateAccountStatus", err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	if err := h.adminService.DeleteAccount(r.Context(), id); err != nil {
		adminError(w, r, "DeleteAccount", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req AccountRequest) input() (service.AccountInput, bool) {
	gameID, err := uuid.Parse(req.GameID)
	if err != nil {
		return service.AccountInput{}, false
	}
	return service.AccountInput{
		GameID:         gameID,
		TitleEn:        req.TitleEn,
		TitleRu:        req.TitleRu,
		DescriptionEn:  req.DescriptionEn,
		DescriptionRu:  req.DescriptionRu,
		Price:          req.Price,
		Image:          req.Image,
		Server:         req.Server,
		Level:          req.Level,
		Guaranteed:     req.Guaranteed,
		HeroIDs:        req.HeroIDs,
		Resources:      req.Resources,
		Status:         domain.AccountStatus(req.Status),
		MetaTitleEn:    req.MetaTitleEn,
		MetaTitleRu:    req.MetaTitleRu,
		MetaDescEn:     req.MetaDescEn,
		MetaDescRu:     req.MetaDescRu,
		MetaKeywordsEn: req.MetaKeywordsEn,
		MetaKeywordsRu: req.MetaKeywordsRu,
	}, true
}

// Orders and dashboard

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.adminService.ListOrders(r.Context(), queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		adminError(w, r, "ListOrders", err)
		return
	}
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: page.Orders, Total: page.Total})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.adminService.Dashboard(r.Context())
	if err != nil {
		adminError(w, r, "Dashboard", err)
		return
	}
	respondJSON(w, http.StatusOK, DashboardResponse{
		Accounts:     d.Accounts,
		Games:        d.Games,
		Orders:       d.Orders,
		RecentOrders: d.RecentOrders,
	})
}

// Settings

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settingsService.Get(r.Context())
	if err != nil {
		adminError(w, r, "GetSettings", err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg, err := h.settingsService.Update(r.Context(), service.SettingsInput{
		TelegramBotToken: req.TelegramBotToken,
		TelegramChatID:   req.TelegramChatID,
		AIAPIKey:         req.AIAPIKey,
		AIAPIURL:         req.AIAPIURL,
		AIModel:          req.AIModel,
	})
	if err != nil {
		adminError(w, r, "UpdateSettings", err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func optionalGameID(r *http.Request) (*uuid.UUID, bool) {
	raw := r.URL.Query().Get("gameId")
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// adminError maps service errors to plain-text responses.
func adminError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		http.Error(w, "Game not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrHeroNotFound):
		http.Error(w, "Hero not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrSlugTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrMissingName),
		errors.Is(err, domain.ErrInvalidHeroType),
		errors.Is(err, domain.ErrInvalidAccountStatus),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrInvalidRoster),
		errors.Is(err, storage.ErrUnsupportedMimeType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrUploadsDisabled):
		http.Error(w, "Uploads are not configured", http.StatusServiceUnavailable)
	default:
		log.Printf("ERROR [handler.%s] operator=%s: %v", op, middleware.GetOperatorEmail(r.Context()), err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
