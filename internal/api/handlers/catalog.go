package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dom/account-store/internal/api/middleware"
	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type PaletteResponse struct {
	GameID string                 `json:"gameId"`
	Heroes []catalog.PaletteEntry `json:"heroes"`
}

type AccountHeroesResponse struct {
	AccountID  string             `json:"accountId"`
	Heroes     []catalog.HeroView `json:"heroes"`
	RosterSize int                `json:"rosterSize"`
}

type ContactMethodResponse struct {
	Value domain.ContactMethod `json:"value"`
	Label string               `json:"label"`
}

func (h *CatalogHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	games, err := h.catalogService.ListGames(r.Context(), locale, r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("ERROR [handler.ListGames]: %v", err)
		http.Error(w, "Failed to get games", http.StatusInternalServerError)
		return
	}

	resp := make([]catalog.GameView, len(games))
	for i, g := range games {
		resp[i] = catalog.NewGameView(g.Game, g.AccountCount, locale)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())
	ref := chi.URLParam(r, "idOrSlug")

	summary, err := h.catalogService.GameSummary(r.Context(), ref)
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [handler.GetGame] ref=%s: %v", ref, err)
		http.Error(w, "Failed to get game", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, catalog.NewGameView(summary.Game, summary.AccountCount, locale))
}

// Heroes returns the game's hero palette with availability flags.
func (h *CatalogHandler) Heroes(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	game, ok := h.game(w, r)
	if !ok {
		return
	}

	palette, err := h.catalogService.Palette(r.Context(), game.ID, locale, r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("ERROR [handler.Heroes] gameID=%s: %v", game.ID, err)
		http.Error(w, "Failed to get heroes", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, PaletteResponse{
		GameID: game.ID.String(),
		Heroes: catalog.NewPalette(palette, locale),
	})
}

// Accounts filters the game's active accounts by ?heroes=a,a,b and returns
// the first ?page= pages of matches.
func (h *CatalogHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	var picks []string
	if raw := r.URL.Query().Get("heroes"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				picks = append(picks, id)
			}
		}
	}

	result, err := h.catalogService.SearchAccounts(r.Context(), service.SearchInput{
		Game:  chi.URLParam(r, "idOrSlug"),
		Picks: picks,
		Page:  queryInt(r, "page", 1),
	})
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR [handler.Accounts] game=%s: %v", chi.URLParam(r, "idOrSlug"), err)
		http.Error(w, "Failed to get accounts", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, catalog.NewAccountsView(result.State, result.Window, locale))
}

func (h *CatalogHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	account, ok := h.account(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, catalog.NewAccountDetail(account, account.Game, locale))
}

// AccountHeroes lists every unique hero on an account with its copy count.
func (h *CatalogHandler) AccountHeroes(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	account, ok := h.account(w, r)
	if !ok {
		return
	}

	badges := catalog.UniqueHeroes(account.Roster)
	heroes := make([]catalog.HeroView, len(badges))
	for i, b := range badges {
		heroes[i] = catalog.NewHeroView(b.Hero, b.Count, locale)
	}
	respondJSON(w, http.StatusOK, AccountHeroesResponse{
		AccountID:  account.ID.String(),
		Heroes:     heroes,
		RosterSize: len(account.Roster),
	})
}

func (h *CatalogHandler) ContactMethods(w http.ResponseWriter, r *http.Request) {
	locale := middleware.GetLocale(r.Context())

	resp := make([]ContactMethodResponse, len(domain.ContactMethods))
	for i, m := range domain.ContactMethods {
		resp[i] = ContactMethodResponse{Value: m, Label: m.Label(locale)}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) game(w http.ResponseWriter, r *http.Request) (*domain.Game, bool) {
	ref := chi.URLParam(r, "idOrSlug")
	game, err := h.catalogService.GetGame(r.Context(), ref)
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return nil, false
		}
		log.Printf("ERROR [handler.game] ref=%s: %v", ref, err)
		http.Error(w, "Failed to get game", http.StatusInternalServerError)
		return nil, false
	}
	return game, true
}

func (h *CatalogHandler) account(w http.ResponseWriter, r *http.Request) (*catalog.Account, bool) {
	id, ok := uuidParam(r, "id")
	if !ok {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return nil, false
	}

	account, err := h.catalogService.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return nil, false
		}
		log.Printf("ERROR [handler.account] id=%s: %v", id, err)
		http.Error(w, "Failed to get account", http.StatusInternalServerError)
		return nil, false
	}
	return account, true
}
