package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSelectGame   MessageType = "SELECT_GAME"
	MessageTypePickHero     MessageType = "PICK_HERO"
	MessageTypeRemoveHero   MessageType = "REMOVE_HERO"
	MessageTypeClearHeroes  MessageType = "CLEAR_HEROES"
	MessageTypeSearch       MessageType = "SEARCH"
	MessageTypeLoadMore     MessageType = "LOAD_MORE"
	MessageTypeSetLocale    MessageType = "SET_LOCALE"
	MessageTypeFilterHeroes MessageType = "FILTER_HEROES"
	MessageTypeSyncState    MessageType = "SYNC_STATE"

	// Server to Client
	MessageTypeSessionState     MessageType = "SESSION_STATE"
	MessageTypeGameSelected     MessageType = "GAME_SELECTED"
	MessageTypePaletteUpdated   MessageType = "PALETTE_UPDATED"
	MessageTypeSelectionUpdated MessageType = "SELECTION_UPDATED"
	MessageTypeAccounts         MessageType = "ACCOUNTS"
	MessageTypeNotification     MessageType = "NOTIFICATION"
	MessageTypeError            MessageType = "ERROR"
)

// Error codes
const (
	ErrCodeInvalidPayload     = "INVALID_PAYLOAD"
	ErrCodeUnknownMessage     = "UNKNOWN_MESSAGE"
	ErrCodeGameNotFound       = "GAME_NOT_FOUND"
	ErrCodeNoGame             = "NO_GAME_SELECTED"
	ErrCodeHeroesNotSupported = "HEROES_NOT_SUPPORTED"
	ErrCodeHeroNotFound       = "HERO_NOT_FOUND"
	ErrCodeHeroUnavailable    = "HERO_UNAVAILABLE"
	ErrCodeHeroNotSelected    = "HERO_NOT_SELECTED"
	ErrCodeNoResults          = "NO_RESULTS"
	ErrCodeUnsupportedLocale  = "UNSUPPORTED_LOCALE"
	ErrCodeLoadFailed         = "LOAD_FAILED"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Seq       uint64          `json:"seq,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type SelectGamePayload struct {
	Game string `json:"game"`
}

type HeroPayload struct {
	HeroID string `json:"heroId"`
}

type SetLocalePayload struct {
	Locale string `json:"locale"`
}

type FilterHeroesPayload struct {
	Query string `json:"query"`
}

// Server to Client payloads

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GameSelectedPayload struct {
	Game    catalog.GameView       `json:"game"`
	Palette []catalog.PaletteEntry `json:"palette"`
}

type PalettePayload struct {
	Query   string                 `json:"query"`
	Palette []catalog.PaletteEntry `json:"palette"`
}

type SelectionPayload struct {
	State  SessionState           `json:"state"`
	Picks  []string               `json:"picks"`
	Heroes []catalog.SelectedHero `json:"heroes"`
}

type SessionStatePayload struct {
	State     SessionState           `json:"state"`
	Locale    domain.Locale          `json:"locale"`
	Game      *catalog.GameView      `json:"game,omitempty"`
	Palette   []catalog.PaletteEntry `json:"palette"`
	Selection SelectionPayload       `json:"selection"`
	Accounts  *catalog.AccountsView  `json:"accounts,omitempty"`
}
