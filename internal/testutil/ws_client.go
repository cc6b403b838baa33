package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/account-store/internal/catalog"
	"github.com/dom/account-store/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client driving one browse session
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.errors <- err
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Send writes one client message
func (c *WSClient) Send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build %s: %v", msgType, err)
	}
	c.SendRaw(msg)
}

// SendRaw writes msg as is
func (c *WSClient) SendRaw(msg interface{}) {
	c.t.Helper()

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

func (c *WSClient) SelectGame(ref string) {
	c.Send(websocket.MessageTypeSelectGame, websocket.SelectGamePayload{Game: ref})
}

func (c *WSClient) PickHero(heroID string) {
	c.Send(websocket.MessageTypePickHero, websocket.HeroPayload{HeroID: heroID})
}

func (c *WSClient) RemoveHero(heroID string) {
	c.Send(websocket.MessageTypeRemoveHero, websocket.HeroPayload{HeroID: heroID})
}

func (c *WSClient) ClearHeroes() {
	c.Send(websocket.MessageTypeClearHeroes, nil)
}

func (c *WSClient) Search() {
	c.Send(websocket.MessageTypeSearch, nil)
}

func (c *WSClient) LoadMore() {
	c.Send(websocket.MessageTypeLoadMore, nil)
}

func (c *WSClient) SetLocale(locale string) {
	c.Send(websocket.MessageTypeSetLocale, websocket.SetLocalePayload{Locale: locale})
}

func (c *WSClient) FilterHeroes(query string) {
	c.Send(websocket.MessageTypeFilterHeroes, websocket.FilterHeroesPayload{Query: query})
}

func (c *WSClient) SyncState() {
	c.Send(websocket.MessageTypeSyncState, nil)
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

func (c *WSClient) expect(msgType websocket.MessageType, timeout time.Duration, v interface{}) {
	c.t.Helper()

	msg := c.ExpectMessage(msgType, timeout)
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		c.t.Fatalf("failed to decode %s payload: %v", msgType, err)
	}
}

// ExpectSessionState waits for and decodes a SESSION_STATE message
func (c *WSClient) ExpectSessionState(timeout time.Duration) *websocket.SessionStatePayload {
	c.t.Helper()

	var payload websocket.SessionStatePayload
	c.expect(websocket.MessageTypeSessionState, timeout, &payload)
	return &payload
}

// ExpectGameSelected waits for and decodes a GAME_SELECTED message
func (c *WSClient) ExpectGameSelected(timeout time.Duration) *websocket.GameSelectedPayload {
	c.t.Helper()

	var payload websocket.GameSelectedPayload
	c.expect(websocket.MessageTypeGameSelected, timeout, &payload)
	return &payload
}

// ExpectPalette waits for and decodes a PALETTE_UPDATED message
func (c *WSClient) ExpectPalette(timeout time.Duration) *websocket.PalettePayload {
	c.t.Helper()

	var payload websocket.PalettePayload
	c.expect(websocket.MessageTypePaletteUpdated, timeout, &payload)
	return &payload
}

// ExpectSelection waits for and decodes a SELECTION_UPDATED message
func (c *WSClient) ExpectSelection(timeout time.Duration) *websocket.SelectionPayload {
	c.t.Helper()

	var payload websocket.SelectionPayload
	c.expect(websocket.MessageTypeSelectionUpdated, timeout, &payload)
	return &payload
}

// ExpectAccounts waits for and decodes an ACCOUNTS message
func (c *WSClient) ExpectAccounts(timeout time.Duration) *catalog.AccountsView {
	c.t.Helper()

	var payload catalog.AccountsView
	c.expect(websocket.MessageTypeAccounts, timeout, &payload)
	return &payload
}

// ExpectNotification waits for and decodes a NOTIFICATION message
func (c *WSClient) ExpectNotification(timeout time.Duration) *catalog.NotificationView {
	c.t.Helper()

	var payload catalog.NotificationView
	c.expect(websocket.MessageTypeNotification, timeout, &payload)
	return &payload
}

// ExpectError waits for and decodes an ERROR message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	var payload websocket.ErrorPayload
	c.expect(websocket.MessageTypeError, timeout, &payload)
	return &payload
}

// ExpectErrorWithCode waits for an error with a specific code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	payload := c.ExpectError(timeout)
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s: %s", code, payload.Code, payload.Message)
	}

	return payload
}

// ExpectNoMessage verifies no messages other than notifications arrive within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
			if msg.Type != websocket.MessageTypeNotification {
				c.t.Fatalf("unexpected message received: %s", msg.Type)
			}
		case <-deadline:
			return
		}
	}
}

// DrainMessages drains everything buffered once the channel settles
func (c *WSClient) DrainMessages() {
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
			deadline = time.After(50 * time.Millisecond)
		case <-deadline:
			return
		case <-c.done:
			return
		}
	}
}
