package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/dom/account-store/internal/llm"
)

// SentMessage is one message captured by FakeSender.
type SentMessage struct {
	Token  string
	ChatID string
	Text   string
}

// FakeSender records operator messages instead of calling Telegram.
type FakeSender struct {
	mu   sync.Mutex
	Err  error
	sent []SentMessage
}

func (f *FakeSender) SendMessage(ctx context.Context, token, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.sent = append(f.sent, SentMessage{Token: token, ChatID: chatID, Text: text})
	return nil
}

func (f *FakeSender) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

func (f *FakeSender) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage(nil), f.sent...)
}

// FakeCompleter answers every chat completion with Reply or Err.
type FakeCompleter struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	requests [][]llm.Message
}

func (f *FakeCompleter) Complete(ctx context.Context, ep llm.Endpoint, messages []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, messages)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

func (f *FakeCompleter) SetReply(reply string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reply = reply
}

func (f *FakeCompleter) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Err = err
}

func (f *FakeCompleter) Requests() [][]llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]llm.Message(nil), f.requests...)
}

// FakeUploader keeps uploaded objects in memory.
type FakeUploader struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
}

func (f *FakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Objects == nil {
		f.Objects = make(map[string][]byte)
	}
	f.Objects[key] = data
	return f.BaseURL + "/" + key, nil
}
