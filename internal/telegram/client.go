package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const DefaultAPIURL = "https://api.telegram.org"

var ErrRejected = errors.New("telegram rejected the message")

// Client posts messages through the Bot API.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &fasthttp.Client{Name: "account-store"},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers an HTML-formatted message to chatID. It makes exactly
// one attempt.
func (c *Client) SendMessage(ctx context.Context, token, chatID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, token))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.do(ctx, req, resp); err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}

	var result apiResponse
	_ = json.Unmarshal(resp.Body(), &result)

	if resp.StatusCode() != fasthttp.StatusOK || !result.OK {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode(), result.Description)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.http.DoDeadline(req, resp, deadline)
	}
	if c.timeout > 0 {
		return c.http.DoTimeout(req, resp, c.timeout)
	}
	return c.http.Do(req, resp)
}
