package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

var (
	ErrUpstream      = errors.New("completion endpoint returned an error")
	ErrEmptyResponse = errors.New("completion endpoint returned no choices")
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Endpoint identifies an OpenAI-compatible chat completions API.
type Endpoint struct {
	URL    string
	APIKey string
	Model  string
}

type Client struct {
	timeout time.Duration
	http    *fasthttp.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		timeout: timeout,
		http:    &fasthttp.Client{Name: "account-store"},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, ep Endpoint, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := json.Marshal(completionRequest{Model: ep.Model, Messages: messages})
	if err != nil {
		return "", err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(ep.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+ep.APIKey)
	req.SetBody(body)

	if err := c.do(ctx, req, resp); err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	var result completionResponse
	parseErr := json.Unmarshal(resp.Body(), &result)

	if resp.StatusCode() != fasthttp.StatusOK {
		msg := ""
		if parseErr == nil && result.Error != nil {
			msg = result.Error.Message
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode(), msg)
	}
	if parseErr != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, parseErr)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
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
