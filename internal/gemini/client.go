// Package gemini is a minimal client for the generateContent endpoint of the
// generative language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yasinhessnawi1/chatbridge/internal/config"
	"github.com/yasinhessnawi1/chatbridge/internal/constants"
	"github.com/yasinhessnawi1/chatbridge/internal/models"
)

var (
	// ErrNoAPIKey is returned by NewClient when no key is configured.
	ErrNoAPIKey = errors.New("gemini api key not configured")

	// ErrMalformedResponse is returned when the reply holds an empty
	// candidate or part list.
	ErrMalformedResponse = errors.New("malformed gemini response")
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 1024

// Client sends conversations to a generative model.
type Client struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

type generateRequest struct {
	Contents models.ChatHistory `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []models.ChatPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewClient creates a client from the chat settings. Unset values fall back to
// the public endpoint and default model.
func NewClient(cfg *config.ChatSettings) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNoAPIKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.DefaultChatBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = constants.DefaultChatModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultChatTimeout
	}

	return &Client{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		BaseURL: baseURL,
		Model:   model,
		Client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// endpoint builds the generateContent URL. The key travels as a query
// parameter, so the URL must never be logged.
func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.BaseURL, url.PathEscape(c.Model), url.QueryEscape(c.APIKey))
}

// GenerateContent sends the whole conversation and returns the text of the
// first candidate. A well-formed response without any text yields the blocked
// reply rather than an error.
func (c *Client) GenerateContent(ctx context.Context, history models.ChatHistory) (string, error) {
	if c == nil {
		return "", fmt.Errorf("gemini client is nil")
	}

	body, err := json.Marshal(generateRequest{Contents: history})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", redactKey(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("gemini error: status=%d latency=%s response=%s",
			resp.StatusCode, time.Since(startTime), strings.TrimSpace(string(payload)))
	}

	var res generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	return firstText(&res)
}

// firstText picks the text of the first part of the first candidate. Absent
// fields yield the blocked-response text; an empty list is malformed.
func firstText(res *generateResponse) (string, error) {
	if res.Candidates == nil {
		return constants.MsgChatResponseBlocked, nil
	}
	if len(res.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty candidates", ErrMalformedResponse)
	}

	parts := res.Candidates[0].Content.Parts
	if parts == nil {
		return constants.MsgChatResponseBlocked, nil
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: empty parts", ErrMalformedResponse)
	}

	if parts[0].Text == "" {
		return constants.MsgChatResponseBlocked, nil
	}
	return parts[0].Text, nil
}

// redactKey strips the request URL from transport errors so the key does not
// end up in logs.
func redactKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
