package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrNetworkError indicates the mail API could not be reached
	ErrNetworkError = errors.New("mail: network error")
	// ErrSendFailed indicates the mail API rejected the message
	ErrSendFailed = errors.New("mail: send failed")
	// ErrNotConfigured indicates the API key is missing
	ErrNotConfigured = errors.New("mail: api key not configured")
)

// Config holds the Resend API settings
type Config struct {
	APIKey  string
	BaseURL string // e.g. https://api.resend.com
	From    string // e.g. "Auto Service van der Waals <onboarding@resend.dev>"
}

// Client sends transactional mail through the Resend HTTP API
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Message is one outgoing mail
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send delivers one message. The returned id is the provider message id.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if c.config.APIKey == "" {
		return "", ErrNotConfigured
	}

	reqBody, err := json.Marshal(sendRequest{
		From:    c.config.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal send request: %w", err)
	}

	endpoint := c.config.BaseURL + "/emails"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var sendResp sendResponse
	if err := json.Unmarshal(body, &sendResp); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to unmarshal send response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if sendResp.Message != "" {
			return "", fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, sendResp.Message)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, string(body))
	}

	return sendResp.ID, nil
}
