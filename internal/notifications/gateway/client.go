package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"arenabook/pkg/config"
	"arenabook/pkg/logger"
)

// StatusError is a non-2xx response from the message gateway. Callers use
// the status code to decide whether delivery is worth retrying.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("message gateway returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Client delivers notifications through the external message gateway.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	log         *logger.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:     cfg.MailGatewayURL,
		bearerToken: cfg.MailGatewayToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		log:         cfg.Log,
	}
}

type emailPayload struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

type messagePayload struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

func (c *Client) SendEmail(ctx context.Context, recipient, subject, body string) error {
	return c.post(ctx, "/api/v1/messages/email", emailPayload{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
}

func (c *Client) SendMessage(ctx context.Context, channel, text string) error {
	return c.post(ctx, "/api/v1/messages", messagePayload{
		Channel: channel,
		Text:    text,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach message gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusAccepted {
		trailer, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(trailer)}
	}

	c.log.Debug("Gateway delivery accepted", "path", path, "status", resp.StatusCode)
	return nil
}
