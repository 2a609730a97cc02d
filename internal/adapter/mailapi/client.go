// Package mailapi is the client for the transactional mail provider: a
// plain JSON-over-HTTP API authenticated with a bearer API key. Send
// failures are returned to the caller, which treats them as soft warnings —
// never as order failures.
package mailapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/treedelivery/treedelivery-backend/internal/usecase"
)

type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

// New builds a client with a hard request timeout so a slow provider can
// never stall an order response.
func New(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

func (c *Client) Send(ctx context.Context, m usecase.Email) error {
	body, err := json.Marshal(sendRequest(m))
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

var _ usecase.Mailer = (*Client)(nil)
