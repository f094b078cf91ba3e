// Package notify sends customer notifications through an external messaging
// gateway. The gateway exposes one endpoint per channel and accepts a JSON
// body with the recipient and rendered message.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codship/internal/core/domain/model/notification"
)

const defaultTimeout = 10 * time.Second

// Gateway implements ports.Notifier over HTTP.
type Gateway struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

type sendRequest struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	OrderID   string `json:"orderId"`
	Type      string `json:"type"`
}

// NewGateway creates a notification gateway client. A non-positive timeout
// falls back to the default.
func NewGateway(baseURL, apiKey string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
	}
}

// Send delivers one intent over its channel. The call carries its own
// timeout on top of the caller's context so a stuck gateway cannot block
// the dispatcher run.
func (g *Gateway) Send(ctx context.Context, intent notification.Intent) error {
	if err := intent.Channel.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	body, err := json.Marshal(sendRequest{
		Recipient: intent.Recipient,
		Message:   intent.Template,
		OrderID:   intent.OrderID.String(),
		Type:      intent.Type,
	})
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	url := fmt.Sprintf("%s/send/%s", g.baseURL, string(intent.Channel))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("notification gateway request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification gateway returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}
