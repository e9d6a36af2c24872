// Package mail delivers rendered digests through the Resend email API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dealsight/dealsight/internal/domain"
)

type ResendClient struct {
	baseURL   string
	apiKey    string
	fromEmail string
	client    *http.Client
	logger    *zap.Logger
}

func NewResendClient(baseURL, apiKey, fromEmail string, timeout time.Duration, logger *zap.Logger) *ResendClient {
	return &ResendClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		fromEmail: fromEmail,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

type sendEmailResponse struct {
	ID string `json:"id"`
}

// Send posts the digest to the email API and returns the provider's
// delivery id. Any caller-side deadline rides in on ctx; retrying is the
// caller's concern, not this client's.
func (c *ResendClient) Send(ctx context.Context, user domain.User, content domain.RenderedContent) (string, error) {
	payload, err := json.Marshal(sendEmailRequest{
		From:    c.fromEmail,
		To:      []string{user.Email},
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/emails"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("email send failed", zap.String("to", user.Email), zap.Error(err))
		return "", err
	}
	defer response.Body.Close()

	c.logger.Info(
		"email send complete",
		zap.String("to", user.Email),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("email api error: status %d", response.StatusCode)
	}

	var decoded sendEmailResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode email response: %w", err)
	}
	if decoded.ID == "" {
		return "", fmt.Errorf("email api returned no delivery id")
	}
	return decoded.ID, nil
}
