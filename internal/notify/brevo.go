package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type BrevoConfig struct {
	APIKey      string
	URL         string
	SenderName  string
	SenderEmail string
}

// BrevoSender posts to the Brevo transactional email API (v3 /smtp/email).
type BrevoSender struct {
	cfg    BrevoConfig
	client *http.Client
}

func NewBrevoSender(cfg BrevoConfig, client *http.Client) *BrevoSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &BrevoSender{cfg: cfg, client: client}
}

type brevoContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoRequest struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

func (s *BrevoSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(brevoRequest{
		Sender:      brevoContact{Name: s.cfg.SenderName, Email: s.cfg.SenderEmail},
		To:          []brevoContact{{Email: to, Name: "Buyer"}},
		Subject:     subject,
		HTMLContent: htmlBody,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo responded %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
