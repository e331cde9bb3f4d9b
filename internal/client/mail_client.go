package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// MailClient sends transactional email.
type MailClient interface {
	SendEmail(ctx context.Context, recipientEmail, subject, htmlContent string) error
}

type brevoParty struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

// brevoMailClient talks to the Brevo transactional email REST API.
type brevoMailClient struct {
	baseURL     string
	apiKey      string
	senderEmail string
	senderName  string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewBrevoMailClient creates a Brevo API client.
func NewBrevoMailClient(apiKey, senderEmail, senderName string, logger *zap.Logger) MailClient {
	return &brevoMailClient{
		baseURL:     "https://api.brevo.com/v3",
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *brevoMailClient) SendEmail(ctx context.Context, recipientEmail, subject, htmlContent string) error {
	url := fmt.Sprintf("%s/smtp/email", c.baseURL)

	body := brevoSendRequest{
		Sender:      brevoParty{Email: c.senderEmail, Name: c.senderName},
		To:          []brevoParty{{Email: recipientEmail}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send email",
			zap.Error(err),
			zap.String("recipient", recipientEmail),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Mail provider returned non-success status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("recipient", recipientEmail),
			zap.ByteString("body", respBody),
		)
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}

	c.logger.Info("Email sent",
		zap.String("recipient", recipientEmail),
		zap.String("subject", subject),
	)
	return nil
}

// NoOpMailClient discards all mail. Used in tests and local setups with no
// API key configured.
type NoOpMailClient struct{}

func NewNoOpMailClient() MailClient {
	return &NoOpMailClient{}
}

func (c *NoOpMailClient) SendEmail(ctx context.Context, recipientEmail, subject, htmlContent string) error {
	return nil
}
