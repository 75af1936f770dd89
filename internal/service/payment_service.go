package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"goclean-be-svc/pkg/logger"
)

// MayarConfig holds Mayar API configuration
type MayarConfig struct {
	AuthKey     string
	BaseURL     string
	RedirectURL string
}

// MayarCustomer identifies who pays a payment link
type MayarCustomer struct {
	Name   string
	Email  string
	Mobile string
}

// MayarPaymentRequest represents the body of a Mayar payment-link request
type MayarPaymentRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Mobile      string `json:"mobile"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Description string `json:"description"`
	ExpiredAt   string `json:"expiredAt,omitempty"`
}

// MayarPaymentResponse represents the Mayar payment-link response
type MayarPaymentResponse struct {
	StatusCode int    `json:"statusCode"`
	Messages   string `json:"messages"`
	Data       struct {
		ID            string `json:"id"`
		TransactionID string `json:"transaction_id"`
		Link          string `json:"link"`
	} `json:"data"`
}

// PaymentLink is a created payment link with the gateway's reference
type PaymentLink struct {
	URL       string
	Reference string
}

// PaymentGateway defines the interface for creating hosted payment links
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, amount int64, description string, customer MayarCustomer) (*PaymentLink, error)
}

// mayarService implements PaymentGateway against the Mayar headless API
type mayarService struct {
	config MayarConfig
	client *http.Client
	logger *logger.Logger
	now    func() time.Time
}

// NewMayarService creates a new instance of the Mayar payment gateway
func NewMayarService(config MayarConfig, logger *logger.Logger) PaymentGateway {
	return &mayarService{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreatePaymentLink creates a payment link valid for 24 hours
func (m *mayarService) CreatePaymentLink(ctx context.Context, amount int64, description string, customer MayarCustomer) (*PaymentLink, error) {
	if m.config.AuthKey == "" {
		return nil, fmt.Errorf("mayar credentials not configured")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	payload := MayarPaymentRequest{
		Name:        customer.Name,
		Email:       customer.Email,
		Amount:      amount,
		Mobile:      customer.Mobile,
		RedirectURL: m.config.RedirectURL,
		Description: description,
		ExpiredAt:   m.now().Add(24 * time.Hour).Format(time.RFC3339),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := strings.TrimRight(m.config.BaseURL, "/") + "/payment/create"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.config.AuthKey)

	m.logger.WithFields(map[string]interface{}{
		"url":         url,
		"amount":      amount,
		"description": description,
	}).Info("Creating Mayar payment link")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.logger.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"response":    string(raw),
		}).Error("Mayar API returned an error")
		return nil, fmt.Errorf("mayar API returned status %d", resp.StatusCode)
	}

	var parsed MayarPaymentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Data.Link == "" {
		m.logger.WithField("response", string(raw)).Error("Payment URL not found in response")
		return nil, fmt.Errorf("payment URL not found in response")
	}

	reference := parsed.Data.ID
	if reference == "" {
		reference = parsed.Data.TransactionID
	}

	m.logger.WithFields(map[string]interface{}{
		"amount":      amount,
		"payment_url": parsed.Data.Link,
		"reference":   reference,
	}).Info("Mayar payment link created successfully")

	return &PaymentLink{URL: parsed.Data.Link, Reference: reference}, nil
}
