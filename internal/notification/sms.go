package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"expoevents-backend/internal/logger"
)

// SMSResult mirrors EmailResult for the SMS channel.
type SMSResult struct {
	Sent   bool   `json:"sent"`
	Mocked bool   `json:"mocked"`
	Error  string `json:"error,omitempty"`
}

// SMSSender delivers one text message.
type SMSSender interface {
	Send(ctx context.Context, mobile, message string) SMSResult
}

type gatewaySMSSender struct {
	gatewayURL     string
	apiKey         string
	senderID       string
	defaultCountry string
	http           *http.Client
}

// NewSMSSender builds the HTTP-gateway-backed sender. An empty gateway URL
// or API key yields a mock sender.
func NewSMSSender(gatewayURL, apiKey, senderID, defaultCountry string) SMSSender {
	if gatewayURL == "" || apiKey == "" {
		return &mockSMSSender{}
	}
	return &gatewaySMSSender{
		gatewayURL:     gatewayURL,
		apiKey:         apiKey,
		senderID:       senderID,
		defaultCountry: defaultCountry,
		http:           &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayRequest struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	SenderID string `json:"senderId,omitempty"`
}

func (s *gatewaySMSSender) Send(ctx context.Context, mobile, message string) SMSResult {
	to := s.normalize(mobile)

	body, err := json.Marshal(gatewayRequest{To: to, Message: message, SenderID: s.senderID})
	if err != nil {
		return SMSResult{Error: err.Error()}
	}

	logger.ExternalServiceCall("sms-gateway", "Send", "to", to)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return SMSResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		logger.ExternalServiceResult("sms-gateway", "Send", err)
		return SMSResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := fmt.Errorf("sms gateway error: status %d", resp.StatusCode)
		logger.ExternalServiceResult("sms-gateway", "Send", err)
		return SMSResult{Error: err.Error()}
	}

	logger.ExternalServiceResult("sms-gateway", "Send", nil, "status", resp.StatusCode)
	return SMSResult{Sent: true}
}

// normalize prefixes bare ten-digit numbers with the default country code.
func (s *gatewaySMSSender) normalize(mobile string) string {
	if len(mobile) == 10 && s.defaultCountry != "" {
		return s.defaultCountry + mobile
	}
	return mobile
}

type mockSMSSender struct{}

func (m *mockSMSSender) Send(ctx context.Context, mobile, message string) SMSResult {
	logger.Info("SMS mocked, no gateway configured", "to", mobile)
	return SMSResult{Mocked: true}
}
