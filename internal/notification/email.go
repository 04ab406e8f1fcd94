// Package notification delivers transactional email and SMS. Both channels
// degrade to a logged mock mode when unconfigured so registration flows
// never fail on missing provider credentials; results carry explicit sent
// flags instead of errors for that case.
package notification

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"expoevents-backend/internal/logger"
)

// EmailResult reports what happened to one email. Mocked is true when no
// provider is configured and the message was only logged.
type EmailResult struct {
	Sent   bool   `json:"sent"`
	Mocked bool   `json:"mocked"`
	Error  string `json:"error,omitempty"`
}

// EmailSender delivers one email. The production implementation is
// SendGrid; tests substitute a recorder.
type EmailSender interface {
	Send(ctx context.Context, to, toName, subject, plainText, htmlContent string) EmailResult
}

type sendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailSender builds the SendGrid-backed sender. An empty API key yields
// a mock sender that logs instead of sending.
func NewEmailSender(apiKey, fromEmail, fromName string) EmailSender {
	if apiKey == "" {
		return &mockEmailSender{}
	}
	return &sendGridSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *sendGridSender) Send(ctx context.Context, to, toName, subject, plainText, htmlContent string) EmailResult {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return EmailResult{Error: err.Error()}
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return EmailResult{Error: err.Error()}
	}

	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return EmailResult{Sent: true}
}

type mockEmailSender struct{}

func (m *mockEmailSender) Send(ctx context.Context, to, toName, subject, plainText, htmlContent string) EmailResult {
	logger.Info("Email mocked, no provider configured", "to", to, "subject", subject)
	return EmailResult{Mocked: true}
}
