// Package sms abstracts the outbound SMS gateway used for OTP delivery. The
// real gateway lives outside this service; the logging stub stands in for it
// in development and tests.
package sms

import (
	"context"
	"log/slog"

	"github.com/sokocart/sokocart/internal/logging"
)

// Sender delivers a text message to a phone number. Implementations must
// respect ctx cancellation; OTP issuance treats a failed send as a hard
// failure.
type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

// LoggerSender is a stub implementation that writes messages to the logger.
type LoggerSender struct {
	logger *slog.Logger
}

// NewLoggerSender constructs a logging SMS stub.
func NewLoggerSender(logger *slog.Logger) *LoggerSender {
	return &LoggerSender{logger: logger}
}

// Send writes the message to the structured logger.
func (s *LoggerSender) Send(_ context.Context, phone, body string) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Info("sms dispatched", "phone", logging.MaskPhone(phone), "body", body)
	return nil
}
