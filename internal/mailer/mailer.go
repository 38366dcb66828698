// Package mailer sends transactional email. The SES transport is used in
// production; the simulation transport logs instead of sending and backs
// demo mode and tests.
package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Message is a single outbound email
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SimulationMailer logs messages instead of delivering them
type SimulationMailer struct {
	logger *zap.Logger
}

func NewSimulationMailer(logger *zap.Logger) *SimulationMailer {
	return &SimulationMailer{logger: logger}
}

func (m *SimulationMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("Simulated email dispatch",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
