// Package notify defines the user-facing notice surface: a transient,
// auto-dismissing message with a severity, delivered through a Sink.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Severity indicates how a notice should be presented.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a single user-facing message.
type Notice struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Sink receives notices. Implementations must be safe for the
// single-goroutine-per-interaction call pattern the services use.
type Sink interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// ZapSink logs notices; used for background flows with no user to show them to.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a Sink that writes notices to the given logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Notify logs the notice at a level matching its severity.
func (s *ZapSink) Notify(_ context.Context, severity Severity, message string) {
	switch severity {
	case SeverityError:
		s.logger.Error("notice", zap.String("severity", string(severity)), zap.String("message", message))
	case SeverityWarning:
		s.logger.Warn("notice", zap.String("severity", string(severity)), zap.String("message", message))
	default:
		s.logger.Info("notice", zap.String("severity", string(severity)), zap.String("message", message))
	}
}

// Collector gathers notices so a transport can return them in a response.
// One Collector serves one interaction; it is not goroutine-safe.
type Collector struct {
	notices []Notice
}

// Notify records the notice.
func (c *Collector) Notify(_ context.Context, severity Severity, message string) {
	c.notices = append(c.notices, Notice{Message: message, Severity: severity})
}

// Notices returns the collected notices in arrival order.
func (c *Collector) Notices() []Notice { return c.notices }

// First returns the first collected notice, or nil when none arrived.
func (c *Collector) First() *Notice {
	if len(c.notices) == 0 {
		return nil
	}
	return &c.notices[0]
}
