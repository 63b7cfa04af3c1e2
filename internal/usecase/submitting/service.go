// Package submitting runs the scan request submission state machine:
// Idle -> Validating -> Submitting -> (Success | Failed) -> Idle,
// with single-flight semantics per client.
package submitting

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/domain"
	"github.com/neuroscape/nicsite/internal/domain/scanrequest"
	"github.com/neuroscape/nicsite/internal/logger"
	"github.com/neuroscape/nicsite/internal/metrics"
	"github.com/neuroscape/nicsite/internal/notify"
)

// validationNotice is the single generic message shown for any
// validation failure; individual field errors are not itemized.
const validationNotice = "Please fill in all required fields correctly."

// Outcome reports a completed submission.
type Outcome struct {
	reference string
}

// Reference returns the generated reference number (NIC-YYYYMMDD-RRRR).
func (o *Outcome) Reference() string { return o.reference }

// Service coordinates scan request submissions.
type Service struct {
	mailer Mailer
	drafts DraftStore

	now    func() time.Time
	suffix func() int

	mu       sync.Mutex
	inFlight map[string]bool
}

// New creates a submission service.
func New(mailer Mailer, drafts DraftStore) *Service {
	return &Service{
		mailer:   mailer,
		drafts:   drafts,
		now:      time.Now,
		suffix:   func() int { return rand.IntN(10000) },
		inFlight: make(map[string]bool),
	}
}

// WithClock overrides time and reference-suffix sources (tests).
func (s *Service) WithClock(now func() time.Time, suffix func() int) *Service {
	s.now = now
	s.suffix = suffix
	return s
}

// InFlight reports whether a submission is currently running for the client.
func (s *Service) InFlight(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[clientID]
}

// Submit validates the fields and delivers them to the mail provider.
//
// A submission already in flight for the same client is refused outright
// with ErrSubmissionInFlight: no validation runs and no notice is sent.
// A honeypot hit returns ErrBotDetected with no notice either; real
// validation failures send one generic notice. The in-flight flag is
// cleared on every exit path from the delivery phase.
func (s *Service) Submit(
	ctx context.Context, clientID string, fields scanrequest.Fields, sink notify.Sink,
) (Outcome, error) {
	// Guard, validation, and lock acquisition are one critical section so
	// two overlapping submissions can never both pass the guard.
	s.mu.Lock()
	if s.inFlight[clientID] {
		s.mu.Unlock()
		metrics.SubmissionsTotal.WithLabelValues("in_flight").Inc()
		return Outcome{}, domain.ErrSubmissionInFlight
	}

	if err := scanrequest.Validate(fields); err != nil {
		s.mu.Unlock()
		if errors.Is(err, domain.ErrBotDetected) {
			// Silent by design: a bot gets no feedback, a dropped event.
			metrics.SubmissionsTotal.WithLabelValues("bot").Inc()
			logger.FromContext(ctx).Info("honeypot triggered, dropping submission",
				zap.String("client_id", clientID),
			)
			return Outcome{}, err
		}
		metrics.SubmissionsTotal.WithLabelValues("validation_failed").Inc()
		sink.Notify(ctx, notify.SeverityError, validationNotice)
		return Outcome{}, err
	}

	s.inFlight[clientID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, clientID)
		s.mu.Unlock()
	}()

	now := s.now()
	reference := scanrequest.Reference(now, s.suffix())
	params := scanrequest.MailParams(fields, reference, now)

	if err := s.mailer.Send(ctx, params); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("delivery_failed").Inc()
		logger.FromContext(ctx).Error("scan request delivery failed",
			zap.String("client_id", clientID),
			zap.String("reference", reference),
			zap.Error(err),
		)
		sink.Notify(ctx, notify.SeverityError, failureNotice(err))
		return Outcome{}, fmt.Errorf("send scan request: %w", err)
	}

	// The draft is only cleared on confirmed delivery; a failed attempt
	// keeps the user's work.
	if err := s.drafts.Clear(ctx, clientID); err != nil {
		logger.FromContext(ctx).Warn("failed to clear draft after delivery",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
	}

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	sink.Notify(ctx, notify.SeveritySuccess,
		"Request submitted successfully! Reference: "+reference)
	return Outcome{reference: reference}, nil
}

// failureNotice maps delivery errors to user-facing guidance. The
// mapping is advisory; the state machine does not branch on error kind.
func failureNotice(err error) string {
	const prefix = "Failed to submit request. "
	switch {
	case errors.Is(err, domain.ErrMailUnreachable):
		return prefix + "No internet connection. Please check your network."
	case errors.Is(err, domain.ErrMailConfig):
		return prefix + "Email service configuration error. Please contact support."
	case errors.Is(err, domain.ErrMailTemplate):
		return prefix + "Invalid email template configuration. Please contact support."
	case errors.Is(err, domain.ErrMailAuth):
		return prefix + "Email service authentication failed. Please contact support."
	default:
		return prefix + "Please try again or contact us directly."
	}
}
