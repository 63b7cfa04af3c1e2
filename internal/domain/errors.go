// Package domain holds sentinel errors shared across use cases and transport.
package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrValidationFailed signals that required form fields are missing or malformed.
	ErrValidationFailed = errors.New("validation failed")
	// ErrBotDetected signals a honeypot hit. Callers must not surface this to the user.
	ErrBotDetected = errors.New("bot detected")
	// ErrSubmissionInFlight signals that a submission for this client is already running.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrMailConfig signals a mail service configuration problem (provider status 412).
	ErrMailConfig = errors.New("mail service configuration error")
	// ErrMailTemplate signals an invalid mail template configuration (provider status 422).
	ErrMailTemplate = errors.New("mail template configuration error")
	// ErrMailAuth signals a mail provider authentication failure (provider status 401).
	ErrMailAuth = errors.New("mail service authentication failed")
	// ErrMailUnreachable signals that the mail provider could not be reached at all.
	ErrMailUnreachable = errors.New("mail service unreachable")
	// ErrMailDelivery signals any other non-success outcome from the mail provider.
	ErrMailDelivery = errors.New("mail delivery failed")
)
