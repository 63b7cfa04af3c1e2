// Package emailjs delivers scan requests through the EmailJS REST API.
package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/domain"
	"github.com/neuroscape/nicsite/internal/metrics"
)

const sendPath = "/api/v1.0/email/send"

// invalidKeyBody is the plain-text body EmailJS returns for a bad public
// key, sometimes with a 403 instead of a 401.
const invalidKeyBody = "The Public Key is invalid"

// Mailer sends templated mail through EmailJS.
type Mailer struct {
	client     *http.Client
	baseURL    string
	serviceID  string
	templateID string
	publicKey  string
	logger     *zap.Logger
}

// Config holds the mail provider settings.
type Config struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewMailer creates an EmailJS mailer.
func NewMailer(cfg *Config) *Mailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailer{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		publicKey:  cfg.PublicKey,
		logger:     cfg.Logger,
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send submits the template parameters to EmailJS. Errors are wrapped
// with the matching domain sentinel so callers can branch on cause.
func (m *Mailer) Send(ctx context.Context, params map[string]string) error {
	body, err := json.Marshal(sendRequest{
		ServiceID:      m.serviceID,
		TemplateID:     m.templateID,
		UserID:         m.publicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := m.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		metrics.MailRequestsTotal.WithLabelValues("unreachable").Inc()
		m.logger.Error("mail provider unreachable", zap.Error(err))
		return fmt.Errorf("mail provider request: %v: %w", err, domain.ErrMailUnreachable)
	}
	defer resp.Body.Close()

	// The response body is short plain text such as "OK".
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	if resp.StatusCode == http.StatusOK {
		metrics.MailRequestsTotal.WithLabelValues("success").Inc()
		metrics.MailRequestDuration.Observe(duration.Seconds())
		return nil
	}

	status, sentinel := classify(resp.StatusCode, string(respBody))
	metrics.MailRequestsTotal.WithLabelValues(status).Inc()
	m.logger.Error("mail provider rejected request",
		zap.Int("http_status", resp.StatusCode),
		zap.String("body", string(respBody)),
	)
	return fmt.Errorf("mail provider error %d: %s: %w",
		resp.StatusCode, string(respBody), sentinel)
}

// HealthCheck verifies the provider endpoint is reachable. EmailJS has
// no ping endpoint, so an HTTP response of any status counts as alive.
func (m *Mailer) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.baseURL+sendPath, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail provider unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// classify maps an EmailJS failure response to a metric label and a
// domain sentinel.
func classify(code int, body string) (string, error) {
	switch {
	case code == http.StatusPreconditionFailed:
		return "config_error", domain.ErrMailConfig
	case code == http.StatusUnprocessableEntity:
		return "template_error", domain.ErrMailTemplate
	case code == http.StatusUnauthorized, strings.Contains(body, invalidKeyBody):
		return "auth_error", domain.ErrMailAuth
	default:
		return "error", domain.ErrMailDelivery
	}
}
