package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db       DBPinger
	manifest ManifestChecker
	mail     MailChecker
}

// New creates a Service. manifest can be nil.
func New(db DBPinger, manifest ManifestChecker) *Service {
	return &Service{db: db, manifest: manifest}
}

// WithMail adds a mail provider reachability check.
func (s *Service) WithMail(mail MailChecker) *Service {
	s.mail = mail
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.manifest != nil {
		if err := s.manifest.HealthCheck(ctx); err != nil {
			checks["manifest"] = CheckError
		} else {
			checks["manifest"] = CheckOK
		}
	}

	if s.mail != nil {
		if err := s.mail.HealthCheck(ctx); err != nil {
			checks["mail"] = CheckError
		} else {
			checks["mail"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
