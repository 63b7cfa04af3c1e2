package health

import "context"

// DBPinger checks key-value store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ManifestChecker checks that site content is loaded.
type ManifestChecker interface {
	HealthCheck(ctx context.Context) error
}

// MailChecker checks mail provider reachability.
type MailChecker interface {
	HealthCheck(ctx context.Context) error
}
