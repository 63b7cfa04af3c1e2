package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockManifestChecker struct {
	err error
}

func (m *mockManifestChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockManifestChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["manifest"] != CheckOK {
		t.Errorf("expected manifest %q, got %q", CheckOK, r.Checks["manifest"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, &mockManifestChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["manifest"] != CheckOK {
		t.Errorf("expected manifest %q, got %q", CheckOK, r.Checks["manifest"])
	}
}

func TestCheck_ManifestError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockManifestChecker{err: errors.New("not loaded")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["manifest"] != CheckError {
		t.Errorf("expected manifest %q, got %q", CheckError, r.Checks["manifest"])
	}
}

func TestCheck_MailError(t *testing.T) {
	mail := &mockManifestChecker{err: errors.New("provider down")}
	svc := New(&mockDBPinger{}, &mockManifestChecker{}).WithMail(mail)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["mail"] != CheckError {
		t.Errorf("expected mail %q, got %q", CheckError, r.Checks["mail"])
	}
}

func TestCheck_NilManifestChecker(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["manifest"]; ok {
		t.Error("manifest check should be skipped when no checker is configured")
	}
}
