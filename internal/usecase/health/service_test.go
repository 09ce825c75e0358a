package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockStorage struct {
	err error
}

func (m *mockStorage) Check() error { return m.err }

type mockLocator struct {
	missing map[string]bool
}

func (m *mockLocator) Locate(bin string) error {
	if m.missing[bin] {
		return errors.New("not found in PATH")
	}
	return nil
}

var testEngines = map[string]string{
	"ripgrep": "rg",
	"find":    "find",
	"jq":      "jq",
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockStorage{}, &mockLocator{}, testEngines)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"storage", "ripgrep", "find", "jq"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_StorageError(t *testing.T) {
	svc := New(&mockStorage{err: errors.New("read-only")}, &mockLocator{}, testEngines)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["storage"] != CheckError {
		t.Errorf("expected storage %q, got %q", CheckError, r.Checks["storage"])
	}
	if r.Checks["ripgrep"] != CheckOK {
		t.Errorf("expected ripgrep %q, got %q", CheckOK, r.Checks["ripgrep"])
	}
}

func TestCheck_MissingEngine(t *testing.T) {
	svc := New(&mockStorage{}, &mockLocator{missing: map[string]bool{"jq": true}}, testEngines)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["jq"] != CheckError {
		t.Errorf("expected jq %q, got %q", CheckError, r.Checks["jq"])
	}
	if r.Checks["ripgrep"] != CheckOK || r.Checks["find"] != CheckOK {
		t.Error("healthy engines must stay ok")
	}
}

func TestCheck_NoEngines(t *testing.T) {
	svc := New(&mockStorage{}, &mockLocator{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the storage check, got %v", r.Checks)
	}
}
