package health

import (
	"context"
	"os/exec"
)

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

// Service coordinates health checks over storage and the external engines.
type Service struct {
	storage StorageChecker
	locator EngineLocator
	engines map[string]string // check name -> binary
}

// New creates a Service. engines maps a check name to the binary it probes.
func New(storage StorageChecker, locator EngineLocator, engines map[string]string) *Service {
	return &Service{storage: storage, locator: locator, engines: engines}
}

// Check runs health checks against all components. An engine missing from
// PATH degrades the service but does not mark it down: uploads and registry
// reads keep working without the engines.
func (s *Service) Check(_ context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.storage.Check(); err != nil {
		checks["storage"] = CheckError
	} else {
		checks["storage"] = CheckOK
	}

	for name, bin := range s.engines {
		if err := s.locator.Locate(bin); err != nil {
			checks[name] = CheckError
		} else {
			checks[name] = CheckOK
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

// PathLocator resolves binaries via the process PATH.
type PathLocator struct{}

// Locate reports whether the binary is resolvable.
func (PathLocator) Locate(bin string) error {
	_, err := exec.LookPath(bin)
	return err
}
