package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/pkg/filesystem"
)

// DoctorService runs environment diagnostics.
type DoctorService struct {
	Config       domain.Config
	BackendName  string
	RuleCount    int
	LockBackend  string
	IndexPath    string
	IndexHealthy bool
}

// Run executes checks and returns a report.
func (s *DoctorService) Run(_ context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	checks = append(checks, ok("Config", fmt.Sprintf("model %s", s.Config.Model)))

	if s.RuleCount > 0 {
		checks = append(checks, ok("Danger rules", fmt.Sprintf("%d rules loaded", s.RuleCount)))
	} else {
		checks = append(checks, warn("Danger rules", "no rules loaded; every command will pass the screen"))
	}

	if _, err := exec.LookPath(s.BackendName); err == nil {
		checks = append(checks, ok("Model backend", s.BackendName+" found on PATH"))
	} else {
		checks = append(checks, fail("Model backend", s.BackendName+" not found on PATH"))
	}

	checks = append(checks, historyCheck(filesystem.Expand(s.Config.History.Path)))
	checks = append(checks, ok("History lock", s.LockBackend+" backend"))

	if s.IndexHealthy {
		checks = append(checks, ok("History index", s.IndexPath))
	} else {
		checks = append(checks, warn("History index", "sqlite index unavailable; search and stats disabled"))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func historyCheck(path string) domain.HealthCheck {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("History path", err.Error())
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail("History path", fmt.Sprintf("%s not writable: %v", dir, err))
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	return ok("History path", path)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthFail, Details: details}
}
