package domain

// HealthStatus marks a diagnostic outcome.
type HealthStatus string

const (
	HealthOK   HealthStatus = "ok"
	HealthWarn HealthStatus = "warn"
	HealthFail HealthStatus = "fail"
)

// HealthCheck is a single doctor diagnostic.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport aggregates doctor diagnostics.
type HealthReport struct {
	Checks []HealthCheck
}
