package domain

import "time"

// Config is the immutable configuration snapshot built once at startup and
// passed into every component. Components never consult the environment or
// the config file themselves.
type Config struct {
	Model    string           `yaml:"model"`
	History  HistorySettings  `yaml:"history"`
	Timeouts TimeoutSettings  `yaml:"timeouts"`
	Security SecuritySettings `yaml:"security"`
}

// HistorySettings controls the history ledger.
type HistorySettings struct {
	Path             string `yaml:"path"`
	MaxEntries       int    `yaml:"max_entries"`
	MaxCommandLength int    `yaml:"max_command_length"`
}

// TimeoutSettings bounds the two model backend calls.
type TimeoutSettings struct {
	GenerateSeconds int `yaml:"generate_seconds"`
	ExplainSeconds  int `yaml:"explain_seconds"`
}

// SecuritySettings points at the danger rule table.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// Generate returns the generation timeout as a duration.
func (t TimeoutSettings) Generate() time.Duration {
	if t.GenerateSeconds <= 0 {
		return DefaultGenerateTimeout
	}
	return time.Duration(t.GenerateSeconds) * time.Second
}

// Explain returns the explanation timeout as a duration.
func (t TimeoutSettings) Explain() time.Duration {
	if t.ExplainSeconds <= 0 {
		return DefaultExplainTimeout
	}
	return time.Duration(t.ExplainSeconds) * time.Second
}
