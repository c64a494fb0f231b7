// Package ports defines the interfaces between the application core and the
// infrastructure adapters. The pipeline service depends only on these
// abstractions; concrete implementations live under internal/infrastructure.
package ports

import (
	"context"

	"github.com/doeshing/askcmd/internal/domain"
)

// ConfigProvider loads the configuration snapshot from persistent storage.
// Implementations typically read ~/.ask/config.yaml plus ASK_* overrides.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ModelBackend wraps the external model process. Both calls are synchronous
// and bounded by the caller's context deadline; a single failed or timed-out
// attempt is terminal, there are no retries.
type ModelBackend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	Explain(ctx context.Context, command string) (string, error)
}

// SecurityService screens a command against the danger rule table. It is a
// pure function of the command text.
type SecurityService interface {
	Classify(command string) domain.Verdict
}

// HistoryLedger is the durable, size-bounded, process-safe append log.
// Append must be safe against concurrent writers from independent processes.
type HistoryLedger interface {
	Append(domain.HistoryEntry) error
	Tail(k int) ([]domain.HistoryEntry, error)
}

// HistoryIndex is the searchable mirror of the ledger. All methods degrade
// to no-ops when the backing database is unavailable; the ledger stays the
// source of truth.
type HistoryIndex interface {
	Insert(domain.HistoryEntry) error
	Search(keyword string, limit int) ([]domain.HistoryEntry, error)
	Stats() (map[domain.Status]int, error)
	Clear() error
	Path() string
}

// CommandExecutor runs the approved command in a fresh shell subprocess that
// inherits the invoking terminal's standard streams. The returned exit code
// is the command's own, never translated.
type CommandExecutor interface {
	Run(ctx context.Context, command string) (int, error)
}

// Clipboard is the external copy capability.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Console owns all interactive terminal I/O for the pipeline: the query
// prompt, the confirmation gate, the action menu, and result rendering.
type Console interface {
	ReadQuery() (string, error)
	ShowCommand(command string)
	ConfirmDangerous(command string, verdict domain.Verdict) (bool, error)
	SelectAction() (domain.ActionKind, error)
	ShowExplanation(text string)
	ShowHistory(entries []domain.HistoryEntry)
	ShowCopied(command string, viaClipboard bool)
}

// ProgressIndicator provides transient visual feedback while the model
// backend call is in flight. Stop must clear the display line on every exit
// path.
type ProgressIndicator interface {
	Start()
	Stop()
}

// Logger is the structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
