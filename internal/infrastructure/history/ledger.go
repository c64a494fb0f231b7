package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doeshing/askcmd/internal/domain"
	"github.com/doeshing/askcmd/internal/infrastructure/lock"
	"github.com/doeshing/askcmd/internal/pkg/filesystem"
	"github.com/doeshing/askcmd/internal/ports"
)

// fieldDelimiter separates the four ledger fields; occurrences inside the
// query and command fields are backslash-escaped.
const fieldDelimiter = '|'

// Ledger appends delimiter-separated history lines to a single file shared
// by every process running the tool. Mutual exclusion comes from an
// exclusive lock scope; when the lock cannot be taken after bounded retries
// the entry is still appended unlocked rather than dropped.
type Ledger struct {
	path          string
	maxEntries    int
	maxCommandLen int
	scope         lock.Scope
	log           ports.Logger
}

// NewLedger builds the ledger from configuration.
func NewLedger(cfg domain.HistorySettings, log ports.Logger) *Ledger {
	path := filesystem.Expand(cfg.Path)
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = domain.DefaultMaxHistory
	}
	maxCommandLen := cfg.MaxCommandLength
	if maxCommandLen <= 0 {
		maxCommandLen = domain.DefaultMaxCommandLength
	}
	return &Ledger{
		path:          path,
		maxEntries:    maxEntries,
		maxCommandLen: maxCommandLen,
		scope:         lock.ForFile(path),
		log:           log,
	}
}

// Append writes one complete line, then trims the file to the newest
// maxEntries when it has grown past the bound. The whole mutation happens
// under the exclusive scope so concurrent writers never interleave partial
// lines or race the trim rewrite.
func (l *Ledger) Append(entry domain.HistoryEntry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return err
	}

	release, err := l.scope.Acquire()
	if err != nil {
		l.log.Warn("history lock unavailable, appending unlocked", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer release()
	}

	if err := l.appendLine(formatEntry(entry, l.maxCommandLen)); err != nil {
		return err
	}
	return l.trim()
}

func (l *Ledger) appendLine(line string) error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.HistoryFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	// One Write call per entry keeps the append all-or-nothing.
	_, err = file.WriteString(line + "\n")
	return err
}

// trim rewrites the ledger to the newest maxEntries lines using
// write-to-temp-then-rename, never a partial in-place truncation.
func (l *Ledger) trim() error {
	lines, err := l.readLines()
	if err != nil {
		return err
	}
	if len(lines) <= l.maxEntries {
		return nil
	}
	keep := lines[len(lines)-l.maxEntries:]

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".history-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(strings.Join(keep, "\n") + "\n"); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), l.path)
}

// Tail returns the most recent k entries in append order. Malformed lines
// are skipped rather than failing the read.
func (l *Ledger) Tail(k int) ([]domain.HistoryEntry, error) {
	lines, err := l.readLines()
	if err != nil {
		return nil, err
	}
	var entries []domain.HistoryEntry
	for _, line := range lines {
		entry, err := parseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if k > 0 && len(entries) > k {
		entries = entries[len(entries)-k:]
	}
	return entries, nil
}

// Clear removes the ledger file.
func (l *Ledger) Clear() error {
	release, err := l.scope.Acquire()
	if err == nil {
		defer release()
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the backing file path.
func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) readLines() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// formatEntry renders one ledger line:
// timestamp|status|query|command, command capped at maxCommandLen.
func formatEntry(entry domain.HistoryEntry, maxCommandLen int) string {
	command := entry.Command
	if len(command) > maxCommandLen {
		command = command[:maxCommandLen]
	}
	return fmt.Sprintf("%s%c%s%c%s%c%s",
		entry.Timestamp.Format(domain.HistoryTimestampFormat),
		fieldDelimiter, entry.Status,
		fieldDelimiter, escapeField(entry.Query),
		fieldDelimiter, escapeField(command),
	)
}

func parseEntry(line string) (domain.HistoryEntry, error) {
	fields := splitFields(line, 4)
	if len(fields) != 4 {
		return domain.HistoryEntry{}, fmt.Errorf("malformed history line")
	}
	ts, err := time.ParseInLocation(domain.HistoryTimestampFormat, fields[0], time.Local)
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	return domain.HistoryEntry{
		Timestamp: ts,
		Status:    domain.Status(fields[1]),
		Query:     unescapeField(fields[2]),
		Command:   unescapeField(fields[3]),
	}, nil
}

func escapeField(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, string(fieldDelimiter), `\`+string(fieldDelimiter))
}

func unescapeField(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitFields splits on the unescaped delimiter into at most max fields; the
// last field keeps any remaining delimiters.
func splitFields(line string, max int) []string {
	var fields []string
	var b strings.Builder
	escaped := false
	for _, r := range line {
		if escaped {
			b.WriteRune('\\')
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == fieldDelimiter && len(fields) < max-1 {
			fields = append(fields, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		b.WriteRune('\\')
	}
	fields = append(fields, b.String())
	return fields
}

var _ ports.HistoryLedger = (*Ledger)(nil)
