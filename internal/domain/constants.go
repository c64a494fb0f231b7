package domain

import "time"

// File permission constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// HistoryFilePermissions is the permission for the history ledger (rw-r--r--)
	HistoryFilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout constants
const (
	// DefaultGenerateTimeout bounds a single command generation request
	DefaultGenerateTimeout = 60 * time.Second
	// DefaultExplainTimeout bounds the follow-up explanation request
	DefaultExplainTimeout = 20 * time.Second
)

// History constants
const (
	// DefaultMaxHistory is the maximum number of ledger entries retained
	DefaultMaxHistory = 50
	// DefaultMaxCommandLength caps the stored command field
	DefaultMaxCommandLength = 200
	// DefaultHistoryTail is how many entries the ShowHistory action renders
	DefaultHistoryTail = 10
)

// Display constants
const (
	// MaxExplanationLines caps the rendered explanation output
	MaxExplanationLines = 10
	// MaxExtractedLines caps the command block collected from model output
	MaxExtractedLines = 5
)

// Time formats
const (
	// HistoryTimestampFormat is the seconds-resolution local timestamp used in ledger lines
	HistoryTimestampFormat = "2006-01-02 15:04:05"
)
