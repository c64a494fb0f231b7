package domain

import "time"

// Status marks the outcome a history entry records.
type Status string

const (
	StatusExecuted  Status = "executed"
	StatusExplained Status = "explained"
	StatusCopied    Status = "copied"
	StatusBlocked   Status = "blocked"
	StatusCancelled Status = "cancelled"
)

// HistoryEntry is one line of the history ledger.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
	Query     string    `json:"query"`
	Command   string    `json:"command"`
}
