package commands

const (
	// DefaultHistoryLimit is the default number of entries `history list` shows
	DefaultHistoryLimit = 20
	// DefaultSearchLimit is the default number of `history search` results
	DefaultSearchLimit = 50
)
