package domain

// Verdict is the danger classifier's output: the ids and messages of every
// matching rule. An empty match set means the command passed the screen.
//
// The classification is a heuristic, not a security boundary; missed
// dangerous forms and flagged benign commands are both expected.
type Verdict struct {
	MatchedRules []string
	Reasons      []string
}

// Safe reports whether no danger rule matched.
func (v Verdict) Safe() bool {
	return len(v.MatchedRules) == 0
}
