package domain

// CheckResult is the outcome of one system check.
type CheckResult struct {
	Name    string   `json:"name"`
	Passed  bool     `json:"passed"`
	Details []string `json:"details,omitempty"`

	// Hint tells the user how to fix a failing check.
	Hint string `json:"hint,omitempty"`
}

// StatusReport collects the results of a doctor run.
type StatusReport struct {
	Checks []CheckResult `json:"checks"`
}

// Passed counts the checks that succeeded.
func (r *StatusReport) Passed() int {
	n := 0
	for i := range r.Checks {
		if r.Checks[i].Passed {
			n++
		}
	}
	return n
}

// Total returns the number of checks run.
func (r *StatusReport) Total() int {
	return len(r.Checks)
}

// OK reports whether every check passed.
func (r *StatusReport) OK() bool {
	return r.Passed() == r.Total()
}
