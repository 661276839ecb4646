// Package diagnostics carries structured fault reports out of the core
// pipeline. The core handles every condition locally; only persistent
// problems (repeated transfer overruns) are escalated through these.
package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity     Severity       `json:"severity"`
	Code         string         `json:"code"`
	Summary      string         `json:"summary"`
	Detail       string         `json:"detail,omitempty"`
	LikelyCauses []string       `json:"likely_causes,omitempty"`
	Evidence     map[string]any `json:"evidence,omitempty"`
}
