package harness

import "github.com/roach88/relviz/internal/ir"

// TraceEvent records one executed step.
type TraceEvent struct {
	Step     int      `json:"step"`
	Kind     string   `json:"kind"`
	Table    string   `json:"table"`
	SQL      string   `json:"sql"`
	Columns  []string `json:"columns,omitempty"`
	Rows     []ir.Row `json:"rows,omitempty"`
	Affected int      `json:"affected"`
	Error    string   `json:"error,omitempty"` // error code, empty on success
	Revision string   `json:"revision,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Tables lists the catalog's table names after the last step.
	Tables []string `json:"tables,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an executed step.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
