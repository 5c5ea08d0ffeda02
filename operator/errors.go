package operator

import "fmt"

// ConfigurationError reports a missing or structurally invalid parameter,
// e.g. symmetric sensing requested for a non-square signal, or a solver
// run without its required projection. It is fatal to the single trial
// that hit it and is never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// Configf builds a ConfigurationError from a format string.
func Configf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// DimensionMismatch reports an operand whose shape does not match what an
// operator or solver declared. It indicates a structurally broken pipeline
// and is surfaced immediately rather than silently reshaped away.
type DimensionMismatch struct {
	Context            string
	WantRows, WantCols int
	GotRows, GotCols   int
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("%s: dimension mismatch, want %dx%d, got %dx%d",
		e.Context, e.WantRows, e.WantCols, e.GotRows, e.GotCols)
}

// checkShape panics with a DimensionMismatch when x is not (rows by cols).
// Hot-path shape violations are programming errors, not recoverable
// conditions, so the interior kernels panic the way the rest of the
// codebase does.
func checkShape(context string, gotRows, gotCols, wantRows, wantCols int) {
	if gotRows != wantRows || gotCols != wantCols {
		panic(&DimensionMismatch{
			Context:  context,
			WantRows: wantRows, WantCols: wantCols,
			GotRows: gotRows, GotCols: gotCols,
		})
	}
}
