package recordtypes

import "fmt"

// DiagnosticCode classifies why a source record was rejected.
type DiagnosticCode string

const (
	// CodeUnexpectedFormat means the record is not a mapping or lacks role or parts.
	CodeUnexpectedFormat DiagnosticCode = "unexpected_format"
	// CodeInvalidParts means parts is empty, not a sequence, or its first element has no text.
	CodeInvalidParts DiagnosticCode = "invalid_parts"
)

// Diagnostic describes a single rejected record. It is a warning, never an error:
// rejected records are dropped and counted.
type Diagnostic struct {
	Index int            `json:"index"`
	Code  DiagnosticCode `json:"code"`
	Raw   any            `json:"raw"`
}

// Message renders the diagnostic for humans.
func (d Diagnostic) Message() string {
	switch d.Code {
	case CodeUnexpectedFormat:
		return fmt.Sprintf("item %d has unexpected format: %v", d.Index, d.Raw)
	case CodeInvalidParts:
		return fmt.Sprintf("item %d has missing or invalid 'parts': %v", d.Index, d.Raw)
	default:
		return fmt.Sprintf("item %d rejected (%s): %v", d.Index, d.Code, d.Raw)
	}
}
