// Package transform converts decoded Gemini "parts/role" records into flat "role/text" records.
// It is a pure function over already-decoded data: malformed records are filtered and
// reported as diagnostics, never returned as errors.
package transform

import (
	"errors"
	"fmt"
	"reflect"

	"grammateus/pkg/recordtypes"
)

// ErrInvalidInputShape is returned when the top-level value is not a sequence.
var ErrInvalidInputShape = errors.New("invalid input shape: expected a list of records")

// DiagnosticSink receives each rejection as it happens.
type DiagnosticSink func(recordtypes.Diagnostic)

// Result holds the transformed records and everything that was dropped.
type Result struct {
	Records     []recordtypes.Record
	Warnings    int
	Diagnostics []recordtypes.Diagnostic
}

// Option configures a Transform call.
type Option func(*options)

type options struct {
	sink DiagnosticSink
}

// WithDiagnosticSink delivers every rejection to sink in addition to recording it in the Result.
func WithDiagnosticSink(sink DiagnosticSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// Transform validates records and remaps the valid ones.
// records must be a slice; anything else yields ErrInvalidInputShape.
func Transform(records any, opts ...Option) (*Result, error) {
	items, err := asSequence(records)
	if err != nil {
		return nil, err
	}
	return TransformRecords(items, opts...), nil
}

// TransformRecords is Transform for a sequence that is already known to be a list.
func TransformRecords(items []any, opts ...Option) *Result {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	result := &Result{
		Records:     make([]recordtypes.Record, 0, len(items)),
		Diagnostics: []recordtypes.Diagnostic{},
	}

	for i, item := range items {
		record, code, ok := convert(item)
		if !ok {
			d := recordtypes.Diagnostic{Index: i, Code: code, Raw: item}
			result.Warnings++
			result.Diagnostics = append(result.Diagnostics, d)
			if o.sink != nil {
				o.sink(d)
			}
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result
}

// convert validates one raw record. No field is read before its presence is checked.
func convert(item any) (recordtypes.Record, recordtypes.DiagnosticCode, bool) {
	fields, ok := asMapping(item)
	if !ok {
		return recordtypes.Record{}, recordtypes.CodeUnexpectedFormat, false
	}
	role, hasRole := fields[recordtypes.FieldRole]
	rawParts, hasParts := fields[recordtypes.FieldParts]
	if !hasRole || !hasParts {
		return recordtypes.Record{}, recordtypes.CodeUnexpectedFormat, false
	}

	parts, err := asSequence(rawParts)
	if err != nil || len(parts) == 0 {
		return recordtypes.Record{}, recordtypes.CodeInvalidParts, false
	}
	first, ok := asMapping(parts[0])
	if !ok {
		return recordtypes.Record{}, recordtypes.CodeInvalidParts, false
	}
	text, ok := first[recordtypes.FieldText]
	if !ok {
		return recordtypes.Record{}, recordtypes.CodeInvalidParts, false
	}

	return recordtypes.Record{Role: recordtypes.MapRole(role), Text: text}, "", true
}

// asSequence accepts []any directly and any other slice or array via reflection.
func asSequence(v any) ([]any, error) {
	switch s := v.(type) {
	case []any:
		return s, nil
	case nil:
		return nil, fmt.Errorf("%w, got nothing", ErrInvalidInputShape)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w, got %T", ErrInvalidInputShape, v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// asMapping normalizes the two mapping types yaml.v3 produces.
// Keys that are not strings can never match a field name and are skipped.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	default:
		return nil, false
	}
}
