// Package yamlcodec reads and writes conversation files as YAML.
// Decoding yields untyped values for validation by the transformer; encoding writes block-style
// YAML with Unicode left unescaped and struct field order kept.
package yamlcodec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"grammateus/pkg/recordtypes"
)

// ErrSyntax wraps every YAML parse failure.
var ErrSyntax = errors.New("yaml syntax error")

const indent = 2

// Decode reads one YAML document from r into an untyped value.
// An empty document decodes to nil.
func Decode(r io.Reader) (any, error) {
	var v any
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return v, nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	v, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}
	return v, nil
}

// EncodeValue writes v to w as a single block-style YAML document.
func EncodeValue(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// EncodeRecords writes records with role before text. A nil slice is written as [].
func EncodeRecords(w io.Writer, records []recordtypes.Record) error {
	if records == nil {
		records = []recordtypes.Record{}
	}
	return EncodeValue(w, records)
}

// Marshal is EncodeValue into a byte slice.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes v into path, replacing any existing file.
func WriteFile(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing to %s: %w", path, err)
	}
	return nil
}
