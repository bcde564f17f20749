// Package convert applies the record transformer to YAML files and directories.
// It owns everything around the pure transformation: reading, structural checks,
// verbose diagnostics, output directory creation and writing.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"grammateus/internal/logger"
	"grammateus/internal/transform"
	"grammateus/internal/yamlcodec"
	"grammateus/pkg/recordtypes"
)

// Errors returned by the converter.
var (
	ErrInputNotFound      = errors.New("input does not exist")
	ErrOutputNotDirectory = errors.New("when input is a directory, output must also be a directory")
	ErrBatchFailed        = errors.New("one or more files failed to convert")
)

// FileReport summarizes one converted file.
type FileReport struct {
	Input    string
	Output   string
	Read     int
	Written  int
	Warnings int
}

// Converter converts parts/role YAML files to role/text YAML files.
type Converter struct {
	// Verbose logs every rejected record and per-file progress.
	Verbose bool
	log     *log.Logger
}

// NewConverter creates a converter logging through a "convert" component logger.
func NewConverter(verbose bool) *Converter {
	return &Converter{
		Verbose: verbose,
		log:     logger.NewStyledLogger("convert"),
	}
}

// WithLogger replaces the component logger.
func (c *Converter) WithLogger(l *log.Logger) *Converter {
	c.log = l
	return c
}

// ConvertFile converts input into output. A top-level value that is not a list
// fails with transform.ErrInvalidInputShape and nothing is written.
func (c *Converter) ConvertFile(ctx context.Context, input, output string) (*FileReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := yamlcodec.DecodeFile(input)
	if err != nil {
		return nil, err
	}

	var sink transform.DiagnosticSink
	if c.Verbose {
		sink = func(d recordtypes.Diagnostic) {
			c.log.Warn(d.Message(), "file", input, "index", d.Index, "code", d.Code)
		}
	}

	result, err := transform.Transform(data, transform.WithDiagnosticSink(sink))
	if err != nil {
		return nil, fmt.Errorf("error in %s: %w", input, err)
	}

	report := &FileReport{
		Input:    input,
		Output:   output,
		Read:     len(result.Records) + result.Warnings,
		Written:  len(result.Records),
		Warnings: result.Warnings,
	}
	if c.Verbose {
		c.log.Info("Read items", "file", input, "count", report.Read)
		if result.Warnings > 0 {
			c.log.Warn("Encountered warnings during transformation", "file", input, "warnings", result.Warnings)
		}
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}

	if err := yamlcodec.WriteFile(output, result.Records); err != nil {
		return nil, err
	}
	logger.FileOperation("write", output, "records", report.Written)

	if c.Verbose {
		c.log.Info("Wrote items", "file", output, "count", report.Written)
	}
	return report, nil
}
