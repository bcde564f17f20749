package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Convert dispatches on the kind of input.
//
//   - file input, directory output: writes output/<basename of input>
//   - file input, other output: writes output
//   - directory input: output must be an existing directory
//
// Single-file conversions return a BatchReport with one entry.
func (c *Converter) Convert(ctx context.Context, input, output string, opts DirOptions) (*BatchReport, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrInputNotFound, input)
	}

	if info.IsDir() {
		if !isDir(output) {
			return nil, ErrOutputNotDirectory
		}
		return c.ConvertDirectory(ctx, input, output, opts)
	}

	target := output
	if isDir(output) {
		target = filepath.Join(output, filepath.Base(input))
	}

	fr, err := c.ConvertFile(ctx, input, target)
	if err != nil {
		return &BatchReport{Failures: []FileFailure{{Input: input, Err: err}}},
			fmt.Errorf("failed to transform '%s': %w", input, err)
	}
	if c.Verbose {
		c.log.Info("Successfully transformed", "file", input, "output", target)
	}
	return &BatchReport{Files: []FileReport{*fr}}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
