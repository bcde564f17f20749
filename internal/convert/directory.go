package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DirOptions controls directory conversion.
type DirOptions struct {
	// Recursive descends into sub-directories, mirroring them under the output directory.
	Recursive bool
	// Jobs bounds concurrent file conversions. Zero or less means runtime.NumCPU().
	Jobs int
}

// FileFailure records a file that could not be converted.
type FileFailure struct {
	Input string
	Err   error
}

// BatchReport summarizes a directory conversion. Both slices are sorted by input path.
type BatchReport struct {
	Files    []FileReport
	Failures []FileFailure
}

// Warnings is the total warning count across converted files.
func (b *BatchReport) Warnings() int {
	total := 0
	for _, f := range b.Files {
		total += f.Warnings
	}
	return total
}

// IsYAMLFile reports whether name has a .yaml or .yml extension.
func IsYAMLFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

type job struct {
	input  string
	output string
}

// ConvertDirectory converts every YAML file in inDir into outDir.
// Files are independent; a failing file is reported and the rest continue.
// The returned error wraps ErrBatchFailed when any file failed.
func (c *Converter) ConvertDirectory(ctx context.Context, inDir, outDir string, opts DirOptions) (*BatchReport, error) {
	info, err := os.Stat(inDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: input directory '%s'", ErrInputNotFound, inDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating output directory '%s': %w", outDir, err)
	}

	jobs, err := collectJobs(inDir, outDir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	report := &BatchReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range jobs {
		g.Go(func() error {
			if c.Verbose {
				c.log.Info("Processing", "file", j.input, "output", j.output)
			}
			fr, err := c.ConvertFile(gctx, j.input, j.output)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.Error("Failed to convert", "file", j.input, "error", err)
				report.Failures = append(report.Failures, FileFailure{Input: j.input, Err: err})
				return nil
			}
			report.Files = append(report.Files, *fr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(report.Files, func(i, k int) bool { return report.Files[i].Input < report.Files[k].Input })
	sort.Slice(report.Failures, func(i, k int) bool { return report.Failures[i].Input < report.Failures[k].Input })

	if c.Verbose {
		c.log.Info("Successfully processed files", "count", len(report.Files))
	}
	if len(report.Failures) > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrBatchFailed, len(report.Failures), len(jobs))
	}
	return report, nil
}

// collectJobs lists YAML files under inDir and their destinations under outDir.
func collectJobs(inDir, outDir string, recursive bool) ([]job, error) {
	var jobs []job

	if !recursive {
		entries, err := os.ReadDir(inDir)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory %s: %w", inDir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !IsYAMLFile(e.Name()) {
				continue
			}
			jobs = append(jobs, job{
				input:  filepath.Join(inDir, e.Name()),
				output: filepath.Join(outDir, e.Name()),
			})
		}
		return jobs, nil
	}

	absOut, _ := filepath.Abs(outDir)
	err := filepath.WalkDir(inDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Output nested inside input must not be fed back in.
			if abs, _ := filepath.Abs(path); abs == absOut && path != inDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsYAMLFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(inDir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{input: path, output: filepath.Join(outDir, rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", inDir, err)
	}
	return jobs, nil
}
