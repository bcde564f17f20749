package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"grammateus/internal/config"
	"grammateus/internal/continuation"
	"grammateus/internal/convert"
	"grammateus/internal/logger"
	"grammateus/internal/textimport"
	"grammateus/internal/yamlcodec"
)

// addTransformCommand adds the parts/role to role/text conversion command
func (app *App) addTransformCommand(rootCmd *cobra.Command) {
	transformCmd := &cobra.Command{
		Use:   "transform <input> <output>",
		Short: "Transform YAML files from parts/role to role/text records",
		Long: `Transform a YAML file or a directory of YAML files from the Gemini
"parts/role" shape into flat "role/text" records. Records with an unexpected
shape are dropped and counted as warnings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := convert.NewConverter(app.Config.Verbose)
			report, err := c.Convert(cmd.Context(), args[0], args[1], convert.DirOptions{
				Recursive: app.Config.Recursive,
				Jobs:      app.Config.Jobs,
			})
			if report != nil {
				printBatchReport(cmd, report)
			}
			return err
		},
	}

	transformCmd.Flags().BoolP(config.KeyVerbose, "v", false, "Print verbose output")
	transformCmd.Flags().BoolP(config.KeyRecursive, "r", false, "Process directories recursively")
	transformCmd.Flags().IntP(config.KeyJobs, "j", 0, "Files converted concurrently [default: number of CPUs]")
	app.bindFlag(transformCmd, config.KeyVerbose, config.KeyVerbose, false)
	app.bindFlag(transformCmd, config.KeyRecursive, config.KeyRecursive, false)
	app.bindFlag(transformCmd, config.KeyJobs, config.KeyJobs, false)

	rootCmd.AddCommand(transformCmd)
}

func printBatchReport(cmd *cobra.Command, report *convert.BatchReport) {
	written := 0
	for _, f := range report.Files {
		written += f.Written
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Converted %d file(s): %d record(s) written, %d warning(s)\n",
		len(report.Files), written, report.Warnings())
	for _, f := range report.Failures {
		_, _ = fmt.Fprintf(out, "Failed: %s: %v\n", f.Input, f.Err)
	}
}

// addImportTextCommand adds the text file to parts/role conversation command
func (app *App) addImportTextCommand(rootCmd *cobra.Command) {
	var opts textimport.Options

	importCmd := &cobra.Command{
		Use:   "import-text <text-file> <yaml-file>",
		Short: "Build a parts/role conversation from a text file",
		Long: `Read a UTF-8 text file and write a parts/role YAML conversation: an opening
user turn followed by the text as a model turn, and an optional closing user turn.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := textimport.ImportFile(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d record(s) to %s\n", len(records), args[1])
			return nil
		},
	}

	importCmd.Flags().StringVar(&opts.Opening, "opening", textimport.DefaultOpening, "Opening user turn")
	importCmd.Flags().StringVar(&opts.Closing, "closing", "", "Closing user turn (omitted when empty)")

	rootCmd.AddCommand(importCmd)
}

// addRoundTripCommand adds the comment-preserving YAML rewrite command
func (app *App) addRoundTripCommand(rootCmd *cobra.Command) {
	var showDiff bool

	roundTripCmd := &cobra.Command{
		Use:   "roundtrip <input> <output>",
		Short: "Rewrite a YAML file preserving comments and key order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("error reading file %s: %w", args[0], err)
			}
			out, err := yamlcodec.RoundTrip(data)
			if err != nil {
				return fmt.Errorf("error in %s: %w", args[0], err)
			}
			if dir := filepath.Dir(args[1]); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("error creating output directory %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(args[1], out, 0o644); err != nil {
				return fmt.Errorf("error writing to %s: %w", args[1], err)
			}
			logger.FileOperation("roundtrip", args[1], "source", args[0])

			w := cmd.OutOrStdout()
			if showDiff {
				if d := yamlcodec.Diff(string(data), string(out)); d != "" {
					_, _ = fmt.Fprint(w, d)
				} else {
					_, _ = fmt.Fprintln(w, "No differences found")
				}
			}
			_, _ = fmt.Fprintln(w, "Done!")
			return nil
		},
	}

	roundTripCmd.Flags().BoolVar(&showDiff, "diff", false, "Show differences between input and output")
	rootCmd.AddCommand(roundTripCmd)
}

// addContinueCommand adds the Gemini text continuation command
func (app *App) addContinueCommand(rootCmd *cobra.Command) {
	var (
		instruction string
		historyFile string
	)

	continueCmd := &cobra.Command{
		Use:   "continue <text>",
		Short: "Ask a Gemini model to continue a text",
		Long: `Send a text, optionally preceded by a parts/role conversation, to a Gemini
model and print every candidate continuation. Generation parameters come from a
YAML file (--params) or the built-in defaults.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := continuation.DefaultParams()
			if app.Config.ParamsFile != "" {
				p, err := continuation.LoadParams(app.Config.ParamsFile)
				if err != nil {
					return err
				}
				params = p
			}

			apiKey := app.Config.APIKey()
			if apiKey == "" {
				return fmt.Errorf("%w: set GEMINI_API_KEY or %s_GEMINI_API_KEY", continuation.ErrNotConfigured, config.EnvPrefix)
			}

			client, err := continuation.NewClient(app.NewGenerator(apiKey), params)
			if err != nil {
				return err
			}

			req := continuation.Request{
				Instruction: instruction,
				Text:        strings.Join(args, " "),
			}
			if historyFile != "" {
				history, err := continuation.LoadHistory(historyFile)
				if err != nil {
					return err
				}
				req.History = history
			}

			resp, err := client.Continue(cmd.Context(), req)
			if err != nil {
				return err
			}
			if len(resp.Candidates) == 0 {
				return errors.New("no continuation returned")
			}

			w := cmd.OutOrStdout()
			for i, text := range resp.Candidates {
				if len(resp.Candidates) > 1 {
					_, _ = fmt.Fprintf(w, "--- candidate %d ---\n", i+1)
				}
				_, _ = fmt.Fprintln(w, text)
			}
			return nil
		},
	}

	continueCmd.Flags().String("params", "", "YAML file with generation parameters")
	continueCmd.Flags().StringVar(&instruction, "instruction", continuation.DefaultInstruction, "System instruction")
	continueCmd.Flags().StringVar(&historyFile, "history", "", "parts/role YAML conversation sent before the text")
	app.bindFlag(continueCmd, config.KeyParamsFile, "params", false)

	rootCmd.AddCommand(continueCmd)
}
