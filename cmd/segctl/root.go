package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/segheap/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logFile  string
	logLevel string

	closeLog = func() error { return nil }

	// out is where command output goes; tests swap it.
	out io.Writer = os.Stdout

	printer = message.NewPrinter(language.English)
)

var rootCmd = &cobra.Command{
	Use:   "segctl",
	Short: "Inspect aligned segment storage and cell layout",
	Long: `segctl exercises the heap's memory substrate on the current machine:
it reports segment and page geometry, measures resident pages before and
after decommit, checks segment alignment under interleaved mappings, and
builds and walks segments of test cells.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		closeLog, err = logger.Init(logger.Options{
			Enabled: verbose || logFile != "",
			File:    logFile,
			Level:   level,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and logging to stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode. Numbers are
// grouped for readability.
func printInfo(format string, args ...any) {
	if !quiet {
		printer.Fprintf(out, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		printer.Fprintf(out, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// emit prints v as JSON in --json mode, or calls text otherwise.
func emit(v any, text func()) error {
	if jsonOut {
		return printJSON(v)
	}
	text()
	return nil
}
