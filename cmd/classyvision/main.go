// Package main provides the CLI entry point for the dataset runtime.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnnynunez/ClassyVision/internal/config"
	"github.com/johnnynunez/ClassyVision/internal/factory"
	"github.com/johnnynunez/ClassyVision/internal/logger"
	"github.com/johnnynunez/ClassyVision/internal/registry"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Run command flags
	runEpoch      int64
	runSeed       int64
	runWorkers    int
	runMaxBatches int

	// Build information (set via ldflags during build)
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitRuntimeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "classyvision",
	Short: "ClassyVision - Declarative dataset runtime",
	Long: `ClassyVision is a CLI tool for declaratively configured datasets.

It parses and validates dataset configurations (JSON/YAML format), builds
the configured dataset and transform chain through the registry, and
iterates batches.

Examples:
  # Validate a configuration file
  classyvision validate dataset.json

  # Iterate one epoch of batches
  classyvision run dataset.yaml --workers 4

  # List registered dataset and transform types
  classyvision list`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(slog.LevelDebug)
		} else if quiet {
			logger.SetLevel(slog.LevelError)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a dataset configuration file",
	Long: `Validate a dataset configuration file against the schema.

Supports both JSON and YAML formats, detected from the file extension
(.json, .yaml, .yml) or content.

Exit codes:
  0 - Configuration is valid
  1 - Validation errors (schema violations)
  2 - Parse errors (invalid JSON/YAML syntax)`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var runCmd = &cobra.Command{
	Use:   "run <config-file>",
	Short: "Iterate batches from a dataset configuration",
	Long: `Build the dataset described by the configuration file and iterate
one epoch of batches, logging progress and throughput.

The shuffle order is deterministic for a given --seed and --epoch.`,
	Args: cobra.ExactArgs(1),
	Run:  runDataset,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered dataset and transform types",
	Run: func(_ *cobra.Command, _ []string) {
		mustRegisterBuiltins()
		fmt.Println("datasets:")
		for _, name := range registry.Datasets.Names() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("transforms:")
		for _, name := range registry.Transforms.Names() {
			fmt.Printf("  %s\n", name)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("classyvision %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")

	runCmd.Flags().Int64Var(&runEpoch, "epoch", 0, "epoch number mixed into the shuffle order")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "shuffle seed")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "parallel item-fetch workers (0 = synchronous)")
	runCmd.Flags().IntVar(&runMaxBatches, "max-batches", 0, "stop after this many batches (0 = full epoch)")

	rootCmd.AddCommand(validateCmd, runCmd, listCmd, versionCmd)
}

// runValidate implements the validate command.
func runValidate(cmd *cobra.Command, args []string) {
	result := config.ParseConfig(args[0])

	if len(result.ParseErrors) > 0 {
		for _, e := range result.ParseErrors {
			cmd.PrintErrf("parse error: %s\n", e.Error())
		}
		os.Exit(ExitParseError)
	}
	if len(result.ValidationErrors) > 0 {
		for _, e := range result.ValidationErrors {
			cmd.PrintErrf("validation error: %s\n", e.Error())
		}
		os.Exit(ExitValidationError)
	}

	// Conversion surfaces errors the schema cannot express (e.g. a
	// malformed nested transform block).
	if _, err := config.ToDatasetConfig(result.Data); err != nil {
		cmd.PrintErrf("validation error: %v\n", err)
		os.Exit(ExitValidationError)
	}

	fmt.Printf("%s: configuration is valid\n", args[0])
}

// runDataset implements the run command.
func runDataset(cmd *cobra.Command, args []string) {
	mustRegisterBuiltins()

	result := config.ParseConfig(args[0])
	if !result.IsValid() {
		for _, e := range result.AllErrors() {
			cmd.PrintErrf("error: %v\n", e)
		}
		os.Exit(ExitValidationError)
	}

	cfg, err := config.ToDatasetConfig(result.Data)
	if err != nil {
		cmd.PrintErrf("error: %v\n", err)
		os.Exit(ExitValidationError)
	}

	ds, err := factory.BuildDataset(cfg)
	if err != nil {
		cmd.PrintErrf("error: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	opts := classy.IteratorOptions{
		ShuffleSeed: runSeed,
		Epoch:       runEpoch,
		NumWorkers:  runWorkers,
	}
	it, err := ds.Iterator(opts)
	if err != nil {
		cmd.PrintErrf("error: %v\n", err)
		os.Exit(ExitRuntimeError)
	}
	defer it.Close()

	iterCtx := logger.IterationContext{
		Dataset:     ds.Name(),
		Epoch:       runEpoch,
		ShuffleSeed: runSeed,
		NumWorkers:  runWorkers,
	}
	logger.WithIteration(iterCtx).Info("starting iteration", "length", ds.Len(), "batches", it.NumBatches())

	start := time.Now()
	batches, samples := 0, 0
	for it.Next() {
		batch := it.Batch()
		batches++
		samples += batch.Len()
		logger.WithIteration(iterCtx).Debug("batch", "index", batches-1, "size", batch.Len())
		if runMaxBatches > 0 && batches >= runMaxBatches {
			break
		}
	}
	if err := it.Err(); err != nil {
		cmd.PrintErrf("error: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	logger.LogIterationEnd(iterCtx, logger.IterationMetrics{
		Batches:  batches,
		Samples:  samples,
		Duration: time.Since(start),
	})
	fmt.Printf("iterated %d batches (%d samples)\n", batches, samples)
}

// mustRegisterBuiltins registers built-in types or exits.
func mustRegisterBuiltins() {
	if err := registry.RegisterBuiltins(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitRuntimeError)
	}
}
