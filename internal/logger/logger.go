// Package logger provides structured logging functionality.
// It wraps the standard log/slog package for consistent logging across the
// runtime, with helpers that attach dataset and iteration context fields.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger is the default logger instance.
var Logger *slog.Logger

func init() {
	// Initialize with JSON handler for structured logging
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// SetLevel configures the logging level.
func SetLevel(level slog.Level) {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer, level slog.Level) {
	Logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// WithDataset returns a logger with dataset context.
func WithDataset(name string) *slog.Logger {
	return Logger.With("dataset", name)
}

// IterationContext contains context information for iteration logging.
type IterationContext struct {
	// Dataset is the dataset name (required)
	Dataset string
	// Epoch is the current epoch number
	Epoch int64
	// ShuffleSeed is the shuffle seed for this pass
	ShuffleSeed int64
	// NumWorkers is the configured worker count
	NumWorkers int
}

// WithIteration returns a logger with iteration context attached.
func WithIteration(ctx IterationContext) *slog.Logger {
	return Logger.With(
		"dataset", ctx.Dataset,
		"epoch", ctx.Epoch,
		"shuffle_seed", ctx.ShuffleSeed,
		"num_workers", ctx.NumWorkers,
	)
}

// IterationMetrics contains performance metrics for one iteration pass.
type IterationMetrics struct {
	// Batches is the number of batches emitted
	Batches int
	// Samples is the number of samples emitted
	Samples int
	// Duration is the total wall-clock time of the pass
	Duration time.Duration
}

// LogIterationEnd logs the end of an iteration pass with throughput metrics.
func LogIterationEnd(ctx IterationContext, m IterationMetrics) {
	perSecond := 0.0
	if m.Duration > 0 {
		perSecond = float64(m.Samples) / m.Duration.Seconds()
	}
	WithIteration(ctx).Info("iteration complete",
		"batches", m.Batches,
		"samples", m.Samples,
		"duration_ms", m.Duration.Milliseconds(),
		"samples_per_second", perSecond,
	)
}
