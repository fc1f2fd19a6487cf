// Package logger provides structured logging for tabprep.
// It wraps log/slog so library packages and the CLI share one logger.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	slogseq "github.com/sokkalf/slog-seq"
)

// Logger is the default logger instance.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// WithStep returns a logger carrying the transformer name and its position in a pipeline.
func WithStep(name string, index int) *slog.Logger {
	return Logger.With("step", name, "step_index", index)
}

// fanout forwards log records to multiple handlers
type fanout struct {
	handlers []slog.Handler
}

func (m *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: handlers}
}

func (m *fanout) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &fanout{handlers: handlers}
}

// Setup installs the global logger at the given level. When seqURL is set,
// records are also shipped to that Seq server. The returned func flushes
// and closes the Seq handler and must be called before exit.
func Setup(level slog.Level, seqURL string) func() {
	console := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	if seqURL == "" {
		Logger = slog.New(console)
		return func() {}
	}

	_, seqHandler := slogseq.NewLogger(
		seqURL,
		slogseq.WithBatchSize(50),
		slogseq.WithFlushInterval(500*time.Millisecond),
		slogseq.WithHandlerOptions(&slog.HandlerOptions{Level: level}),
	)
	if seqHandler == nil {
		Logger = slog.New(console)
		Logger.Warn("seq logging unavailable, using console only", "seq_url", seqURL)
		return func() {}
	}

	Logger = slog.New(&fanout{handlers: []slog.Handler{console, seqHandler}})
	return func() { seqHandler.Close() }
}
