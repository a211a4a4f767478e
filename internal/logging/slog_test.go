package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssisaa/solwatch/types"
)

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	var _ types.Logger = (*SlogLogger)(nil)
}

func TestSlogLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlog(slog.New(handler))

	logger.Debug("debug message", "id", 7)
	logger.Info("info message", "kind", "account")
	logger.Warn("warn message")
	logger.Error("error message", "err", "boom")

	out := buf.String()
	require.Contains(t, out, "debug message")
	require.Contains(t, out, "id=7")
	require.Contains(t, out, "info message")
	require.Contains(t, out, "kind=account")
	require.Contains(t, out, "warn message")
	require.Contains(t, out, "err=boom")
}

func TestNopLogger_DiscardsEverything(t *testing.T) {
	logger := NewNop()

	// Must not panic, and Fatal must not exit.
	logger.Debug("msg")
	logger.Info("msg", "k", "v")
	logger.Warn("msg")
	logger.Error("msg")
	logger.Fatal("msg")
}
