package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// Rotation limits for the log file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the invocation logger. Output goes to stderr, or to a
// rotating file when log_file is set. verbose forces debug level.
func newLogger(cfg settings, verbose bool, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	var (
		w      io.Writer = stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		w, closer = lj, lj
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}

// parseLevel accepts debug, info, warn or error, case-insensitively.
func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		s = defaultLogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config %s %q: %w", cfgKeyLogLevel, s, types.ErrInvalidField)
	}
	return level, nil
}

// runID tags every log line of one invocation.
func runID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// headerStyle returns a bold renderer for tree headers when out is a
// terminal, and nil otherwise.
func headerStyle(out io.Writer) func(string) string {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	style := lipgloss.NewStyle().Bold(true)
	return func(s string) string { return style.Render(s) }
}
