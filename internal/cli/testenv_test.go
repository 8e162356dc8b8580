package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cfgsync/internal/paths"
)

// testEnv is an isolated config directory, store file and scratch space.
type testEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DBPath    string
}

// cmdResult holds one invocation's output and exit code.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv(paths.EnvDB, "")
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv("CFGSYNC_LOG_FILE", "")
	t.Setenv("CFGSYNC_LOG_LEVEL", "")

	return &testEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: filepath.Join(tempDir, "config"),
		DBPath:    filepath.Join(tempDir, "data", "db.sqlite"),
	}
}

// Run executes cfgsync with the env's config dir and store.
func (e *testEnv) Run(args ...string) cmdResult {
	e.t.Helper()
	all := append([]string{"--config-dir", e.ConfigDir, "--db", e.DBPath}, args...)
	return e.RunRaw(all...)
}

// RunRaw executes cfgsync with exactly args.
func (e *testEnv) RunRaw(args ...string) cmdResult {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// MustRun executes cfgsync and fails the test on a non-zero exit.
func (e *testEnv) MustRun(args ...string) cmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != exitSuccess {
		e.t.Fatalf("cfgsync %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// WriteFile creates a file under the env's temp dir and returns its path.
func (e *testEnv) WriteFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.TempDir, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ReadFile returns the content of path.
func (e *testEnv) ReadFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(e.t, err)
	return string(data)
}
