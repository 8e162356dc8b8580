// Package cli implements the cfgsync command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cfgsync/internal/paths"
	"github.com/mesh-intelligence/cfgsync/internal/sqlite"
	"github.com/mesh-intelligence/cfgsync/internal/tracker"
	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// annotationNoStore marks commands that run without opening the store.
const annotationNoStore = "cfgsync/no-store"

// rootFlags holds global flag values.
type rootFlags struct {
	db        string
	configDir string
	verbose   bool
}

// session is the per-invocation state built by the root pre-run hook and
// released by close.
type session struct {
	flags     rootFlags
	configDir string
	settings  settings
	log       *slog.Logger
	logCloser io.Closer
	backend   *sqlite.Backend
	tracker   *tracker.Tracker
}

// NewRootCmd creates the top-level "cfgsync" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

func newRootCmd() (*cobra.Command, *session) {
	s := &session{log: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "cfgsync",
		Short: "Track config files across named versions",
		Long: "cfgsync stores text configuration files in a local SQLite database, grouped\n" +
			"under named versions, and copies them between the database and the filesystem.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Annotations:       map[string]string{annotationNoStore: "true"},
		Args:              rangeArgs(0, 0),
		PersistentPreRunE: s.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", types.ErrAmbiguousInput, err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&s.flags.db, "db", "d", "", "store file (default: config db, $CFGSYNC_DB, or ./db.sqlite)")
	pf.StringVar(&s.flags.configDir, "config-dir", "", "configuration directory (default: $CFGSYNC_CONFIG_DIR or the platform config dir)")
	pf.BoolVarP(&s.flags.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(s),
		newAddCmd(s),
		newReadCmd(s),
		newWriteCmd(s),
		newDeleteCmd(s),
		newUpdateCmd(s),
		newListCmd(s),
		newExportCmd(s),
		newImportCmd(s),
	)
	return root, s
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one invocation and returns its exit code. The store is
// released on every path.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root, s := newRootCmd()
	defer s.close()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		s.log.Debug("command failed", "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error to 1 for caller mistakes and 2 for everything else.
func exitCode(err error) int {
	if types.IsUserError(err) {
		return exitUserError
	}
	return exitSysError
}

// open loads settings, sets up logging, attaches the store and builds the
// tracker. Commands annotated with annotationNoStore skip all of it.
func (s *session) open(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationNoStore] != "" || cmd.Name() == "help" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(s.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	s.configDir = configDir

	cfg, err := loadSettings(configDir)
	if err != nil {
		return err
	}
	s.settings = cfg

	logger, closer, err := newLogger(cfg, s.flags.verbose, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s.log = logger.With("run", runID(), "cmd", cmd.CommandPath())
	s.logCloser = closer

	dbPath, err := paths.ResolveDBPath(s.flags.db, cfg.DB)
	if err != nil {
		return fmt.Errorf("resolve db path: %w", err)
	}

	backend := sqlite.NewBackend(s.log)
	if err := backend.Attach(types.StoreConfig{Path: dbPath}); err != nil {
		return err
	}
	s.backend = backend
	if err := backend.Init(cmd.Context()); err != nil {
		return err
	}

	opts := []tracker.Option{tracker.WithLogger(s.log)}
	if style := headerStyle(cmd.OutOrStdout()); style != nil {
		opts = append(opts, tracker.WithHeaderStyle(style))
	}
	tr, err := tracker.New(backend, opts...)
	if err != nil {
		return err
	}
	s.tracker = tr
	return nil
}

// close detaches the store and closes the log sink. Idempotent.
func (s *session) close() error {
	var errs []error
	if s.backend != nil {
		errs = append(errs, s.backend.Detach())
		s.backend = nil
		s.tracker = nil
	}
	if s.logCloser != nil {
		errs = append(errs, s.logCloser.Close())
		s.logCloser = nil
	}
	return errors.Join(errs...)
}

// rangeArgs is cobra.RangeArgs with failures reported as user errors.
func rangeArgs(lo, hi int) cobra.PositionalArgs {
	check := cobra.RangeArgs(lo, hi)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", types.ErrAmbiguousInput, err)
		}
		return nil
	}
}

// absPath makes a user-supplied file path absolute so stored paths do not
// depend on the working directory of later invocations.
func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}
