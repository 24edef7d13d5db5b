package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/healerjang/imgspace/internal/config"
	"github.com/healerjang/imgspace/internal/logging"
	"github.com/healerjang/imgspace/internal/paths"
	"github.com/healerjang/imgspace/internal/sqlite"
	"github.com/healerjang/imgspace/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// skipStore marks commands that run without opening the database.
const skipStore = "skip-store"

// app holds global flag values and the resources opened for one invocation.
type app struct {
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool

	stdout io.Writer
	stderr io.Writer

	configDir string
	dataDir   string
	cfg       config.File
	logger    *slog.Logger
	closeLog  func() error
	store     *sqlite.Backend
}

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps a command error onto a process exit code. Storage I/O
// failures are system errors; everything else is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, types.ErrIO) || errors.Is(err, types.ErrDetached) {
		return exitSysError
	}
	return exitUserError
}

// execute runs the CLI with args and returns the exit code. Resources opened
// by the command are always released.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if cerr := a.teardown(); err == nil && cerr != nil {
		err = sysError("closing: %w", cerr)
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "imgspace",
		Short: "Manage image-labeling workspaces",
		Long: `imgspace groups images into workspaces, tags them with hierarchical labels,
organizes them into nested sets, and ingests images in bulk from a directory tree.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipStore] != "" || cmd.Name() == "help" || cmd.Name() == cobra.ShellCompRequestCmd {
				return nil
			}
			return a.open(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (default: $IMGSPACE_CONFIG_DIR or the user config dir)")
	root.PersistentFlags().StringVar(&a.flagDataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newResetCmd(a),
		newInfoCmd(a),
		newWorkspaceCmd(a),
		newStreamCmd(a),
		newLabelCmd(a),
		newSetCmd(a),
		newImageCmd(a),
		newIngestCmd(a),
		newMapCmd(a),
	)
	return root
}

// open loads configuration, builds the logger and opens the store, creating
// the schema when it is missing.
func (a *app) open(ctx context.Context) error {
	configDir, err := paths.ResolveConfigDir(a.flagConfigDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return sysError("load config: %w", err)
	}
	dataDir, err := paths.ResolveDataDir(a.flagDataDir, cfg.DataDir)
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}

	logCfg := cfg.Log
	logCfg.File = paths.ResolveLogFile(logCfg.File, dataDir)
	logger, closeLog, err := logging.New(logCfg, a.stderr)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	a.configDir, a.dataDir, a.cfg = configDir, dataDir, cfg
	a.logger, a.closeLog = logger, closeLog

	storeCfg := cfg.StoreConfig(dataDir)
	if err := storeCfg.Validate(); err != nil {
		return fmt.Errorf("invalid config in %s: %w", configDir, err)
	}
	a.store = sqlite.NewBackend(storeCfg, sqlite.WithLogger(logger))
	if _, err := a.store.Conn(ctx); err != nil {
		return sysError("open store: %w", err)
	}

	ok, err := a.store.SchemaExists(ctx)
	if err != nil {
		return sysError("inspect schema: %w", err)
	}
	if !ok {
		if err := a.store.EnsureSchema(ctx); err != nil {
			return sysError("create schema: %w", err)
		}
		logger.Info("schema created", "path", storeCfg.DatabasePath())
	}
	return nil
}

// teardown closes the store and the log file.
func (a *app) teardown() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
		a.closeLog = nil
	}
	return errors.Join(errs...)
}
