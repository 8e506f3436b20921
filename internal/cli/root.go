// Package cli is the quicknotes command line: the TUI by default, plus
// subcommands for scripting, import/export, backups and the MCP server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quicknotes/internal/app"
	"quicknotes/internal/config"
	"quicknotes/internal/errs"
	"quicknotes/internal/logging"
	"quicknotes/internal/tui"
)

// env is the state shared by every command of one invocation.
type env struct {
	// flags
	configPath string
	dbPath     string
	driver     string
	dsn        string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	e := &env{}
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := e.close(); err == nil {
		err = closeErr
	}
	if err == nil {
		return 0
	}

	red := color.New(color.FgRed, color.Bold)
	red.Fprint(stderr, "Error: ")
	fmt.Fprintln(stderr, e.describe(err))
	return errs.ExitCode(errs.CodeOf(err))
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "quicknotes",
		Short: "Small single-word-heading notes, in your terminal",
		Long: `quicknotes keeps short text notes in a local database.

Run without arguments to open the interactive interface. Every note has a
one-word heading and a non-blank body.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal, so it only logs to a file.
			return e.setup(cmd, cmd == cmd.Root())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go a.Run(ctx)
			return tui.Run(ctx, a.Notes())
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errs.Wrap(errs.InvalidArgument, "invalid flags", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&e.configPath, "config", "", "config file (default ~/.config/quicknotes/config.yaml)")
	pf.StringVar(&e.dbPath, "db", "", "SQLite database file")
	pf.StringVar(&e.driver, "driver", "", "store driver: sqlite, postgres, mysql or mongodb")
	pf.StringVar(&e.dsn, "dsn", "", "connection string for postgres, mysql or mongodb")
	pf.BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCmd(e),
		newAddCmd(e),
		newEditCmd(e),
		newRmCmd(e),
		newShowCmd(e),
		newWatchCmd(e),
		newExportCmd(e),
		newImportCmd(e),
		newBackupCmd(e),
		newMCPCmd(e),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (e *env) setup(cmd *cobra.Command, interactive bool) error {
	var err error
	if e.configPath != "" {
		e.cfg, err = config.Load(e.configPath)
	} else {
		e.cfg, err = config.LoadOrDefault(config.DefaultPath())
	}
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return errs.Wrap(errs.InvalidArgument, "invalid configuration", err)
		}
		return errs.Wrap(errs.InvalidArgument, "could not load configuration", err)
	}

	if e.driver != "" {
		e.cfg.Store.Driver = e.driver
	}
	if e.dbPath != "" {
		e.cfg.Store.Path = config.ExpandHome(e.dbPath)
	}
	if e.dsn != "" {
		e.cfg.Store.DSN = e.dsn
	}
	if err := e.cfg.Validate(); err != nil {
		return errs.Wrap(errs.InvalidArgument, "invalid configuration", err)
	}

	if interactive && e.cfg.Logging.File == "" {
		e.logger = zap.NewNop()
		return nil
	}
	e.logger, err = logging.New(e.cfg.Logging, e.verbose)
	if err != nil {
		return errs.Wrap(errs.InvalidArgument, "could not set up logging", err)
	}
	e.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("driver", e.cfg.Store.Driver))
	return nil
}

// open builds the App on first use.
func (e *env) open(ctx context.Context) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	a, err := app.Open(ctx, e.cfg, e.logger)
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := e.app.Close(ctx)
	e.app = nil
	return err
}

// describe picks the message shown for a failed command. Coded errors show
// their user-facing message; --verbose shows the whole chain.
func (e *env) describe(err error) string {
	if e.verbose {
		return err.Error()
	}
	var coded *errs.Error
	if errors.As(err, &coded) {
		if errs.CodeOf(err) == errs.InvalidArgument && coded.Err != nil {
			// Configuration and flag problems are only useful with their detail.
			return err.Error()
		}
		return errs.MessageOf(err)
	}
	return err.Error()
}
