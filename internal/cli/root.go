package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"itus/internal/config"
)

// Set with -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// ConfigError means the invocation itself is unusable: no stop or platform,
// a bad flag value or a bad configuration file. Nothing has been queried.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type App struct {
	ConfigPath string

	stdout io.Writer
	logger *log.Logger
}

func NewApp(stdout, stderr io.Writer) *App {
	return &App{
		stdout: stdout,
		logger: log.New(stderr, "[itus] ", log.LstdFlags),
	}
}

// loadConfig layers the environment, the optional config file and validation.
func (a *App) loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if a.ConfigPath != "" {
		if err := config.LoadFile(cfg, a.ConfigPath); err != nil {
			return nil, &ConfigError{Msg: "invalid configuration", Err: err}
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Msg: "invalid configuration", Err: err}
	}
	return cfg, nil
}

func NewRootCmd(app *App) *cobra.Command {
	flags := &boardFlags{}

	cmd := &cobra.Command{
		Use:           "itus",
		Short:         "Show upcoming departures from Norwegian public transport stops",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd, app, flags)
		},
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"config",
		"",
		"Path to a YAML or TOML configuration file",
	)
	addBoardFlags(cmd, flags)

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &ConfigError{Msg: err.Error()}
	})

	cmd.AddCommand(NewBoardCmd(app))
	cmd.AddCommand(NewServeCmd(app))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &ConfigError{Msg: fmt.Sprintf("unexpected argument %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

// Main runs the command line and returns the process exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return run(ctx, args, stdout, stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := NewApp(stdout, stderr)
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return exitOK
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(stderr, cfgErr.Error())
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	}

	app.logger.Printf("error: %v", err)
	return exitFailure
}
