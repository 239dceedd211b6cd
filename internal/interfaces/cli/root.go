// Package cli implements the litigraph command line. Commands talk to a
// Backend: the HTTP API when --server is set, the stores and the patent API
// directly otherwise.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"

	// annotationNeeds lists the local components a command uses, comma
	// separated. Commands without it never build a backend.
	annotationNeeds = "needs"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	Server       string
	Token        string
	OutputFormat string
	NoColor      bool
	Verbose      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Options *RootOptions
	Logger  logging.Logger
	Backend Backend
}

// BackendFactory builds the backend for a command. needs is the command's
// annotation split on commas.
type BackendFactory func(ctx context.Context, opts *RootOptions, logger logging.Logger, needs []string) (Backend, error)

// NewRootCommand creates the root command. A nil factory selects the remote
// backend when --server is set and the local one otherwise.
func NewRootCommand(factory BackendFactory) *cobra.Command {
	if factory == nil {
		factory = DefaultBackend
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "litigraph",
		Short: "Patent search and litigation graph explorer",
		Long: "litigraph searches patents, shows the litigation graph around an inventor or\n" +
			"company and browses the patent holder registry.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts, factory)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if cc, err := GetCLIContext(cmd); err == nil && cc.Backend != nil {
				return cc.Backend.Close()
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: PLG_* environment)")
	pf.StringVar(&opts.Server, "server", os.Getenv("LITIGRAPH_SERVER"), "API server URL; empty talks to the stores directly")
	pf.StringVar(&opts.Token, "token", os.Getenv("LITIGRAPH_TOKEN"), "bearer token for --server")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputTable, "output format (table, json)")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug output to stderr")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "overall command timeout")

	cmd.AddCommand(
		newSearchCmd(),
		newPatentCmd(),
		newGraphCmd(),
		newHoldersCmd(),
		newImportCmd(),
		newVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, factory BackendFactory) error {
	switch opts.OutputFormat {
	case OutputTable, OutputJSON:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q; expected table or json", opts.OutputFormat))
	}
	if opts.NoColor {
		color.NoColor = true
	}

	logger, err := initLogger(cmd.ErrOrStderr(), opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cc := &CLIContext{Options: opts, Logger: logger}

	if needs, ok := cmd.Annotations[annotationNeeds]; ok {
		b, err := factory(ctx, opts, logger, strings.Split(needs, ","))
		if err != nil {
			return err
		}
		cc.Backend = b
	}

	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cc))
	return nil
}

// initLogger keeps stdout for results. Only warnings reach stderr unless
// --verbose is set.
func initLogger(w io.Writer, opts *RootOptions) (logging.Logger, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	if w == os.Stderr {
		return logging.NewLogger(logging.LogConfig{
			Level:            level,
			Format:           "console",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		})
	}
	return logging.NewNopLogger(), nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cc, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cc == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cc, nil
}

// withTimeout bounds a command by --timeout.
func (cc *CLIContext) withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if cc.Options.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), cc.Options.Timeout)
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	root := NewRootCommand(nil)
	if err := root.Execute(); err != nil {
		PrintError(root, err)
		return err
	}
	return nil
}

// PrintError writes err to stderr. API errors keep their code and request id.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			info := map[string]string{"version": Version, "commit": GitCommit, "build_date": BuildDate}
			if cc.Options.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "litigraph %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

//Personal.AI order the ending
