// Package cli provides the dqi command-line interface.
//
// It analyzes CSV files locally with the same engine and report store the
// server uses, and prints reports as tables or JSON.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dqi/internal/config"
	"github.com/JonMunkholm/dqi/internal/dqi"
	"github.com/JonMunkholm/dqi/internal/logging"
	"github.com/JonMunkholm/dqi/internal/store"
)

// Version information (set at build time).
var Version = dqi.EngineVersion

// StoreOpener returns the report store used by save, show and delete.
type StoreOpener func(ctx context.Context) (store.ReportStore, error)

type app struct {
	openStore StoreOpener
	verbose   bool
	logger    *slog.Logger
}

// NewRootCmd creates the root command. Stored reports go to the store
// selected by the environment configuration.
func NewRootCmd() *cobra.Command {
	return newRootCmd(openConfiguredStore)
}

func newRootCmd(open StoreOpener) *cobra.Command {
	a := &app{openStore: open}

	rootCmd := &cobra.Command{
		Use:   "dqi",
		Short: "Data quality intelligence for CSV files",
		Long: `dqi scores a CSV file across seven quality dimensions (completeness,
consistency, uniqueness, validity, timeliness, accuracy, integrity) and
explains the result with findings, recommendations and a compliance verdict.`,
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "warn"
			if a.verbose {
				level = "debug"
			}
			a.logger = logging.New(cmd.ErrOrStderr(), level, "text")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newAnalyzeCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newDeleteCommand(a))

	return rootCmd
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return run(ctx, cmd, stderr)
}

func run(ctx context.Context, cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func openConfiguredStore(ctx context.Context) (store.ReportStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}
