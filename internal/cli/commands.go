package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dqi/internal/core"
	"github.com/JonMunkholm/dqi/internal/dqi"
	"github.com/JonMunkholm/dqi/internal/store"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var (
		asJSON bool
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a CSV file",
		Long: `Analyze a CSV file and print its quality report.

The report is printed as tables unless --json is given. With --save it is
also written to the configured report store (STORE_DRIVER) and can be read
back later with "dqi show".`,
		Example: `  # Print the report for a file
  dqi analyze orders.csv

  # Keep the report and print it as JSON
  dqi analyze orders.csv --save --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return err
			}

			var reports store.ReportStore
			if save {
				if reports, err = a.openStore(cmd.Context()); err != nil {
					return fmt.Errorf("open report store: %w", err)
				}
			}

			engine := dqi.New(dqi.WithLogger(a.logger))
			svc := core.NewService(engine, reports, core.ServiceOptions{Logger: a.logger})
			defer svc.Close()

			report, err := svc.Analyze(cmd.Context(), core.AnalyzeRequest{
				FileName: filepath.Base(path),
				Size:     info.Size(),
				Content:  f,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			renderReport(cmd.OutOrStdout(), report)
			if save {
				fmt.Fprintf(cmd.OutOrStdout(), "\nSaved as %s\n", report.AuditTrail.EvaluationID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Store the report in the configured report store")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer reports.Close()

			report, err := reports.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := a.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer reports.Close()

			if _, err := reports.Get(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := reports.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError shows the mapped user message, with the technical cause when
// it adds something.
func printError(w io.Writer, err error) {
	if !core.IsUserFacing(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %s\n", core.FormatUserError(err))
	fmt.Fprintf(w, "  cause: %v\n", err)
}
