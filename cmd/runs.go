package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List pipeline run history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATE\tLEADS\tFAILURES\tCREATED")
		for _, run := range runs {
			leads, failures := "-", "-"
			if run.Report != nil {
				leads = fmt.Sprintf("%d", run.Report.TotalLeads)
				failures = fmt.Sprintf("%d", len(run.Report.Failures))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				run.ID, run.State, leads, failures,
				run.CreatedAt.Format(time.RFC3339),
			)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list")
	rootCmd.AddCommand(runsCmd)
}
