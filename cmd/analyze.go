package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/model"
)

var (
	analyzeAddress string
	analyzeOwner   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run financial analysis for a single property",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		analyzer := buildAnalyzer()
		fa := analyzer.Analyze(ctx, analyzeAddress, model.PropertyHints{})

		out := struct {
			Owner    string                   `json:"owner,omitempty"`
			Analysis *model.FinancialAnalysis `json:"analysis"`
		}{
			Owner:    analyzeOwner,
			Analysis: fa,
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAddress, "address", "", "property address (required)")
	analyzeCmd.Flags().StringVar(&analyzeOwner, "owner", "", "property owner")
	_ = analyzeCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(analyzeCmd)
}
