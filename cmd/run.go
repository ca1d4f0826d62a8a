package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/knowledge"
	"github.com/sells-group/leadscout/internal/model"
)

var (
	runSources   []string
	runFiles     []string
	runSample    bool
	runBatchSize int
	runQuery     string
	runInsights  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lead generation pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		urls := append(append([]string(nil), cfg.Sources.URLs...), runSources...)
		files := append(append([]string(nil), cfg.Sources.Files...), runFiles...)
		if len(urls) == 0 && len(files) == 0 && !runSample {
			return eris.New("no sources configured: pass --source, --file, or --sample")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		orch, err := buildOrchestrator(st, urls, files, runSample, runBatchSize)
		if err != nil {
			return err
		}

		run, err := orch.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run complete",
			zap.String("run_id", run.ID),
			zap.Int("leads", run.Report.TotalLeads),
			zap.Int("failures", len(run.Report.Failures)),
		)

		out := runOutput{Run: run}
		if runQuery != "" {
			out.Query = orch.Index().Query(runQuery)
		}
		if runInsights {
			insights := orch.Index().Insights()
			out.Insights = &insights
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

type runOutput struct {
	Run      *model.Run               `json:"run"`
	Query    []knowledge.ScoredResult `json:"query_results,omitempty"`
	Insights *knowledge.InsightReport `json:"insights,omitempty"`
}

func init() {
	runCmd.Flags().StringArrayVar(&runSources, "source", nil, "listing URL to scan (repeatable)")
	runCmd.Flags().StringArrayVar(&runFiles, "file", nil, "lead spreadsheet to import (repeatable)")
	runCmd.Flags().BoolVar(&runSample, "sample", false, "use built-in sample records when no sources are given")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "max records to process this run (0 = config default)")
	runCmd.Flags().StringVar(&runQuery, "query", "", "query the knowledge base after the run")
	runCmd.Flags().BoolVar(&runInsights, "insights", false, "include market insights in the output")
	rootCmd.AddCommand(runCmd)
}
