package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/model"
)

var (
	runKeywords []string
	runMaxLeads int
	runMinCount int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lead pipeline for a job search",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runMinCount > 0 {
			cfg.Pipeline.MinEmployeeCount = runMinCount
		}

		env, err := initPipeline(ctx, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		search := searchFromConfig()
		if len(runKeywords) > 0 {
			search.Keywords = runKeywords
		}
		if runMaxLeads > 0 {
			search.MaxLeads = runMaxLeads
		}
		if len(search.Keywords) == 0 {
			return eris.New("no search keywords configured")
		}

		run, err := env.Pipeline.Run(ctx, search)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run complete",
			zap.String("run_id", run.ID),
			zap.String("status", string(run.Status)),
			zap.Int("dispatched", dispatched(run)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func dispatched(run *model.Run) int {
	if run.Summary == nil {
		return 0
	}
	return run.Summary.Dispatched()
}

func init() {
	runCmd.Flags().StringSliceVar(&runKeywords, "keywords", nil, "search keywords (default from config)")
	runCmd.Flags().IntVar(&runMaxLeads, "max-leads", 0, "maximum postings to scrape (default from config)")
	runCmd.Flags().IntVar(&runMinCount, "min-employees", 0, "minimum employee count filter (default from config)")
	rootCmd.AddCommand(runCmd)
}
