package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/growthlane/outreach-cli/internal/pipeline"
)

var (
	importSheet   string
	importCharset string
	importMax     int
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Run the pipeline on a CSV or XLSX posting export",
	Long:  "Reads raw postings from a local export instead of scraping, then runs the normal normalize/dedupe/enrich/dispatch flow.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source := &pipeline.FileSource{
			Path:    args[0],
			Sheet:   importSheet,
			Charset: importCharset,
		}

		env, err := initPipeline(ctx, source)
		if err != nil {
			return err
		}
		defer env.Close()

		search := searchFromConfig()
		if importMax > 0 {
			search.MaxLeads = importMax
		}

		run, err := env.Pipeline.Run(ctx, search)
		if err != nil {
			return eris.Wrap(err, "import run")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "worksheet name for XLSX files (default first sheet)")
	importCmd.Flags().StringVar(&importCharset, "charset", "", "input charset for CSV files (default utf-8)")
	importCmd.Flags().IntVar(&importMax, "max-leads", 0, "cap on imported rows (default from config)")
	rootCmd.AddCommand(importCmd)
}
