package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect pipeline run history",
	Long:  "Commands for listing runs, viewing run details, and inspecting failed dispatches.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipeline runs",
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

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- runs failures --

var runsFailuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "List leads rejected by a sink",
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

		runID, _ := cmd.Flags().GetString("run")
		sink, _ := cmd.Flags().GetString("sink")
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := st.ListDLQ(ctx, store.DLQFilter{
			RunID: runID,
			Sink:  sink,
			Limit: limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs failures")
		}

		if len(entries) == 0 {
			fmt.Fprintln(os.Stderr, "No failed dispatches.")
			return nil
		}

		formatDLQList(os.Stdout, entries)
		return nil
	},
}

func formatRunsList(w io.Writer, runs []model.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTATUS\tSCRAPED\tDISPATCHED\tCREATED")
	for _, r := range runs {
		scraped, dispatched := 0, 0
		if r.Summary != nil {
			scraped = r.Summary.Scraped
			dispatched = r.Summary.Dispatched()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.Status, scraped, dispatched,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	tw.Flush()
}

func formatDLQList(w io.Writer, entries []store.DLQEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SINK\tCOMPANY\tTYPE\tERROR\tWHEN")
	for _, e := range entries {
		msg := e.Error
		if len(msg) > 60 {
			msg = msg[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Sink, e.Company, e.ErrorType, msg,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	tw.Flush()
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status")
	runsListCmd.Flags().Int("limit", 20, "maximum runs to list")
	runsFailuresCmd.Flags().String("run", "", "filter by run id")
	runsFailuresCmd.Flags().String("sink", "", "filter by sink (lead_store or campaign)")
	runsFailuresCmd.Flags().Int("limit", 50, "maximum entries to list")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsFailuresCmd)
	rootCmd.AddCommand(runsCmd)
}
