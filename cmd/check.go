package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/growthlane/outreach-cli/internal/leadstore"
	"github.com/growthlane/outreach-cli/pkg/notion"
)

type checkResult struct {
	name string
	err  error
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and collaborator connectivity",
	Long:  "Verifies the run store opens and that each configured API credential is present and reachable. Checks run in parallel.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		var results []checkResult
		g, gCtx := errgroup.WithContext(ctx)
		resCh := make(chan checkResult, 8)

		g.Go(func() error {
			st, err := initStore(gCtx)
			if err == nil {
				err = st.Migrate(gCtx)
				_ = st.Close()
			}
			resCh <- checkResult{name: "run store", err: err}
			return nil
		})

		g.Go(func() error {
			resCh <- checkResult{name: "apify", err: requireKey(cfg.Apify.Key, "OUTREACH_APIFY_KEY")}
			return nil
		})

		g.Go(func() error {
			resCh <- checkResult{name: "prospeo", err: requireKey(cfg.Prospeo.Key, "OUTREACH_PROSPEO_KEY")}
			return nil
		})

		g.Go(func() error {
			resCh <- checkResult{name: "anthropic", err: requireKey(cfg.Anthropic.Key, "OUTREACH_ANTHROPIC_KEY")}
			return nil
		})

		g.Go(func() error {
			resCh <- checkResult{name: "heyreach", err: requireKey(cfg.HeyReach.Key, "OUTREACH_HEYREACH_KEY")}
			return nil
		})

		g.Go(func() error {
			err := requireKey(cfg.Notion.Token, "OUTREACH_NOTION_TOKEN")
			if err == nil && cfg.Notion.LeadDB != "" {
				// The one live check: read the lead store projection.
				store := leadstore.NewNotionStore(notion.NewClient(cfg.Notion.Token), cfg.Notion.LeadDB)
				_, err = store.ReadExisting(gCtx)
			}
			resCh <- checkResult{name: "notion lead store", err: err}
			return nil
		})

		_ = g.Wait()
		close(resCh)
		for r := range resCh {
			results = append(results, r)
		}

		failed := 0
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, r := range results {
			if r.err != nil {
				failed++
				fmt.Fprintf(tw, "%s\tFAIL\t%v\n", r.name, r.err)
			} else {
				fmt.Fprintf(tw, "%s\tOK\t\n", r.name)
			}
		}
		tw.Flush()

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func requireKey(value, env string) error {
	if value == "" {
		return fmt.Errorf("not configured (%s)", env)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
