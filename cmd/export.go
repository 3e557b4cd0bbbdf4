package main

import (
	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/leadstore"
	"github.com/growthlane/outreach-cli/pkg/notion"
	sfpkg "github.com/growthlane/outreach-cli/pkg/salesforce"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted leads to Salesforce",
	Long:  "Reads the persisted lead store and inserts Lead records into Salesforce in batches.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Notion.Token == "" || cfg.Notion.LeadDB == "" {
			return eris.New("notion lead store is not configured")
		}
		sfClient, err := initSalesforce()
		if err != nil {
			return err
		}

		leads := leadstore.NewNotionStore(notion.NewClient(cfg.Notion.Token), cfg.Notion.LeadDB)
		existing, err := leads.ReadExisting(ctx)
		if err != nil {
			return eris.Wrap(err, "read lead store")
		}
		if len(existing) == 0 {
			zap.L().Info("no leads to export")
			return nil
		}

		records := make([]map[string]any, 0, len(existing))
		for _, l := range existing {
			if l.Email == "" {
				continue
			}
			records = append(records, map[string]any{
				"Email":    l.Email,
				"Company":  l.CompanyName,
				"LastName": l.CompanyName, // Salesforce requires LastName; company stands in when the contact is unknown
			})
		}

		results, err := sfClient.InsertCollection(ctx, "Lead", records)
		if err != nil {
			return eris.Wrap(err, "insert leads")
		}

		success, failed := 0, 0
		for _, r := range results {
			if r.Success {
				success++
			} else {
				failed++
				zap.L().Warn("lead insert failed", zap.Strings("errors", r.Errors))
			}
		}

		zap.L().Info("export complete",
			zap.Int("inserted", success),
			zap.Int("failed", failed),
		)
		return nil
	},
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ConsumerKey == "" {
		return nil, eris.New("salesforce consumer key is required (OUTREACH_SALESFORCE_CONSUMER_KEY)")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.Domain,
		ConsumerKey:    cfg.Salesforce.ConsumerKey,
		ConsumerSecret: cfg.Salesforce.ConsumerSecret,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}
	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(5)), nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
