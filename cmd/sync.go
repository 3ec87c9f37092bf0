package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mikemajara/ai-chatbot/internal/capability"
	"github.com/mikemajara/ai-chatbot/internal/db"
	"github.com/mikemajara/ai-chatbot/internal/model"
	"github.com/mikemajara/ai-chatbot/internal/op"
	"github.com/mikemajara/ai-chatbot/internal/price"
	"github.com/mikemajara/ai-chatbot/internal/reconcile"
	"github.com/mikemajara/ai-chatbot/internal/scrape"
	"github.com/mikemajara/ai-chatbot/internal/syncer"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var syncFlags struct {
	preview          bool
	source           string
	json             bool
	allowScrapeApply bool
	seed             bool
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile stored model capabilities with a desired source",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		switch syncFlags.source {
		case syncer.SourceStatic:
		case syncer.SourceScrape:
			if !syncFlags.preview && !syncFlags.allowScrapeApply {
				return fmt.Errorf("applying scraped data requires --allow-scrape-apply")
			}
		default:
			return fmt.Errorf("unknown source %q, expected %s or %s", syncFlags.source, syncer.SourceStatic, syncer.SourceScrape)
		}
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		mapping, err := loadMapping()
		if err != nil {
			return err
		}
		if syncFlags.seed {
			if err := seedFromMapping(ctx, store, mapping); err != nil {
				return err
			}
		}

		var source reconcile.Source = mapping
		var scrapeErrors []string
		if syncFlags.source == syncer.SourceScrape {
			scraper, err := newScraper()
			if err != nil {
				return err
			}
			res := scraper.Scrape(ctx)
			scrapeErrors = res.Errors
			source = scrape.NewSource(res)
		}

		s := syncer.New(store, source, syncer.WithSourceName(syncFlags.source))
		mode := model.SyncModeApply
		if syncFlags.preview {
			mode = model.SyncModePreview
		}
		report, err := s.Run(ctx, mode)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if syncFlags.json {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(out, report, scrapeErrors)
		return nil
	},
}

// seedFromMapping inserts mapping models missing from the store, without prices.
func seedFromMapping(ctx context.Context, store *op.ModelStore, mapping *capability.Mapping) error {
	current, err := store.CurrentModels(ctx)
	if err != nil {
		return err
	}
	known := lo.SliceToMap(current, func(r model.CapabilityRecord) (string, struct{}) {
		return r.ID, struct{}{}
	})
	missing := lo.FilterMap(mapping.Entries(), func(r model.CapabilityRecord, _ int) (model.CapabilityRecord, bool) {
		_, ok := known[r.ID]
		return model.CapabilityRecord{ID: r.ID}, !ok
	})
	return store.ModelsUpsert(ctx, missing)
}

func printReport(out io.Writer, r *model.SyncReport, scrapeErrors []string) {
	fmt.Fprintf(out, "mode: %s  source: %s  at: %s\n", r.Mode, r.Source, r.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(out, "models: %d  in source: %d  updated: %d  unchanged: %d  not in source: %d  failed: %d\n",
		r.TotalModels, r.InSource, r.UpdatedCount, r.UnchangedCount, r.NotInSourceCount, r.FailedCount)
	if len(r.UpdatedModels) > 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tIMAGE GEN\tWEB SEARCH")
		for _, m := range r.UpdatedModels {
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, price.Format(m.PricingImageGen), price.Format(m.PricingWebSearch))
		}
		w.Flush()
	}
	for _, e := range r.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
	for _, e := range scrapeErrors {
		fmt.Fprintf(out, "scrape: %s\n", e)
	}
}

func init() {
	syncCmd.Flags().BoolVar(&syncFlags.preview, "preview", false, "report changes without writing")
	syncCmd.Flags().StringVar(&syncFlags.source, "source", syncer.SourceStatic, "desired source: static or scrape")
	syncCmd.Flags().BoolVar(&syncFlags.json, "json", false, "print the report as JSON")
	syncCmd.Flags().BoolVar(&syncFlags.allowScrapeApply, "allow-scrape-apply", false, "allow writing scraped capability data")
	syncCmd.Flags().BoolVar(&syncFlags.seed, "seed", false, "insert mapping models missing from the store before syncing")
	rootCmd.AddCommand(syncCmd)
}
