package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/law-makers/nutricrawl/internal/app"
	"github.com/law-makers/nutricrawl/internal/config"
	"github.com/law-makers/nutricrawl/internal/crawler"
	"github.com/law-makers/nutricrawl/internal/export"
	"github.com/law-makers/nutricrawl/internal/ui"
	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	scrapeTemplate string
	scrapeOutput   string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [site|url ...]",
	Short: "Scrape nutrition facts from a menu site",
	Long: `Drives a browser through a menu site, opens every item and exports its
nutrition facts (calories, protein, carbs, fats, vegetarian, allergens).

A target is a built-in site name (see "nutricrawl sites") or a menu root URL.
For URLs on unknown hosts the page template must be named with --template.
With no target the default site is scraped.`,
	Example: `  # Scrape the default site into nutrislice_menu.csv
  nutricrawl scrape

  # Scrape both built-in sites as JSON
  nutricrawl scrape nutrislice starbucks --format json

  # Scrape another dining hall on a modal template
  nutricrawl scrape https://dining.example.edu/menu/lunch --template modal

  # Keep the markup of the first item for selector debugging
  nutricrawl scrape starbucks --save-first-detail -v`,
	Args: cobra.ArbitraryArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	config.RegisterScrapeFlags(scrapeCmd)
	scrapeCmd.Flags().StringVarP(&scrapeTemplate, "template", "t", "", "Force the page template for URL targets: modal or detail")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "Export file name (single target only)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	targets := args
	if len(targets) == 0 {
		targets = []string{""}
	}
	if scrapeOutput != "" && len(targets) > 1 {
		return fmt.Errorf("--output needs a single target, got %d", len(targets))
	}

	sink, err := export.For(export.Format(a.Config.Format))
	if err != nil {
		return err
	}

	// Resolve every target before launching a browser
	profiles := make([]crawler.Profile, 0, len(targets))
	for _, t := range targets {
		p, err := crawler.Resolve(t, models.TemplateKind(strings.ToLower(scrapeTemplate)))
		if err != nil {
			return err
		}
		profiles = append(profiles, p)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	var failed []string
	for _, p := range profiles {
		log.Info().Str("site", p.Name).Str("url", p.RootURL).Str("template", string(p.Kind)).Msg("Starting scrape")

		var obs crawler.Observer
		var bar *progressObserver
		if showProgress(a) {
			bar = newProgressObserver(cmd.ErrOrStderr(), p.Name)
			obs = bar
		}
		res, err := a.Scrape(ctx, p, app.ScrapeOptions{Observer: obs})
		if bar != nil {
			bar.finish()
		}

		if res == nil {
			fmt.Fprintf(out, "%s %s: %v\n", ui.Error("✗"), p.Name, err)
			failed = append(failed, p.Name)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		path, saveErr := save(a.Config.OutputDir, p, sink, res.Records)
		if saveErr != nil && !errors.Is(saveErr, export.ErrNoRecords) {
			return saveErr
		}
		if !quiet(a) {
			printSummary(out, p, res, path, err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d targets failed: %s", len(failed), len(profiles), strings.Join(failed, ", "))
	}
	return nil
}

func quiet(a *app.Application) bool { return a.Config.LogLevel == "error" }

// showProgress keeps the bar off when it would interleave with log lines
func showProgress(a *app.Application) bool {
	return !a.Config.JSONLog && !quiet(a) && a.Config.LogLevel != "debug"
}

// save writes records to the output dir. --output may carry a directory and
// the format's extension; both are honoured.
func save(dir string, p crawler.Profile, sink export.Sink, records []models.NutritionRecord) (string, error) {
	base := p.OutputName()
	if scrapeOutput != "" {
		base = strings.TrimSuffix(scrapeOutput, "."+sink.Extension())
		if d := filepath.Dir(base); d != "." {
			if filepath.IsAbs(base) {
				dir = d
			} else {
				dir = filepath.Join(dir, d)
			}
			base = filepath.Base(base)
		}
	}
	return export.Save(dir, base, sink, records)
}

func printSummary(w io.Writer, p crawler.Profile, res *crawler.Result, path string, runErr error) {
	st := res.Stats
	if len(res.Records) == 0 {
		fmt.Fprintf(w, "%s %s: no items found\n", ui.Info("!"), p.Name)
		if runErr != nil {
			fmt.Fprintf(w, "  %s\n", ui.Dim(runErr.Error()))
		}
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "  page saved to %s\n", ui.Bold(d))
		}
		return
	}

	fmt.Fprintf(w, "%s %s: %d items saved to %s\n", ui.Success("✓"), p.Name, len(res.Records), ui.Bold(path))
	fmt.Fprintf(w, "  %s\n", ui.Dim(fmt.Sprintf("discovered %d, rejected %d, failed %d in %s",
		st.Discovered, st.Rejected, st.Failed, st.Duration.Round(100*time.Millisecond))))
	if runErr != nil {
		fmt.Fprintf(w, "  %s\n", ui.Error("stopped early: "+runErr.Error()))
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(w, "  diagnostic saved to %s\n", d)
	}
}
