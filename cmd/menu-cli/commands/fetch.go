package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"bruinmenu/lib/scrapers/dining"
	"bruinmenu/lib/scrapers/dining/request"
	"bruinmenu/lib/timezone"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const (
	progressLines = "lines"
	progressBar   = "bar"
	progressNone  = "none"
)

var (
	fetchSelection   selection
	fetchWithDetails bool
	fetchFormat      string
	fetchOut         string
	fetchDb          string
	fetchConcurrency int
	fetchProgress    string
)

func init() {
	fetchSelection.register(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchWithDetails, "with-details", false, "Also fetch the recipe page of every item.")
	fetchCmd.Flags().StringVar(&fetchFormat, "format", formatVerbose, "Output format: verbose, compact, text or table.")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Write the output to this file instead of stdout.")
	fetchCmd.Flags().StringVar(&fetchDb, "db", "", "Store the fetched menus in this database, overrides the config.")
	fetchCmd.Flags().IntVar(&fetchConcurrency, "concurrency", 0, "Pages fetched at once, overrides the config.")
	fetchCmd.Flags().StringVar(&fetchProgress, "progress", progressLines, "Progress reporting: lines, bar or none.")
	rootCmd.AddCommand(fetchCmd)
}

func progressReporter(mode string, total int) (func(request.MenuRequest, error), error) {
	switch mode {
	case progressNone:
		return nil, nil
	case progressLines:
		return func(req request.MenuRequest, err error) {
			printProgressLine(os.Stderr, req, err)
		}, nil
	case progressBar:
		bar := progressbar.NewOptions(
			total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Fetching menus"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		return func(request.MenuRequest, error) {
			bar.Add(1)
		}, nil
	}
	return nil, fmt.Errorf("unknown progress mode %q", mode)
}

func printProgressLine(w io.Writer, req request.MenuRequest, err error) {
	status := "done"
	if err != nil {
		status = "skipped"
	}
	fmt.Fprintf(w, "Fetching %s ... [%s]\n", req, status)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--all | --days N | --date YYYY-MM-DD...] [--restaurant NAME] [--meal NAME]",
	Short: "Fetches menus and prints or stores them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := validateFormat(fetchFormat)
		if err != nil {
			return err
		}
		reqs, err := fetchSelection.requests()
		if err != nil {
			return err
		}

		config := cfg
		if fetchDb != "" {
			config.Db = fetchDb
		}
		if fetchConcurrency > 0 {
			config.Concurrency = fetchConcurrency
		}

		onProgress, err := progressReporter(fetchProgress, len(reqs))
		if err != nil {
			return err
		}

		client, releaseClient, err := config.newClient()
		if err != nil {
			return err
		}
		defer releaseClient()

		ctx := cmd.Context()
		start := time.Now()
		result := client.Scrape(ctx, reqs, dining.ScrapeOptions{
			Concurrency: config.Concurrency,
			WithDetails: fetchWithDetails,
			OnProgress:  onProgress,
		})
		slog.InfoContext(
			ctx, "fetch finished",
			"pages", len(reqs),
			"skipped", len(result.Failures),
			"seconds", time.Since(start).Seconds(),
		)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if config.Db != "" {
			store, releaseStore, err := config.openStore()
			if err != nil {
				return err
			}
			defer releaseStore()
			storable := result.StorableMenus()
			if skipped := len(result.Menus) - len(storable); skipped > 0 {
				slog.WarnContext(ctx, "not storing empty menus of failed dates", "dates", skipped)
			}
			err = store.Push(ctx, timezone.Now(), storable...)
			if err != nil {
				return fmt.Errorf("failed to store menus: %w", err)
			}
		}

		out, err := openOutput(fetchOut)
		if err != nil {
			return err
		}
		defer out.Close()
		return writeMenus(out, fetchFormat, result.Menus)
	},
}
