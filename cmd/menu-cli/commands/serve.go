package commands

import (
	"log/slog"
	"time"

	"bruinmenu/lib/serviceutil"
	"bruinmenu/lib/telemetry"
	"bruinmenu/services/menuapi"

	"github.com/spf13/cobra"
)

var (
	serveDb          string
	servePort        int
	serveRefresh     time.Duration
	serveDays        int
	serveWithDetails bool
)

func init() {
	serveCmd.Flags().StringVar(&serveDb, "db", "", "The database to serve from, overrides the config.")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "The port to listen on, overrides the config.")
	serveCmd.Flags().DurationVar(&serveRefresh, "refresh", 0, "Scrape and store menus this often, disabled when zero.")
	serveCmd.Flags().IntVar(&serveDays, "days", 7, "The number of days starting today that a refresh fetches.")
	serveCmd.Flags().BoolVar(&serveWithDetails, "with-details", false, "Fetch item details when refreshing.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port N] [--refresh 6h]",
	Short: "Serves stored menus over http.",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := cfg
		if serveDb != "" {
			config.Db = serveDb
		}
		if servePort > 0 {
			config.ListenPort = servePort
		}

		store, releaseStore, err := config.openStore()
		if err != nil {
			return err
		}
		defer releaseStore()

		client, releaseClient, err := config.newClient()
		if err != nil {
			return err
		}
		defer releaseClient()

		ctx := cmd.Context()
		telemetry.InstrumentPerfStats(ctx, time.Second*15)

		service := menuapi.NewService(ctx, store, menuapi.Options{
			Scraper:         client,
			RefreshInterval: serveRefresh,
			Days:            serveDays,
			Concurrency:     config.Concurrency,
			WithDetails:     serveWithDetails,
		})
		if serveRefresh > 0 {
			slog.Info("refreshing menus periodically", "interval", serveRefresh.String(), "days", serveDays)
		}

		return serviceutil.StartHttpServer(ctx, config.ListenPort, service.Handler())
	},
}
