package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"bruinmenu/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool

	cfg    Config
	otelTp telemetry.Telemetry
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "menu.json5", "The config file, searched for upwards from the working directory.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level and dump http exchanges to the debug directory.")
}

var rootCmd = &cobra.Command{
	Use:   "menu-cli",
	Short: "menu-cli scrapes UCLA dining hall menus.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)

		var err error
		cfg, err = LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if cfg.Telemetry.Enabled() {
			otelTp, err = telemetry.Setup(cmd.Context(), "menu-cli", cfg.Telemetry)
		} else {
			otelTp, err = telemetry.SetupFromEnv(cmd.Context(), "menu-cli")
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to setup telemetry", "err", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := otelTp.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
