package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlsSelection selection

func init() {
	urlsSelection.register(urlsCmd)
	rootCmd.AddCommand(urlsCmd)
}

var urlsCmd = &cobra.Command{
	Use:   "urls [--all | --days N | --date YYYY-MM-DD...]",
	Short: "Prints the menu page urls that fetch would download, in fetch order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := urlsSelection.requests()
		if err != nil {
			return err
		}
		for _, req := range reqs {
			fmt.Fprintln(cmd.OutOrStdout(), req.URL(cfg.BaseUrl))
		}
		return nil
	},
}
