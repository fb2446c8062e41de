package commands

import (
	"errors"
	"fmt"

	"bruinmenu/lib/menustore"
	"bruinmenu/lib/scrapers/dining/model"
	"bruinmenu/lib/scrapers/dining/request"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	showFormat string
	showDb     string
	showItem   string
)

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", formatTable, "Output format: verbose, compact, text or table.")
	showCmd.Flags().StringVar(&showDb, "db", "", "The database to read from, overrides the config.")
	showCmd.Flags().StringVar(&showItem, "item", "", "Show an item and every meal it was served in.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [YYYY-MM-DD...] [--item ID]",
	Short: "Shows stored menus, lists the stored dates when no date is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := validateFormat(showFormat)
		if err != nil {
			return err
		}

		config := cfg
		if showDb != "" {
			config.Db = showDb
		}
		store, release, err := config.openStore()
		if err != nil {
			return err
		}
		defer release()

		if showItem != "" {
			return showStoredItem(cmd, store, showItem)
		}
		if len(args) == 0 {
			return showStoredDates(cmd, store)
		}

		menus := make([]model.DateMenu, 0, len(args))
		for _, arg := range args {
			date, err := request.ValidateDate(arg)
			if err != nil {
				return err
			}
			menu, err := store.Pull(cmd.Context(), date)
			if errors.Is(err, menustore.ErrNotFound) {
				return fmt.Errorf("no menu stored for %s", date)
			}
			if err != nil {
				return err
			}
			menus = append(menus, menu)
		}
		return writeMenus(cmd.OutOrStdout(), showFormat, menus)
	},
}

func showStoredDates(cmd *cobra.Command, store menustore.Store) error {
	dates, err := store.Dates(cmd.Context())
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Date", "Fetched"})
	for _, d := range dates {
		t.AppendRow(table.Row{d.Date, humanize.Time(d.FetchedAt)})
	}
	t.Render()
	return nil
}

func showStoredItem(cmd *cobra.Command, store menustore.Store, id string) error {
	item, err := store.Item(cmd.Context(), id)
	if errors.Is(err, menustore.ErrNotFound) {
		return fmt.Errorf("no item stored with id %s", id)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, item.Item.String())

	t := newTable(out)
	t.AppendHeader(table.Row{"Date", "Restaurant", "Meal", "Section"})
	for _, s := range item.Servings {
		t.AppendRow(table.Row{s.Date, s.Restaurant, s.Meal, s.Section})
	}
	t.Render()
	return nil
}
