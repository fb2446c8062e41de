package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"bruinmenu/lib/scrapers/dining/model"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	formatVerbose = "verbose"
	formatCompact = "compact"
	formatText    = "text"
	formatTable   = "table"
)

var formats = []string{formatVerbose, formatCompact, formatText, formatTable}

func validateFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q, expected one of %s", format, strings.Join(formats, ", "))
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func detailField(item model.Item, field func(model.ItemDetails) *string) string {
	if item.Details == nil {
		return ""
	}
	value := field(*item.Details)
	if value == nil {
		return ""
	}
	return *value
}

func renderTable(w io.Writer, menus []model.DateMenu) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Restaurant", "Meal", "Section", "ID", "Item", "Allergens"})
	for _, menu := range menus {
		for _, fragment := range menu.Fragments() {
			for _, section := range fragment.Sections {
				for _, item := range section.Items {
					t.AppendRow(table.Row{
						menu.Date,
						fragment.Restaurant.Name(),
						fragment.Meal.Name(),
						section.Name,
						item.ID,
						item.Name,
						detailField(item, func(d model.ItemDetails) *string { return d.Allergens }),
					})
				}
			}
		}
		t.AppendSeparator()
	}
	t.Render()
}

// writeMenus renders menus in the given format. JSON formats write a
// single document for a single date and an array otherwise.
func writeMenus(w io.Writer, format string, menus []model.DateMenu) error {
	switch format {
	case formatVerbose:
		var doc any = menus
		if len(menus) == 1 {
			doc = menus[0]
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case formatCompact:
		var doc any = model.CompactAll(menus)
		if len(menus) == 1 {
			doc = menus[0].Compact()
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case formatText:
		for _, menu := range menus {
			_, err := io.WriteString(w, menu.String())
			if err != nil {
				return err
			}
		}
		return nil
	case formatTable:
		renderTable(w, menus)
		return nil
	}
	return validateFormat(format)
}

// openOutput returns stdout for an empty path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
