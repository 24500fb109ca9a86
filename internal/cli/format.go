package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/itemdesk/internal/model"
	"github.com/idilsaglam/itemdesk/internal/session"
	"github.com/idilsaglam/itemdesk/internal/ui"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
	formatYAML  format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", formatTable:
		return formatTable, nil
	case formatJSON, formatYAML:
		return f, nil
	}
	return "", usagef("--format %q: want table, json or yaml", s)
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, f format, v any) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("encode: unsupported format %q", f)
}

func writeItems(w io.Writer, f format, items []model.Item, cats []model.Category, sess session.Session) error {
	if f != formatTable {
		return encode(w, f, items)
	}
	th := ui.Current()
	if len(items) == 0 {
		fmt.Fprintln(w, th.Muted.Render("no items"))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tUPDATED\tDESCRIPTION\t")
	for _, it := range items {
		title := ui.Truncate(it.Title, 40)
		if sess.Owns(it) {
			title += " " + th.SymOwner
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			it.ID, title, model.CategoryName(cats, it.CategoryID),
			ui.Timestamp(it.Timestamp), ui.Truncate(ui.Preview(it.Description), 48))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, th.Muted.Render(fmt.Sprintf("%d item(s)", len(items))))
	return nil
}

func writeItem(w io.Writer, f format, it model.Item, cats []model.Category, sess session.Session) error {
	if f != formatTable {
		return encode(w, f, it)
	}
	th := ui.Current()
	lines := []string{
		th.Title.Render(it.Title),
		th.Muted.Render(fmt.Sprintf("#%s · %s · %s", it.ID, model.CategoryName(cats, it.CategoryID), ui.Timestamp(it.Timestamp))),
	}
	if sess.Owns(it) {
		lines = append(lines, th.Owner.Render(th.SymOwner+" yours"))
	}
	lines = append(lines, "")
	if d := strings.TrimSpace(it.Description); d != "" {
		lines = append(lines, strings.Split(d, "\n")...)
	} else {
		lines = append(lines, th.Muted.Render("No description."))
	}
	ui.Panel(w, lines)
	return nil
}

func writeCategories(w io.Writer, f format, cats []model.Category) error {
	if f != formatTable {
		return encode(w, f, cats)
	}
	if len(cats) == 0 {
		fmt.Fprintln(w, ui.Current().Muted.Render("no categories"))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\t")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t\n", c.ID, c.Name)
	}
	return tw.Flush()
}
