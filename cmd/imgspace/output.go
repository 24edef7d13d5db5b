package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/healerjang/imgspace/pkg/types"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable writes rows under header, or "(0 rows)" when empty.
func renderTable(w io.Writer, header table.Row, rows []table.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

// report prints the outcome of a write and turns a failure into an error.
func (a *app) report(what string, r types.Result) error {
	if a.flagJSON {
		if err := printJSON(a.stdout, r); err != nil {
			return err
		}
	} else if r.OK() {
		fmt.Fprintf(a.stdout, "%s %d\n", what, r.ID)
	}
	if !r.OK() {
		return fmt.Errorf("%s failed (%s): %w", what, r.Kind(), r.Err)
	}
	return nil
}

// list prints items as JSON or as a table built by toRow.
func list[T any](a *app, items []T, header table.Row, toRow func(T) table.Row) error {
	if a.flagJSON {
		if items == nil {
			items = []T{}
		}
		return printJSON(a.stdout, items)
	}
	rows := make([]table.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, toRow(it))
	}
	renderTable(a.stdout, header, rows)
	return nil
}

func optID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q: %w", what, s, types.ErrInvalidID)
	}
	return id, nil
}
