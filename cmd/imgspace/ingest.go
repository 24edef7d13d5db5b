package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/healerjang/imgspace/internal/scanner"
)

func newIngestCmd(a *app) *cobra.Command {
	var (
		workspace int64
		exts      []string
	)
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Register every image file under a directory",
		Long: `Walk a directory tree depth first and register each image file in a workspace.
Paths already registered are skipped. Unreadable directories and failed inserts
are reported without stopping the walk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []scanner.Option{scanner.WithLogger(a.logger)}
			if len(exts) > 0 {
				opts = append(opts, scanner.WithExtensions(exts...))
			}
			report := scanner.New(a.store, opts...).IngestDirectory(cmd.Context(), args[0], workspace)

			if a.flagJSON {
				if err := printJSON(a.stdout, report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(a.stdout, "inserted %d images, %d errors\n", report.Inserted, len(report.Errors))
				if len(report.Errors) > 0 {
					rows := make([]table.Row, 0, len(report.Errors))
					for _, e := range report.Errors {
						rows = append(rows, table.Row{e.Op, e.Path, e.Err})
					}
					renderTable(a.stdout, table.Row{"Op", "Path", "Error"}, rows)
				}
			}
			if !report.Success {
				return errors.New("ingest did not complete")
			}
			return nil
		},
	}
	cmd.Flags().Int64VarP(&workspace, "workspace", "w", 0, "workspace id")
	cmd.Flags().StringSliceVar(&exts, "ext", nil, "file extensions to ingest (default: "+fmt.Sprint(scanner.DefaultExtensions)+")")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}
