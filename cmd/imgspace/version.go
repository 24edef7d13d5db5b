package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the imgspace version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flagJSON {
				return printJSON(a.stdout, map[string]string{"version": version, "go": runtime.Version()})
			}
			fmt.Fprintf(a.stdout, "imgspace %s (%s)\n", version, runtime.Version())
			return nil
		},
	}
}
