package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/healerjang/imgspace/pkg/types"
)

func newWorkspaceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Create and list workspaces",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a workspace",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.report("workspace", a.store.InsertWorkspace(cmd.Context(), args[0]))
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List workspaces",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := a.store.ListWorkspaces(cmd.Context())
				if err != nil {
					return err
				}
				return list(a, ws, table.Row{"ID", "Name", "Created"}, func(w types.Workspace) table.Row {
					return table.Row{w.ID, w.Name, w.CreatedAt.Format("2006-01-02 15:04")}
				})
			},
		},
	)
	return cmd
}

func newStreamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Create and list streams of a workspace",
	}

	var addWorkspace int64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a stream in a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report("stream", a.store.InsertStream(cmd.Context(), args[0], addWorkspace))
		},
	}
	add.Flags().Int64VarP(&addWorkspace, "workspace", "w", 0, "workspace id")
	_ = add.MarkFlagRequired("workspace")

	var listWorkspace int64
	ls := &cobra.Command{
		Use:   "list",
		Short: "List the streams of a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			streams, err := a.store.ListStreams(cmd.Context(), listWorkspace)
			if err != nil {
				return err
			}
			return list(a, streams, table.Row{"ID", "Name", "Workspace"}, func(s types.Stream) table.Row {
				return table.Row{s.ID, s.Name, s.WorkspaceID}
			})
		},
	}
	ls.Flags().Int64VarP(&listWorkspace, "workspace", "w", 0, "workspace id")
	_ = ls.MarkFlagRequired("workspace")

	cmd.AddCommand(add, ls)
	return cmd
}
