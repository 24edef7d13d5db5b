package main

import (
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/healerjang/imgspace/pkg/types"
)

func setRow(s types.Set) table.Row {
	return table.Row{s.ID, s.Name, optID(s.ParentSetID), optID(s.ParentLabelID)}
}

var setHeader = table.Row{"ID", "Name", "Parent set", "Label"}

func newSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create and list image sets",
	}

	var label, parent int64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a set, optionally seeded by a label and nested under a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var labelID, parentID *int64
			if cmd.Flags().Changed("label") {
				labelID = &label
			}
			if cmd.Flags().Changed("parent") {
				parentID = &parent
			}
			return a.report("set", a.store.InsertSet(cmd.Context(), args[0], labelID, parentID))
		},
	}
	add.Flags().Int64Var(&label, "label", 0, "label that seeds the set")
	add.Flags().Int64Var(&parent, "parent", 0, "parent set id")

	var workspace, under int64
	var roots bool
	ls := &cobra.Command{
		Use:   "list",
		Short: "List sets",
		Long: `List every set, the sets used in a workspace (--workspace),
the children of a set (--parent) or the top-level sets (--root).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := cmd.Flags()
			var (
				sets []types.Set
				err  error
			)
			switch {
			case f.Changed("workspace") && f.Changed("parent"):
				return errors.New("--workspace and --parent cannot be combined")
			case f.Changed("workspace"):
				sets, err = a.store.ListSetsByWorkspace(ctx, workspace)
			case f.Changed("parent"):
				sets, err = a.store.ListChildSets(ctx, &under)
			case roots:
				sets, err = a.store.ListChildSets(ctx, nil)
			default:
				sets, err = a.store.ListSets(ctx)
			}
			if err != nil {
				return err
			}
			return list(a, sets, setHeader, setRow)
		},
	}
	ls.Flags().Int64VarP(&workspace, "workspace", "w", 0, "only sets containing images of this workspace")
	ls.Flags().Int64Var(&under, "parent", 0, "only direct children of this set")
	ls.Flags().BoolVar(&roots, "root", false, "only top-level sets")

	show := &cobra.Command{
		Use:   "show <set-id>",
		Short: "Show one set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "set")
			if err != nil {
				return err
			}
			s, err := a.store.GetSet(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.flagJSON {
				return printJSON(a.stdout, s)
			}
			return list(a, []types.Set{s}, setHeader, setRow)
		},
	}

	cmd.AddCommand(add, ls, show)
	return cmd
}
