package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/healerjang/imgspace/pkg/types"
)

func labelRow(l types.Label) table.Row {
	return table.Row{l.ID, l.Name, optID(l.ParentLabelID), optID(l.ImageID)}
}

var labelHeader = table.Row{"ID", "Name", "Parent", "Image"}

func newLabelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Create and list labels",
	}

	var parent int64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a label, optionally under a parent label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parentID *int64
			if cmd.Flags().Changed("parent") {
				parentID = &parent
			}
			return a.report("label", a.store.InsertLabel(cmd.Context(), args[0], parentID))
		},
	}
	add.Flags().Int64Var(&parent, "parent", 0, "parent label id")

	var workspace int64
	ls := &cobra.Command{
		Use:   "list",
		Short: "List labels, or the labels used in a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				labels []types.Label
				err    error
			)
			if cmd.Flags().Changed("workspace") {
				labels, err = a.store.ListLabelsByWorkspace(cmd.Context(), workspace)
			} else {
				labels, err = a.store.ListLabels(cmd.Context())
			}
			if err != nil {
				return err
			}
			return list(a, labels, labelHeader, labelRow)
		},
	}
	ls.Flags().Int64VarP(&workspace, "workspace", "w", 0, "only labels attached to images of this workspace")

	represent := &cobra.Command{
		Use:   "represent <label-id> <image-id>",
		Short: "Set the representative image of a label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			labelID, err := parseID(args[0], "label")
			if err != nil {
				return err
			}
			imageID, err := parseID(args[1], "image")
			if err != nil {
				return err
			}
			return a.report("label", a.store.SetRepresentativeImage(cmd.Context(), labelID, imageID))
		},
	}

	cmd.AddCommand(add, ls, represent)
	return cmd
}
