package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/healerjang/imgspace/pkg/types"
)

func imageRow(img types.Image) table.Row {
	sets := make([]string, len(img.SetIDs))
	for i, id := range img.SetIDs {
		sets[i] = strconv.FormatInt(id, 10)
	}
	setCol := strings.Join(sets, ",")
	if setCol == "" {
		setCol = "-"
	}
	return table.Row{img.ID, img.Path, optID(img.LabelID), setCol}
}

var imageHeader = table.Row{"ID", "Path", "Label", "Sets"}

func newImageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Register, list and inspect images",
	}

	var addWorkspace int64
	add := &cobra.Command{
		Use:   "add <path>",
		Short: "Register one image file in a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return a.report("image", a.store.InsertImage(cmd.Context(), path, addWorkspace))
		},
	}
	add.Flags().Int64VarP(&addWorkspace, "workspace", "w", 0, "workspace id")
	_ = add.MarkFlagRequired("workspace")

	var listWorkspace, from, to int64
	ls := &cobra.Command{
		Use:   "list",
		Short: "List the images of a workspace within an id range",
		Long: `List the images of a workspace whose ids fall in [--from, --to], inclusive.
Without --to the range ends at the highest image id of the workspace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			end := to
			if !cmd.Flags().Changed("to") {
				maxID, ok, err := a.store.MaxImageID(ctx, listWorkspace)
				if err != nil {
					return err
				}
				if !ok {
					return list(a, []types.Image(nil), imageHeader, imageRow)
				}
				end = maxID
			}
			images, err := a.store.ListImagesInRange(ctx, listWorkspace, from, end)
			if err != nil {
				return err
			}
			return list(a, images, imageHeader, imageRow)
		},
	}
	ls.Flags().Int64VarP(&listWorkspace, "workspace", "w", 0, "workspace id")
	ls.Flags().Int64Var(&from, "from", 1, "first image id")
	ls.Flags().Int64Var(&to, "to", 0, "last image id")
	_ = ls.MarkFlagRequired("workspace")

	var maxWorkspace int64
	maxCmd := &cobra.Command{
		Use:   "max",
		Short: "Print the highest image id of a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok, err := a.store.MaxImageID(cmd.Context(), maxWorkspace)
			if err != nil {
				return err
			}
			if a.flagJSON {
				var v *int64
				if ok {
					v = &id
				}
				return printJSON(a.stdout, map[string]*int64{"max_image_id": v})
			}
			if !ok {
				fmt.Fprintln(a.stdout, "no images")
				return nil
			}
			fmt.Fprintln(a.stdout, id)
			return nil
		},
	}
	maxCmd.Flags().Int64VarP(&maxWorkspace, "workspace", "w", 0, "workspace id")
	_ = maxCmd.MarkFlagRequired("workspace")

	show := &cobra.Command{
		Use:   "show <image-id>",
		Short: "Show one image with its label and sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "image")
			if err != nil {
				return err
			}
			img, err := a.store.GetImage(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.flagJSON {
				return printJSON(a.stdout, img)
			}
			return list(a, []types.Image{img}, imageHeader, imageRow)
		},
	}

	cmd.AddCommand(add, ls, maxCmd, show)
	return cmd
}
