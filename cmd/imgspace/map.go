package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/healerjang/imgspace/internal/sqlite"
	"github.com/healerjang/imgspace/pkg/types"
)

// mapFunc is a Backend mapper taking the owning entity id and the image id.
type mapFunc func(b *sqlite.Backend, ctx context.Context, id, imageID int64) types.Result

func newMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Attach labels, sets and streams to images",
	}
	cmd.AddCommand(
		newMapSubCmd(a, "label", "Tag an image with a label", (*sqlite.Backend).MapLabelToImage),
		newMapSubCmd(a, "set", "Add an image to a set", (*sqlite.Backend).MapSetToImage),
		newMapSubCmd(a, "stream", "Add an image to a stream", (*sqlite.Backend).MapStreamToImage),
	)
	return cmd
}

func newMapSubCmd(a *app, entity, short string, fn mapFunc) *cobra.Command {
	return &cobra.Command{
		Use:   entity + " <" + entity + "-id> <image-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], entity)
			if err != nil {
				return err
			}
			imageID, err := parseID(args[1], "image")
			if err != nil {
				return err
			}
			return a.report("image", fn(a.store, cmd.Context(), id, imageID))
		},
	}
}
