package sqlite

// This file writes associations between images and labels, sets and streams.
// Each operation checks both sides and writes in one transaction.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/healerjang/imgspace/pkg/types"
)

// MapLabelToImage sets the label of an image, replacing any previous label.
// A label tags at most one image, so a label already held by another image
// fails with types.KindConstraint. The result ID is the image ID.
func (b *Backend) MapLabelToImage(ctx context.Context, labelID, imageID int64) types.Result {
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "image", types.TableImage, "image_id", imageID); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, "label", types.TableLabel, "label_id", labelID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE image SET label_id = ? WHERE image_id = ?", labelID, imageID,
		); err != nil {
			return fmt.Errorf("label %d on image %d: %w", labelID, imageID, classify(err))
		}
		return nil
	})
	return b.result("map label", imageID, err)
}

// SetRepresentativeImage records imageID as the image that represents a
// label. The result ID is the label ID.
func (b *Backend) SetRepresentativeImage(ctx context.Context, labelID, imageID int64) types.Result {
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "label", types.TableLabel, "label_id", labelID); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, "image", types.TableImage, "image_id", imageID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE label SET image_id = ? WHERE label_id = ?", imageID, labelID,
		); err != nil {
			return fmt.Errorf("representative image %d for label %d: %w", imageID, labelID, classify(err))
		}
		return nil
	})
	return b.result("set representative image", labelID, err)
}

// MapSetToImage adds an image to a set. Repeating the call is a no-op. The
// result ID is the image ID.
func (b *Backend) MapSetToImage(ctx context.Context, setID, imageID int64) types.Result {
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "image", types.TableImage, "image_id", imageID); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, "set", types.TableSets, "set_id", setID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO image_set (image_id, set_id) VALUES (?, ?)", imageID, setID,
		); err != nil {
			return fmt.Errorf("set %d on image %d: %w", setID, imageID, classify(err))
		}
		return nil
	})
	return b.result("map set", imageID, err)
}

// MapStreamToImage adds an image to a stream. Repeating the call is a no-op.
// The result ID is the image ID.
func (b *Backend) MapStreamToImage(ctx context.Context, streamID, imageID int64) types.Result {
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, "image", types.TableImage, "image_id", imageID); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, "stream", types.TableStream, "stream_id", streamID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO stream_image (stream_id, image_id) VALUES (?, ?)", streamID, imageID,
		); err != nil {
			return fmt.Errorf("stream %d on image %d: %w", streamID, imageID, classify(err))
		}
		return nil
	})
	return b.result("map stream", imageID, err)
}
