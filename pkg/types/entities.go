package types

import "time"

// Workspace is the root container for streams and images.
type Workspace struct {
	ID        int64     `json:"workspace_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Stream is a named subdivision of a workspace. Its name is unique within
// the workspace.
type Stream struct {
	ID          int64     `json:"stream_id"`
	WorkspaceID int64     `json:"workspace_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Label is a tag that can be assigned to at most one image.
type Label struct {
	ID            int64     `json:"label_id"`
	Name          string    `json:"name"`
	ParentLabelID *int64    `json:"parent_label_id"`
	ImageID       *int64    `json:"image_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Set is a named, nestable grouping of images. ParentLabelID records the
// label that seeded the set, if any.
type Set struct {
	ID            int64     `json:"set_id"`
	Name          string    `json:"name"`
	ParentLabelID *int64    `json:"parent_label_id"`
	ParentSetID   *int64    `json:"parent_set_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Image is a file registered in a workspace. SetIDs is populated by range
// queries and is ascending.
type Image struct {
	ID          int64     `json:"image_id"`
	Path        string    `json:"path"`
	WorkspaceID *int64    `json:"workspace_id"`
	LabelID     *int64    `json:"label_id"`
	SetIDs      []int64   `json:"set_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SystemInfo describes the singleton configuration rows.
type SystemInfo struct {
	SettingID int64     `json:"setting_id"`
	SystemID  int64     `json:"system_id"`
	InstallID string    `json:"install_id"`
	CreatedAt time.Time `json:"created_at"`
}
