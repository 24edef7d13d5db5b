package types

// Table names in the canonical schema.
const (
	TableSetting     = "setting"
	TableSystem      = "system"
	TableWorkspace   = "workspace"
	TableLabel       = "label"
	TableSets        = "sets"
	TableStream      = "stream"
	TableImage       = "image"
	TableImageSet    = "image_set"
	TableStreamImage = "stream_image"
)

// StandardTableNames lists every table in creation order: singletons first,
// then independent entities, then dependents, then associations.
var StandardTableNames = []string{
	TableSetting,
	TableSystem,
	TableWorkspace,
	TableLabel,
	TableSets,
	TableStream,
	TableImage,
	TableImageSet,
	TableStreamImage,
}
