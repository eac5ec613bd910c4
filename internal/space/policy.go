package space

// ImportExistsPolicy decides what happens to issues whose external id was
// already imported.
type ImportExistsPolicy string

const (
	ExistsUpdate ImportExistsPolicy = "Update"
	ExistsSkip   ImportExistsPolicy = "Skip"
)

// ImportMissingPolicy decides what happens when an assignee or status has
// no counterpart in the destination project.
type ImportMissingPolicy string

const (
	MissingReplaceWithDefault ImportMissingPolicy = "ReplaceWithDefault"
	MissingSkip               ImportMissingPolicy = "Skip"
)
