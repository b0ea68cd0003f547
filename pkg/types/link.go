package types

// LinkState describes what currently occupies a mapping's destination path.
// It is derived from Lstat so symlinks are never followed.
type LinkState string

const (
	// StateAbsent means nothing exists at the destination
	StateAbsent LinkState = "absent"

	// StateLinked means the destination is a symlink to the mapped source
	StateLinked LinkState = "linked"

	// StateWrongLink means the destination is a symlink to somewhere else
	StateWrongLink LinkState = "wrong-link"

	// StateRegularFile means the destination is occupied by a real file or directory
	StateRegularFile LinkState = "file"

	// StateUnknown means the destination could not be inspected
	StateUnknown LinkState = "unknown"
)

// String returns the state name for logging and display
func (s LinkState) String() string {
	return string(s)
}

// Mapping pairs one file in the source tree with the destination
// path it should be linked from.
type Mapping struct {
	// RepoPath is the file's path relative to the source root,
	// always slash-separated, with any variant suffix removed
	RepoPath string `json:"repoPath"`

	// Source is the absolute path of the file inside the source tree
	Source string `json:"source"`

	// Dest is the absolute destination path for the symlink
	Dest string `json:"dest"`

	// Variant is the variant name the source file was selected for,
	// empty for unsuffixed files
	Variant string `json:"variant,omitempty"`
}
