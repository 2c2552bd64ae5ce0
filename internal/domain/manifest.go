package domain

// Manifest is the version-bearing slice of a project metadata file.

type Manifest struct {
	Name    string `json:"name"    toml:"name"`
	Version string `json:"version" toml:"version"`
	Path    string `json:"-"       toml:"-"` // Path is not part of the manifest itself
}
