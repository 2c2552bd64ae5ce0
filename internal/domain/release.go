package domain

import "time"

// ReleaseTag is the artifact produced by a successful gate run: an immutable
// named pointer into version-control history.
type ReleaseTag struct {
	Name      string
	Version   *Version
	CommitSHA string
	CreatedAt time.Time
	Pushed    bool
}

// ChangeEntry describes a single working-tree change relative to HEAD.
type ChangeEntry struct {
	Path     string
	Staging  string
	Worktree string
}

// String renders the entry in porcelain-like "XY path" form.
func (e ChangeEntry) String() string {
	staging := e.Staging
	if staging == "" {
		staging = " "
	}
	worktree := e.Worktree
	if worktree == "" {
		worktree = " "
	}
	return staging + worktree + " " + e.Path
}
