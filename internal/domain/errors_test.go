package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirtyWorkingTreeError(t *testing.T) {
	t.Run("Should report every change entry", func(t *testing.T) {
		err := &DirtyWorkingTreeError{Entries: []ChangeEntry{
			{Path: "main.go", Worktree: "M"},
			{Path: "newfile.go", Staging: "?", Worktree: "?"},
		}}
		assert.Contains(t, err.Error(), "2 uncommitted changes")
		assert.Contains(t, err.Error(), " M main.go")
		assert.Contains(t, err.Error(), "?? newfile.go")
	})
	t.Run("Should be matchable with errors.As", func(t *testing.T) {
		var err error = &DirtyWorkingTreeError{Entries: []ChangeEntry{{Path: "a", Worktree: "M"}}}
		wrapped := fmt.Errorf("gate failed: %w", err)
		var dirtyErr *DirtyWorkingTreeError
		require.ErrorAs(t, wrapped, &dirtyErr)
		assert.Len(t, dirtyErr.Entries, 1)
	})
}

func TestMetadataError(t *testing.T) {
	t.Run("Should include path and reason", func(t *testing.T) {
		err := &MetadataError{Path: "package.json", Reason: "manifest has no version field"}
		assert.Contains(t, err.Error(), "package.json")
		assert.Contains(t, err.Error(), "no version field")
	})
	t.Run("Should unwrap the underlying cause", func(t *testing.T) {
		cause := errors.New("file not found")
		err := &MetadataError{Path: "gb.toml", Reason: "manifest not found", Err: cause}
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "file not found")
	})
}

func TestVersionConflictError(t *testing.T) {
	t.Run("Should name the conflicting version and tag", func(t *testing.T) {
		err := &VersionConflictError{Version: "2.0.0", Tag: "v2.0.0"}
		assert.Contains(t, err.Error(), "2.0.0")
		assert.Contains(t, err.Error(), "v2.0.0")
		assert.Contains(t, err.Error(), "bump")
	})
}

func TestTagCreateError(t *testing.T) {
	t.Run("Should name the tag and unwrap the cause", func(t *testing.T) {
		cause := errors.New("tag already exists")
		err := &TagCreateError{Tag: "v1.2.3", Err: cause}
		assert.Contains(t, err.Error(), "v1.2.3")
		assert.ErrorIs(t, err, cause)
	})
}

func TestPushError(t *testing.T) {
	t.Run("Should point at the push retry path", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &PushError{Tag: "v1.2.3", Remote: "origin", Err: cause}
		assert.Contains(t, err.Error(), "v1.2.3")
		assert.Contains(t, err.Error(), "origin")
		assert.Contains(t, err.Error(), "releasegate push")
		assert.ErrorIs(t, err, cause)
	})
}

func TestChangeEntry_String(t *testing.T) {
	t.Run("Should render porcelain-like form", func(t *testing.T) {
		entry := ChangeEntry{Path: "cmd/main.go", Staging: "A", Worktree: " "}
		assert.Equal(t, "A  cmd/main.go", entry.String())
	})
	t.Run("Should pad empty codes", func(t *testing.T) {
		entry := ChangeEntry{Path: "cmd/main.go", Worktree: "M"}
		assert.Equal(t, " M cmd/main.go", entry.String())
	})
}
