package domain

import (
	"fmt"
	"strings"
)

// Abort reasons for a gate run. Each stage has exactly one failure type and
// every failure is terminal: the run stops, nothing is retried by the core,
// and the error carries enough context for the user to self-correct.

// DirtyWorkingTreeError reports uncommitted changes that block a release.
type DirtyWorkingTreeError struct {
	Entries []ChangeEntry
}

func (e *DirtyWorkingTreeError) Error() string {
	lines := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		lines = append(lines, "  "+entry.String())
	}
	return fmt.Sprintf("working tree is dirty (%d uncommitted changes):\n%s",
		len(e.Entries), strings.Join(lines, "\n"))
}

// MetadataError reports a missing or malformed project manifest, or a
// manifest whose version field is absent or not a semantic version.
type MetadataError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to read version from %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to read version from %s: %s", e.Path, e.Reason)
}

func (e *MetadataError) Unwrap() error {
	return e.Err
}

// VersionConflictError reports that the manifest version is already tagged.
type VersionConflictError struct {
	Version string
	Tag     string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version %s is already released as tag %s; bump the manifest version first",
		e.Version, e.Tag)
}

// TagCreateError reports that local tag creation failed. No push is attempted
// after this error.
type TagCreateError struct {
	Tag string
	Err error
}

func (e *TagCreateError) Error() string {
	return fmt.Sprintf("failed to create tag %s: %v", e.Tag, e.Err)
}

func (e *TagCreateError) Unwrap() error {
	return e.Err
}

// PushError reports that the tag was created locally but could not be pushed.
// The local tag is kept; the push alone can be retried.
type PushError struct {
	Tag    string
	Remote string
	Err    error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("tag %s was created locally but pushing to %s failed: %v (retry with `releasegate push %s`)",
		e.Tag, e.Remote, e.Err, e.Tag)
}

func (e *PushError) Unwrap() error {
	return e.Err
}
