package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/sethvargo/go-retry"
)

// gitRepository is the implementation of the GitRepository interface.

type gitRepository struct {
	repo   *git.Repository
	remote string
	token  string
}

// NewGitRepository opens the repository in the current directory.
func NewGitRepository(remote, token string) (GitRepository, error) {
	repo, err := git.PlainOpen(".")
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &gitRepository{repo: repo, remote: remote, token: token}, nil
}

// Status returns the working-tree changes relative to HEAD, ordered by path.
func (r *gitRepository) Status(_ context.Context) ([]domain.ChangeEntry, error) {
	w, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	var entries []domain.ChangeEntry
	for path, fileStatus := range status {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		entries = append(entries, domain.ChangeEntry{
			Path:     path,
			Staging:  statusCodeString(fileStatus.Staging),
			Worktree: statusCodeString(fileStatus.Worktree),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// statusCodeString converts a go-git status code to its porcelain letter.
func statusCodeString(code git.StatusCode) string {
	if code == git.Unmodified {
		return " "
	}
	return string(rune(code))
}

// ListTags returns the names of all tags in the repository.
func (r *gitRepository) ListTags(_ context.Context) ([]string, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var tags []string
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	sort.Strings(tags)
	return tags, nil
}

// TagExists checks if a tag exists.
func (r *gitRepository) TagExists(_ context.Context, tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if err == git.ErrTagNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	return true, nil
}

// HeadCommit returns the SHA of the current HEAD commit.
func (r *gitRepository) HeadCommit(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// CreateTag creates an annotated tag at HEAD.
func (r *gitRepository) CreateTag(_ context.Context, tag, msg string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	_, err = r.repo.CreateTag(tag, head.Hash(), &git.CreateTagOptions{
		Message: msg,
		Tagger: &object.Signature{
			Name:  "releasegate",
			Email: "releasegate@compozy.dev",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// PushTag pushes a single tag refspec to the configured remote. Transient
// network failures are retried here; the gate pipeline itself never retries.
func (r *gitRepository) PushTag(ctx context.Context, tag string) error {
	refSpec := config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", tag, tag))
	backoff := retry.WithMaxRetries(DefaultPushRetries, retry.NewExponential(DefaultPushRetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.repo.PushContext(ctx, &git.PushOptions{
			RemoteName: r.remote,
			RefSpecs:   []config.RefSpec{refSpec},
			Auth:       r.getAuth(),
		})
		if err == nil || err == git.NoErrAlreadyUpToDate {
			return nil
		}
		return retry.RetryableError(err)
	})
}

// getAuth returns token authentication for the remote when configured.
func (r *gitRepository) getAuth() *http.BasicAuth {
	if r.token == "" {
		return nil
	}
	// Use x-access-token as username for token authentication
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: r.token,
	}
}
