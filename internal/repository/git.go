package repository

import (
	"context"

	"github.com/compozy/releasegate/internal/domain"
)

// GitRepository defines the interface for Git operations.

type GitRepository interface {
	Status(ctx context.Context) ([]domain.ChangeEntry, error)
	ListTags(ctx context.Context) ([]string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	HeadCommit(ctx context.Context) (string, error)
	CreateTag(ctx context.Context, tag, msg string) error
	PushTag(ctx context.Context, tag string) error
}
