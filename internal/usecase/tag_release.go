package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/compozy/releasegate/internal/repository"
)

// TagReleaseUseCase contains the logic for creating the release tag at HEAD.

type TagReleaseUseCase struct {
	GitRepo   repository.GitRepository
	TagPrefix string
}

// Execute creates the annotated release tag for the given version. Creation
// is the commit point of intent: once the tag exists locally it is never
// rolled back, even if the subsequent push fails.
func (uc *TagReleaseUseCase) Execute(ctx context.Context, version *domain.Version) (*domain.ReleaseTag, error) {
	name := uc.TagPrefix + version.Core()
	sha, err := uc.GitRepo.HeadCommit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	msg := fmt.Sprintf("Release %s", name)
	if err := uc.GitRepo.CreateTag(ctx, name, msg); err != nil {
		return nil, &domain.TagCreateError{Tag: name, Err: err}
	}
	return &domain.ReleaseTag{
		Name:      name,
		Version:   version,
		CommitSHA: sha,
		CreatedAt: time.Now(),
	}, nil
}
