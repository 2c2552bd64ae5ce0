package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/compozy/releasegate/internal/repository"
)

// CheckConflictUseCase contains the logic for the tag conflict check.

type CheckConflictUseCase struct {
	GitRepo   repository.GitRepository
	TagPrefix string
}

// Execute runs the use case. Each existing tag is compared against the
// manifest version after stripping the leading tag prefix, so "v2.0.0"
// conflicts with version "2.0.0".
func (uc *CheckConflictUseCase) Execute(ctx context.Context, version *domain.Version) error {
	tags, err := uc.GitRepo.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tags: %w", err)
	}
	for _, tag := range tags {
		if strings.TrimPrefix(tag, uc.TagPrefix) == version.Core() {
			return &domain.VersionConflictError{Version: version.Core(), Tag: tag}
		}
	}
	return nil
}
