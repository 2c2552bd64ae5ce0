package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/compozy/releasegate/internal/repository"
)

// CheckCleanUseCase contains the logic for the cleanliness check.

type CheckCleanUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case. A non-empty working tree aborts the run with a
// DirtyWorkingTreeError carrying every change entry.
func (uc *CheckCleanUseCase) Execute(ctx context.Context) error {
	entries, err := uc.GitRepo.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get repository status: %w", err)
	}
	if len(entries) > 0 {
		return &domain.DirtyWorkingTreeError{Entries: entries}
	}
	return nil
}
