package usecase

import (
	"context"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/compozy/releasegate/internal/service"
)

// ReadVersionUseCase contains the logic for the version extraction stage.

type ReadVersionUseCase struct {
	ManifestSvc service.ManifestService
}

// Execute runs the use case.
func (uc *ReadVersionUseCase) Execute(ctx context.Context) (*domain.Version, error) {
	return uc.ManifestSvc.ReadVersion(ctx)
}
