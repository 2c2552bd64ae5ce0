package service

import (
	"context"

	"github.com/compozy/releasegate/internal/domain"
)

// ManifestService defines the interface for reading the declared project
// version from metadata files.

type ManifestService interface {
	ReadVersion(ctx context.Context) (*domain.Version, error)
}
