package orchestrator

import (
	"context"

	"github.com/compozy/releasegate/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository
type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) Status(ctx context.Context) ([]domain.ChangeEntry, error) {
	args := m.Called(ctx)
	if entries := args.Get(0); entries != nil {
		return entries.([]domain.ChangeEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGitRepository) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if tags := args.Get(0); tags != nil {
		return tags.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}

func (m *mockGitRepository) HeadCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) CreateTag(ctx context.Context, tag, msg string) error {
	args := m.Called(ctx, tag, msg)
	return args.Error(0)
}

func (m *mockGitRepository) PushTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// Mock for ManifestService
type mockManifestService struct{ mock.Mock }

func (m *mockManifestService) ReadVersion(ctx context.Context) (*domain.Version, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Version), args.Error(1)
}

// Mock for JournalRepository
type mockJournalRepository struct{ mock.Mock }

func (m *mockJournalRepository) Save(ctx context.Context, record *domain.RunRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockJournalRepository) Load(ctx context.Context, sessionID string) (*domain.RunRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunRecord), args.Error(1)
}

func (m *mockJournalRepository) LoadLatest(ctx context.Context) (*domain.RunRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunRecord), args.Error(1)
}

func (m *mockJournalRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockJournalRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
