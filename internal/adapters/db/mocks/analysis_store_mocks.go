package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/repo-quality/internal/adapters/http/dtos"
	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
)

// AnalysisStore mock
type AnalysisStore struct {
	mock.Mock
}

func (m *AnalysisStore) SaveAnalysis(ctx context.Context, analysis *entities.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *AnalysisStore) LatestAnalysis(ctx context.Context, repo entities.RepositoryIdentifier) (*entities.Analysis, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Analysis), args.Error(1)
}

func (m *AnalysisStore) AnalysesByRepository(ctx context.Context, repo entities.RepositoryIdentifier, query dtos.APIPagingDto) ([]entities.Analysis, dtos.PagingInfo, error) {
	args := m.Called(ctx, repo, query)
	if args.Get(0) == nil {
		return nil, dtos.PagingInfo{}, args.Error(2)
	}
	return args.Get(0).([]entities.Analysis), args.Get(1).(dtos.PagingInfo), args.Error(2)
}

func (m *AnalysisStore) CountAnalyses(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
