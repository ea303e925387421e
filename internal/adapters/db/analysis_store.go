package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/just-nibble/repo-quality/internal/adapters/http/dtos"
	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
	"github.com/just-nibble/repo-quality/pkg/errcodes"
)

// AnalysisStore persists the history of repository analyses.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, analysis *entities.Analysis) error
	LatestAnalysis(ctx context.Context, repo entities.RepositoryIdentifier) (*entities.Analysis, error)
	AnalysesByRepository(ctx context.Context, repo entities.RepositoryIdentifier, query dtos.APIPagingDto) ([]entities.Analysis, dtos.PagingInfo, error)
	CountAnalyses(ctx context.Context) (int64, error)
}

// Analysis is the row stored for one analysis run.
type Analysis struct {
	ID           uint                     `gorm:"primaryKey"`
	Owner        string                   `gorm:"index:idx_analyses_repository"`
	Name         string                   `gorm:"index:idx_analyses_repository"`
	OverallScore int
	TestCoverage int
	OpenIssues   int
	CriticalBugs int
	Complexity   string
	LastCommit   time.Time
	Contributors int
	Languages    []entities.LanguageShare `gorm:"serializer:json"`
	Insights     []string                 `gorm:"serializer:json"`
	CreatedAt    time.Time                `gorm:"index"`
}

func ToGormAnalysis(a *entities.Analysis) *Analysis {
	m := a.Metrics
	return &Analysis{
		ID:           a.ID,
		Owner:        a.Repository.Owner,
		Name:         a.Repository.Name,
		OverallScore: m.OverallScore,
		TestCoverage: m.TestCoverage,
		OpenIssues:   m.OpenIssues,
		CriticalBugs: m.CriticalBugs,
		Complexity:   string(m.Complexity),
		LastCommit:   m.LastCommit,
		Contributors: m.Contributors,
		Languages:    m.Languages,
		Insights:     m.Insights,
		CreatedAt:    a.AnalyzedAt,
	}
}

func (a *Analysis) ToDomain() *entities.Analysis {
	return &entities.Analysis{
		ID:         a.ID,
		Repository: entities.RepositoryIdentifier{Owner: a.Owner, Name: a.Name},
		Metrics: entities.QualityMetrics{
			OverallScore: a.OverallScore,
			TestCoverage: a.TestCoverage,
			OpenIssues:   a.OpenIssues,
			CriticalBugs: a.CriticalBugs,
			Complexity:   entities.Complexity(a.Complexity),
			LastCommit:   a.LastCommit,
			Contributors: a.Contributors,
			Languages:    a.Languages,
			Insights:     a.Insights,
		},
		AnalyzedAt: a.CreatedAt,
	}
}

// GormAnalysisStore is a GORM-based implementation of AnalysisStore
type GormAnalysisStore struct {
	db *gorm.DB
}

// NewGormAnalysisStore initializes a new GormAnalysisStore
func NewGormAnalysisStore(db *gorm.DB) *GormAnalysisStore {
	return &GormAnalysisStore{db: db}
}

func (s *GormAnalysisStore) SaveAnalysis(ctx context.Context, analysis *entities.Analysis) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return errcodes.ErrContextCancelled
	}

	row := ToGormAnalysis(analysis)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	analysis.ID = row.ID
	analysis.AnalyzedAt = row.CreatedAt
	return nil
}

func (s *GormAnalysisStore) LatestAnalysis(ctx context.Context, repo entities.RepositoryIdentifier) (*entities.Analysis, error) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, errcodes.ErrContextCancelled
	}

	var row Analysis
	err := s.db.WithContext(ctx).
		Where("owner = ? AND name = ?", repo.Owner, repo.Name).
		Order("created_at desc").
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return row.ToDomain(), nil
}

// AnalysesByRepository returns one page of analyses, newest first. It
// returns errcodes.ErrNoRecordFound when the repository has no analyses.
func (s *GormAnalysisStore) AnalysesByRepository(ctx context.Context, repo entities.RepositoryIdentifier, query dtos.APIPagingDto) ([]entities.Analysis, dtos.PagingInfo, error) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, dtos.PagingInfo{}, errcodes.ErrContextCancelled
	}

	var (
		rows  []Analysis
		count int64
	)

	queryInfo, offset := getPaginationInfo(query)

	byRepository := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&Analysis{}).Where("owner = ? AND name = ?", repo.Owner, repo.Name)
	}
	if err := byRepository().Count(&count).Error; err != nil {
		return nil, dtos.PagingInfo{}, fmt.Errorf("failed to count analyses: %w", err)
	}
	if count == 0 {
		return nil, dtos.PagingInfo{}, errcodes.ErrNoRecordFound
	}

	err := byRepository().Order("created_at desc").
		Offset(offset).
		Limit(queryInfo.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, dtos.PagingInfo{}, fmt.Errorf("failed to retrieve analyses: %w", err)
	}

	analyses := make([]entities.Analysis, 0, len(rows))
	for i := range rows {
		analyses = append(analyses, *rows[i].ToDomain())
	}
	return analyses, getPagingInfo(queryInfo, count, len(analyses)), nil
}

func (s *GormAnalysisStore) CountAnalyses(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Analysis{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
