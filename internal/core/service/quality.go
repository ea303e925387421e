package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"

	"github.com/just-nibble/repo-quality/internal/adapters/api"
	"github.com/just-nibble/repo-quality/internal/adapters/db"
	"github.com/just-nibble/repo-quality/internal/adapters/http/dtos"
	"github.com/just-nibble/repo-quality/internal/adapters/validators"
	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
	"github.com/just-nibble/repo-quality/internal/core/quality"
	"github.com/just-nibble/repo-quality/pkg/errcodes"
	"github.com/just-nibble/repo-quality/pkg/log"
)

const (
	// contributors are counted from a single-entry page; see GetRepositoryInfo
	infoContributorsPerPage     = 1
	analysisContributorsPerPage = 100
	analysisIssuesPerPage       = 100

	// FallbackInsight is the only insight of a failed analysis.
	FallbackInsight = "Unable to analyze repository. Please check the URL and try again."
)

// GitHubAPI is the subset of the GitHub client the service needs.
type GitHubAPI interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error)
	GetLanguages(ctx context.Context, owner, repo string) ([]api.LanguageBytes, error)
	GetContributors(ctx context.Context, owner, repo string, perPage int) ([]*github.Contributor, error)
	GetOpenIssues(ctx context.Context, owner, repo string, perPage int) ([]*github.Issue, error)
	RateLimit() api.RateLimit
	ClearCache()
	CacheSize() int
	SweepCache() int
}

type QualityService struct {
	client GitHubAPI
	store  db.AnalysisStore
	log    log.Log
	now    func() time.Time
}

type ServiceOption func(*QualityService)

// WithClock replaces time.Now for recency calculations.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *QualityService) { s.now = now }
}

// NewQualityService wires the service. store may be nil, in which case
// analyses are not recorded.
func NewQualityService(client GitHubAPI, store db.AnalysisStore, l log.Log, opts ...ServiceOption) *QualityService {
	s := &QualityService{
		client: client,
		store:  store,
		log:    l,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func resolve(url string) (entities.RepositoryIdentifier, error) {
	id, ok := validators.ParseRepositoryURL(url)
	if !ok {
		return entities.RepositoryIdentifier{}, errcodes.ErrInvalidURL
	}
	return id, nil
}

// GetRepositoryInfo fetches metadata, languages and a contributor count for
// the repository at url. Any failed call fails the whole lookup.
func (s *QualityService) GetRepositoryInfo(ctx context.Context, url string) (*entities.RepositoryInfo, error) {
	id, err := resolve(url)
	if err != nil {
		return nil, err
	}

	var (
		repo         *github.Repository
		languages    []api.LanguageBytes
		contributors []*github.Contributor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		repo, err = s.client.GetRepository(gctx, id.Owner, id.Name)
		return wrap("repository", err)
	})
	g.Go(func() (err error) {
		languages, err = s.client.GetLanguages(gctx, id.Owner, id.Name)
		return wrap("languages", err)
	})
	g.Go(func() (err error) {
		contributors, err = s.client.GetContributors(gctx, id.Owner, id.Name, infoContributorsPerPage)
		return wrap("contributors", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The first contributor's commit count stands in for the number of
	// contributors.
	contributorCount := 0
	if len(contributors) > 0 {
		contributorCount = contributors[0].GetContributions()
	}

	return &entities.RepositoryInfo{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.Description,
		Language:      repo.GetLanguage(),
		Languages:     LanguageShares(languages),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		LastCommit:    repo.GetUpdatedAt().Time,
		Contributors:  contributorCount,
		DefaultBranch: repo.GetDefaultBranch(),
		URL:           repo.GetHTMLURL(),
	}, nil
}

// AnalyzeCodeQuality scores the repository at url. It never fails: on any
// error the failure is logged and FallbackMetrics is returned.
func (s *QualityService) AnalyzeCodeQuality(ctx context.Context, url string) entities.QualityMetrics {
	id, metrics, err := s.analyze(ctx, url)
	if err != nil {
		event := s.log.Warn().Err(err).Str("url", url)
		if errors.Is(err, errcodes.ErrRateLimitedOrPrivate) {
			if rl := s.client.RateLimit(); rl.Exhausted() {
				event = event.Bool("rate_limit_exhausted", true).Time("rate_limit_reset", rl.Reset)
			}
		}
		event.Msg("repository analysis failed, returning fallback metrics")
		return FallbackMetrics()
	}

	s.record(ctx, id, metrics)
	return metrics
}

func (s *QualityService) analyze(ctx context.Context, url string) (entities.RepositoryIdentifier, entities.QualityMetrics, error) {
	id, err := resolve(url)
	if err != nil {
		return id, entities.QualityMetrics{}, err
	}

	var (
		repo         *github.Repository
		languages    []api.LanguageBytes
		contributors []*github.Contributor
		issues       []*github.Issue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		repo, err = s.client.GetRepository(gctx, id.Owner, id.Name)
		return wrap("repository", err)
	})
	g.Go(func() (err error) {
		languages, err = s.client.GetLanguages(gctx, id.Owner, id.Name)
		return wrap("languages", err)
	})
	g.Go(func() (err error) {
		contributors, err = s.client.GetContributors(gctx, id.Owner, id.Name, analysisContributorsPerPage)
		return wrap("contributors", err)
	})
	g.Go(func() (err error) {
		issues, err = s.client.GetOpenIssues(gctx, id.Owner, id.Name, analysisIssuesPerPage)
		return wrap("issues", err)
	})
	if err := g.Wait(); err != nil {
		return id, entities.QualityMetrics{}, err
	}

	shares := LanguageShares(languages)
	signals := quality.Signals{
		Stars:        repo.GetStargazersCount(),
		Forks:        repo.GetForksCount(),
		OpenIssues:   repo.GetOpenIssuesCount(),
		BugCount:     CountBugIssues(issues),
		Contributors: len(contributors),
		LastCommitAt: repo.GetUpdatedAt().Time,
	}
	now := s.now()

	return id, entities.QualityMetrics{
		OverallScore: quality.Score(signals, now),
		OpenIssues:   signals.OpenIssues,
		CriticalBugs: signals.BugCount,
		Complexity:   quality.Classify(shares, signals.Contributors),
		LastCommit:   signals.LastCommitAt,
		Contributors: signals.Contributors,
		Languages:    shares,
		Insights:     quality.Insights(signals, len(shares), now),
	}, nil
}

// record stores a successful analysis. Store failures are logged only.
func (s *QualityService) record(ctx context.Context, id entities.RepositoryIdentifier, metrics entities.QualityMetrics) {
	if s.store == nil {
		return
	}

	analysis := &entities.Analysis{Repository: id, Metrics: metrics, AnalyzedAt: s.now()}
	if err := s.store.SaveAnalysis(ctx, analysis); err != nil {
		s.log.Error().Err(err).Str("repository", id.FullName()).Msg("failed to save analysis")
	}
}

// FallbackMetrics is returned when an analysis cannot be completed.
func FallbackMetrics() entities.QualityMetrics {
	return entities.QualityMetrics{
		OverallScore: 0,
		Complexity:   entities.ComplexityMedium,
		Languages:    []entities.LanguageShare{},
		Insights:     []string{FallbackInsight},
	}
}

// LanguageShares converts byte counts to rounded percentages, keeping order.
func LanguageShares(languages []api.LanguageBytes) []entities.LanguageShare {
	var total int64
	for _, l := range languages {
		total += l.Bytes
	}

	shares := make([]entities.LanguageShare, 0, len(languages))
	for _, l := range languages {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(l.Bytes) / float64(total) * 100))
		}
		shares = append(shares, entities.LanguageShare{Name: l.Name, Percentage: pct})
	}
	return shares
}

// CountBugIssues counts issues carrying a label that mentions "bug" or
// "critical", ignoring case.
func CountBugIssues(issues []*github.Issue) int {
	count := 0
	for _, issue := range issues {
		for _, label := range issue.Labels {
			name := strings.ToLower(label.GetName())
			if strings.Contains(name, "bug") || strings.Contains(name, "critical") {
				count++
				break
			}
		}
	}
	return count
}

// LatestAnalysis returns the newest stored analysis for the repository.
func (s *QualityService) LatestAnalysis(ctx context.Context, id entities.RepositoryIdentifier) (*entities.Analysis, error) {
	if s.store == nil {
		return nil, errcodes.ErrNoRecordFound
	}
	return s.store.LatestAnalysis(ctx, id)
}

// History returns one page of stored analyses for the repository, newest
// first.
func (s *QualityService) History(ctx context.Context, id entities.RepositoryIdentifier, query dtos.APIPagingDto) ([]entities.Analysis, dtos.PagingInfo, error) {
	if s.store == nil {
		return nil, dtos.PagingInfo{}, errcodes.ErrNoRecordFound
	}
	return s.store.AnalysesByRepository(ctx, id, query)
}

func (s *QualityService) ClearCache() {
	s.client.ClearCache()
}

func (s *QualityService) CacheSize() int {
	return s.client.CacheSize()
}

// StartCacheSweeper drops stale cache entries every interval until ctx is
// done. A non-positive interval disables sweeping.
func (s *QualityService) StartCacheSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Info().Msg("cache sweeper disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.client.SweepCache(); removed > 0 {
				s.log.Debug().Int("removed", removed).Int("remaining", s.client.CacheSize()).Msg("swept stale cache entries")
			}
		case <-ctx.Done():
			s.log.Info().Msg("cache sweeper stopped")
			return
		}
	}
}

func wrap(call string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", call, err)
}
