package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/repo-quality/internal/adapters/http/dtos"
	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
	"github.com/just-nibble/repo-quality/pkg/errcodes"
)

type mockQualityService struct {
	mock.Mock
}

func (m *mockQualityService) GetRepositoryInfo(ctx context.Context, url string) (*entities.RepositoryInfo, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RepositoryInfo), args.Error(1)
}

func (m *mockQualityService) AnalyzeCodeQuality(ctx context.Context, url string) entities.QualityMetrics {
	return m.Called(ctx, url).Get(0).(entities.QualityMetrics)
}

func (m *mockQualityService) History(ctx context.Context, id entities.RepositoryIdentifier, query dtos.APIPagingDto) ([]entities.Analysis, dtos.PagingInfo, error) {
	args := m.Called(ctx, id, query)
	if args.Get(0) == nil {
		return nil, dtos.PagingInfo{}, args.Error(2)
	}
	return args.Get(0).([]entities.Analysis), args.Get(1).(dtos.PagingInfo), args.Error(2)
}

func (m *mockQualityService) LatestAnalysis(ctx context.Context, id entities.RepositoryIdentifier) (*entities.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Analysis), args.Error(1)
}

func (m *mockQualityService) ClearCache() {
	m.Called()
}

func (m *mockQualityService) CacheSize() int {
	return m.Called().Int(0)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetRepositoryInfo(t *testing.T) {
	const url = "https://github.com/octocat/hello-world"

	svc := new(mockQualityService)
	svc.On("GetRepositoryInfo", mock.Anything, url).Return(&entities.RepositoryInfo{Name: "hello-world", Stars: 10}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/repositories/info?url="+url, nil)
	NewRepositoryHandler(svc).GetRepositoryInfo(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.True(t, body.Success)

	var info entities.RepositoryInfo
	require.NoError(t, json.Unmarshal(body.Data, &info))
	assert.Equal(t, "hello-world", info.Name)
	assert.Equal(t, 10, info.Stars)
}

func TestGetRepositoryInfoErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid url", errcodes.ErrInvalidURL, http.StatusBadRequest},
		{"not found", errcodes.ErrRepositoryNotFound, http.StatusNotFound},
		{"rate limited", errcodes.ErrRateLimitedOrPrivate, http.StatusForbidden},
		{"api error", &errcodes.APIError{StatusCode: 500}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockQualityService)
			svc.On("GetRepositoryInfo", mock.Anything, "x").Return(nil, tt.err)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/repositories/info?url=x", nil)
			NewRepositoryHandler(svc).GetRepositoryInfo(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.err.Error(), body.Error)
		})
	}
}

func TestMissingURL(t *testing.T) {
	svc := new(mockQualityService)
	h := NewRepositoryHandler(svc)

	for _, fn := range []http.HandlerFunc{h.GetRepositoryInfo, h.AnalyzeRepository} {
		rec := httptest.NewRecorder()
		fn(rec, httptest.NewRequest(http.MethodGet, "/repositories/info", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	svc.AssertExpectations(t)
}

func TestAnalyzeRepository(t *testing.T) {
	metrics := entities.QualityMetrics{
		OverallScore: 0,
		Complexity:   entities.ComplexityMedium,
		Languages:    []entities.LanguageShare{},
		Insights:     []string{"Unable to analyze repository. Please check the URL and try again."},
	}
	svc := new(mockQualityService)
	svc.On("AnalyzeCodeQuality", mock.Anything, "https://github.com/octocat/missing").Return(metrics)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/repositories/analysis?url=https://github.com/octocat/missing", nil)
	NewRepositoryHandler(svc).AnalyzeRepository(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got entities.QualityMetrics
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Equal(t, metrics, got)
}

func TestFetchAnalyses(t *testing.T) {
	id := entities.RepositoryIdentifier{Owner: "octocat", Name: "hello-world"}

	t.Run("default limit", func(t *testing.T) {
		svc := new(mockQualityService)
		page := dtos.PagingInfo{TotalCount: 1, Count: 1, Page: 1}
		svc.On("History", mock.Anything, id, dtos.APIPagingDto{Page: 1, Limit: 10}).
			Return([]entities.Analysis{{ID: 1, Repository: id}}, page, nil)

		req := httptest.NewRequest(http.MethodGet, "/repositories/octocat/hello-world/analyses", nil)
		req.SetPathValue("owner", "octocat")
		req.SetPathValue("name", "hello-world")
		rec := httptest.NewRecorder()
		NewRepositoryHandler(svc).FetchAnalyses(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var history dtos.AnalysisHistory
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &history))
		assert.Equal(t, "octocat/hello-world", history.Repository)
		assert.Len(t, history.Analyses, 1)
		assert.Equal(t, page, history.PageInfo)
		svc.AssertExpectations(t)
	})

	t.Run("explicit page", func(t *testing.T) {
		svc := new(mockQualityService)
		svc.On("History", mock.Anything, id, dtos.APIPagingDto{Page: 2, Limit: 5}).
			Return([]entities.Analysis{}, dtos.PagingInfo{TotalCount: 6, Count: 1, Page: 2}, nil)

		req := httptest.NewRequest(http.MethodGet, "/repositories/octocat/hello-world/analyses?page=2&limit=5", nil)
		req.SetPathValue("owner", "octocat")
		req.SetPathValue("name", "hello-world")
		rec := httptest.NewRecorder()
		NewRepositoryHandler(svc).FetchAnalyses(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/repositories/octocat/hello-world/analyses?page=zero", nil)
		req.SetPathValue("owner", "octocat")
		req.SetPathValue("name", "hello-world")
		rec := httptest.NewRecorder()
		NewRepositoryHandler(new(mockQualityService)).FetchAnalyses(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/repositories/octocat/hello-world/analyses?limit=-1", nil)
		req.SetPathValue("owner", "octocat")
		req.SetPathValue("name", "hello-world")
		rec := httptest.NewRecorder()
		NewRepositoryHandler(new(mockQualityService)).FetchAnalyses(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no history", func(t *testing.T) {
		svc := new(mockQualityService)
		svc.On("History", mock.Anything, id, dtos.APIPagingDto{Page: 1, Limit: 3}).Return(nil, nil, errcodes.ErrNoRecordFound)

		req := httptest.NewRequest(http.MethodGet, "/repositories/octocat/hello-world/analyses?limit=3", nil)
		req.SetPathValue("owner", "octocat")
		req.SetPathValue("name", "hello-world")
		rec := httptest.NewRecorder()
		NewRepositoryHandler(svc).FetchAnalyses(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(mockQualityService)
		svc.On("History", mock.Anything, id, dtos.APIPagingDto{Page: 1, Limit: 10}).Return(nil, nil, errors.New("db down"))

		req := httptest.NewRequest(http.MethodGet, "/repositories/octocat/hello-world/analyses", nil)
		req.SetPathValue("owner", "octocat")
		req.SetPathValue("name", "hello-world")
		rec := httptest.NewRecorder()
		NewRepositoryHandler(svc).FetchAnalyses(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing owner", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewRepositoryHandler(new(mockQualityService)).FetchAnalyses(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFetchLatestAnalysis(t *testing.T) {
	id := entities.RepositoryIdentifier{Owner: "octocat", Name: "hello-world"}

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/repositories/octocat/hello-world/analyses/latest", nil)
		req.SetPathValue("owner", "octocat")
		req.SetPathValue("name", "hello-world")
		return req
	}

	t.Run("found", func(t *testing.T) {
		svc := new(mockQualityService)
		svc.On("LatestAnalysis", mock.Anything, id).Return(&entities.Analysis{
			ID:         3,
			Repository: id,
			Metrics:    entities.QualityMetrics{OverallScore: 81},
		}, nil)

		rec := httptest.NewRecorder()
		NewRepositoryHandler(svc).FetchLatestAnalysis(rec, newRequest())

		assert.Equal(t, http.StatusOK, rec.Code)
		var got entities.Analysis
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
		assert.Equal(t, uint(3), got.ID)
		assert.Equal(t, 81, got.Metrics.OverallScore)
	})

	t.Run("none stored", func(t *testing.T) {
		svc := new(mockQualityService)
		svc.On("LatestAnalysis", mock.Anything, id).Return(nil, errcodes.ErrNoRecordFound)

		rec := httptest.NewRecorder()
		NewRepositoryHandler(svc).FetchLatestAnalysis(rec, newRequest())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(mockQualityService)
		svc.On("LatestAnalysis", mock.Anything, id).Return(nil, errors.New("db down"))

		rec := httptest.NewRecorder()
		NewRepositoryHandler(svc).FetchLatestAnalysis(rec, newRequest())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCacheEndpoints(t *testing.T) {
	svc := new(mockQualityService)
	svc.On("CacheSize").Return(4)
	svc.On("ClearCache").Once()
	h := NewRepositoryHandler(svc)

	rec := httptest.NewRecorder()
	h.CacheStats(rec, httptest.NewRequest(http.MethodGet, "/cache", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"size":4}`, string(decode(t, rec).Data))

	rec = httptest.NewRecorder()
	h.ClearCache(rec, httptest.NewRequest(http.MethodDelete, "/cache", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
