package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/just-nibble/repo-quality/internal/adapters/http/dtos"
	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
	"github.com/just-nibble/repo-quality/pkg/errcodes"
	"github.com/just-nibble/repo-quality/pkg/response"
)

// QualityService is what the handlers need from service.QualityService.
type QualityService interface {
	GetRepositoryInfo(ctx context.Context, url string) (*entities.RepositoryInfo, error)
	AnalyzeCodeQuality(ctx context.Context, url string) entities.QualityMetrics
	History(ctx context.Context, id entities.RepositoryIdentifier, query dtos.APIPagingDto) ([]entities.Analysis, dtos.PagingInfo, error)
	LatestAnalysis(ctx context.Context, id entities.RepositoryIdentifier) (*entities.Analysis, error)
	ClearCache()
	CacheSize() int
}

type RepositoryHandler struct {
	qualityService QualityService
}

func NewRepositoryHandler(qualityService QualityService) *RepositoryHandler {
	return &RepositoryHandler{qualityService: qualityService}
}

func (h *RepositoryHandler) GetRepositoryInfo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "Repository url is required")
		return
	}

	info, err := h.qualityService.GetRepositoryInfo(r.Context(), url)
	if err != nil {
		response.ErrorResponse(w, errcodes.HTTPStatus(err), err.Error())
		return
	}

	response.SuccessResponse(w, http.StatusOK, info)
}

// AnalyzeRepository always answers 200; failed analyses carry the fallback
// metrics.
func (h *RepositoryHandler) AnalyzeRepository(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "Repository url is required")
		return
	}

	response.SuccessResponse(w, http.StatusOK, h.qualityService.AnalyzeCodeQuality(r.Context(), url))
}

func repositoryFromPath(w http.ResponseWriter, r *http.Request) (entities.RepositoryIdentifier, bool) {
	owner := r.PathValue("owner")
	if owner == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "Repository owner is required")
		return entities.RepositoryIdentifier{}, false
	}

	name := r.PathValue("name")
	if name == "" {
		response.ErrorResponse(w, http.StatusBadRequest, "Repository name is required")
		return entities.RepositoryIdentifier{}, false
	}

	return entities.RepositoryIdentifier{Owner: owner, Name: name}, true
}

func (h *RepositoryHandler) FetchAnalyses(w http.ResponseWriter, r *http.Request) {
	id, ok := repositoryFromPath(w, r)
	if !ok {
		return
	}

	query := dtos.APIPagingDto{Page: dtos.DefaultHistoryPage, Limit: dtos.DefaultHistoryLimit}
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.ErrorResponse(w, http.StatusBadRequest, "Invalid page")
			return
		}
		query.Page = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > dtos.MaxHistoryLimit {
			response.ErrorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		query.Limit = n
	}

	analyses, pageInfo, err := h.qualityService.History(r.Context(), id, query)
	if err != nil {
		if errors.Is(err, errcodes.ErrNoRecordFound) {
			response.ErrorResponse(w, http.StatusNotFound, "no analyses found")
			return
		}
		response.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(w, http.StatusOK, dtos.AnalysisHistory{
		Repository: id.FullName(),
		Analyses:   analyses,
		PageInfo:   pageInfo,
	})
}

func (h *RepositoryHandler) FetchLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := repositoryFromPath(w, r)
	if !ok {
		return
	}

	analysis, err := h.qualityService.LatestAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, errcodes.ErrNoRecordFound) {
			response.ErrorResponse(w, http.StatusNotFound, "no analyses found")
			return
		}
		response.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(w, http.StatusOK, analysis)
}

func (h *RepositoryHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	response.SuccessResponse(w, http.StatusOK, dtos.CacheStats{Size: h.qualityService.CacheSize()})
}

func (h *RepositoryHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.qualityService.ClearCache()
	response.SuccessResponse(w, http.StatusOK, "Cache cleared")
}
