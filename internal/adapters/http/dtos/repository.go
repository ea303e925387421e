package dtos

import "github.com/just-nibble/repo-quality/internal/core/domain/entities"

const (
	DefaultHistoryPage  = 1
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// CacheStats is the body of GET /cache.
type CacheStats struct {
	Size int `json:"size"`
}

// APIPagingDto is the page requested by a history listing. Zero values fall
// back to the defaults.
type APIPagingDto struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type PagingInfo struct {
	TotalCount  int64 `json:"total_count"`
	Count       int   `json:"count"`
	HasNextPage bool  `json:"has_next_page"`
	Page        int   `json:"page"`
}

// AnalysisHistory is the body of GET /repositories/{owner}/{name}/analyses.
type AnalysisHistory struct {
	Repository string              `json:"repository"`
	Analyses   []entities.Analysis `json:"analyses"`
	PageInfo   PagingInfo          `json:"page_info"`
}
