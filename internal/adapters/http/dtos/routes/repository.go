package routes

import (
	"net/http"

	"github.com/just-nibble/repo-quality/internal/adapters/http/handlers"
)

func NewRepositoryRouter(router *http.ServeMux, handler *handlers.RepositoryHandler) {
	router.HandleFunc("GET /repositories/info", handler.GetRepositoryInfo)
	router.HandleFunc("GET /repositories/analysis", handler.AnalyzeRepository)
	router.HandleFunc("GET /repositories/{owner}/{name}/analyses", handler.FetchAnalyses)
	router.HandleFunc("GET /repositories/{owner}/{name}/analyses/latest", handler.FetchLatestAnalysis)
}

func NewCacheRouter(router *http.ServeMux, handler *handlers.RepositoryHandler) {
	router.HandleFunc("GET /cache", handler.CacheStats)
	router.HandleFunc("DELETE /cache", handler.ClearCache)
}
