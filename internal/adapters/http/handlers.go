package routes

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	dtoroutes "github.com/just-nibble/repo-quality/internal/adapters/http/dtos/routes"
	"github.com/just-nibble/repo-quality/internal/adapters/http/handlers"
	"github.com/just-nibble/repo-quality/pkg/log"
)

func NewRouter(handler *handlers.RepositoryHandler, l log.Log) http.Handler {
	router := http.NewServeMux()
	dtoroutes.NewRepositoryRouter(router, handler)
	dtoroutes.NewCacheRouter(router, handler)
	// Serve Swagger documentation
	router.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	return logRequests(l, router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(l log.Log, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
