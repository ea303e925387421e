package errcodes

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidURL           = errors.New("invalid repository url")
	ErrRepositoryNotFound   = errors.New("repository not found")
	ErrRateLimitedOrPrivate = errors.New("github api rate limit exceeded or repository is private")
	ErrNoRecordFound        = errors.New("no record found")
	ErrContextCancelled     = errors.New("context cancelled")
)

// APIError is returned for any non-2xx response other than 403/404, for
// transport failures (StatusCode 0) and for bodies that do not match the
// expected schema.
type APIError struct {
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github api error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("github api error (status %d)", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps an error from the repository pipeline to the status code
// a handler should answer with.
func HTTPStatus(err error) int {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, ErrRepositoryNotFound), errors.Is(err, ErrNoRecordFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimitedOrPrivate):
		return http.StatusForbidden
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
