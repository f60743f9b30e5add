package tmdb

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMovieNotFound = errors.New("movie not found upstream")
	ErrUnavailable   = errors.New("catalog upstream unavailable")
)

type statusError struct {
	code int
	path string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tmdb: %s responded with %d %s", e.path, e.code, http.StatusText(e.code))
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

// clientSide marks 4xx responses, which say nothing about upstream health.
func clientSide(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code >= 400 && se.code < 500 && se.code != http.StatusTooManyRequests
}
