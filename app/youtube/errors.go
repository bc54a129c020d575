package youtube

import (
	"errors"
)

var (
	// ErrUnavailable marks transient upstream failures (network errors,
	// 5xx, quota). Callers log and move on; the unit of work is not retried.
	ErrUnavailable = errors.New("source unavailable")

	// ErrNotFound marks a permanently missing channel or video.
	ErrNotFound = errors.New("not found")
)
