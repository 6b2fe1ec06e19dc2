package heroesprofile

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrUnavailable: la API no respondió algo usable (red, 5xx, auth, rate limit).
	ErrUnavailable = errors.New("heroes profile unavailable")
)

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("heroes profile api status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return ErrUnavailable }
