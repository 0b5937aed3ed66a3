package gigapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoEmail means extraction succeeded but found no address.
	ErrNoEmail = errors.New("no email address found in resume")
	// ErrUnavailable covers transport failures and 5xx responses.
	ErrUnavailable = errors.New("gig api unavailable")
)

// APIError is a non-2xx response or a {success:false} envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gig api: status %d", e.Status)
	}
	return fmt.Sprintf("gig api: %s (status %d)", e.Message, e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnavailable && e.Status >= http.StatusInternalServerError
}
