package httpclient

import (
	"fmt"

	"github.com/cockroachdb/errors"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// Error is a non 2xx upstream response
type Error struct {
	StatusCode int
	Response   []byte
	Headers    map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("http client error: status %d", e.StatusCode)
}

// NewError wraps the response and marks it ErrHTTPClient
func NewError(statusCode int, response []byte, headers map[string]string) error {
	return ierr.WithError(&Error{
		StatusCode: statusCode,
		Response:   response,
		Headers:    headers,
	}).Mark(ierr.ErrHTTPClient)
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
