package whatsapp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// ErrorKind groups Graph API failures by what the caller can do about them
type ErrorKind string

const (
	ErrorKindAuth       ErrorKind = "auth"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindRateLimit  ErrorKind = "rate_limit"
	ErrorKindServer     ErrorKind = "server"
)

// graph error codes that mean throttling even when the status is 400
var rateLimitCodes = map[int]bool{
	4:      true,
	80007:  true,
	130429: true,
	131048: true,
	131056: true,
}

// graph error code for an expired or invalid access token
const invalidTokenCode = 190

// APIError is a failed WhatsApp Cloud API call
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Type       string
	Code       int
	Subcode    int
	FBTraceID  string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("whatsapp %s error (status %d, code %d): %s", e.Kind, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("whatsapp %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

type graphErrorBody struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FBTraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

// KindForStatus maps an upstream HTTP status to the error taxonomy
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorKindAuth
	case status == http.StatusTooManyRequests:
		return ErrorKindRateLimit
	case status >= http.StatusInternalServerError:
		return ErrorKindServer
	default:
		return ErrorKindValidation
	}
}

// newAPIError builds the classified error from a non 2xx response
func newAPIError(status int, body []byte) error {
	apiErr := &APIError{
		Kind:       KindForStatus(status),
		StatusCode: status,
		Message:    http.StatusText(status),
	}

	var parsed graphErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
		apiErr.Type = parsed.Error.Type
		apiErr.Code = parsed.Error.Code
		apiErr.Subcode = parsed.Error.ErrorSubcode
		apiErr.FBTraceID = parsed.Error.FBTraceID
	}

	if rateLimitCodes[apiErr.Code] {
		apiErr.Kind = ErrorKindRateLimit
	} else if apiErr.Code == invalidTokenCode {
		apiErr.Kind = ErrorKindAuth
	}

	return markAPIError(apiErr)
}

func newLocalRateLimitError(phoneNumberID string, limit int64) error {
	return markAPIError(&APIError{
		Kind:       ErrorKindRateLimit,
		StatusCode: http.StatusTooManyRequests,
		Message:    fmt.Sprintf("more than %d requests in the current window for phone number %s", limit, phoneNumberID),
	})
}

func markAPIError(apiErr *APIError) error {
	details := map[string]any{
		"kind":        apiErr.Kind,
		"status_code": apiErr.StatusCode,
	}
	if apiErr.Code != 0 {
		details["code"] = apiErr.Code
	}
	if apiErr.FBTraceID != "" {
		details["fbtrace_id"] = apiErr.FBTraceID
	}

	b := ierr.WithError(apiErr).WithReportableDetails(details)
	switch apiErr.Kind {
	case ErrorKindAuth:
		return b.WithHint("WhatsApp rejected the access token for this number").
			Mark(ierr.ErrPermissionDenied)
	case ErrorKindValidation:
		return b.WithHintf("WhatsApp rejected the request: %s", apiErr.Message).
			Mark(ierr.ErrValidation)
	case ErrorKindRateLimit:
		return b.WithHint("Too many WhatsApp requests, please retry shortly").
			Mark(ierr.ErrRateLimited)
	default:
		return b.WithHint("WhatsApp is unavailable, please retry later").
			Mark(ierr.ErrHTTPClient)
	}
}

// AsAPIError extracts the classified error from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func isKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

func IsAuthError(err error) bool       { return isKind(err, ErrorKindAuth) }
func IsValidationError(err error) bool { return isKind(err, ErrorKindValidation) }
func IsRateLimitError(err error) bool  { return isKind(err, ErrorKindRateLimit) }
func IsServerError(err error) bool     { return isKind(err, ErrorKindServer) }
