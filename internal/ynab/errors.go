package ynab

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the YNAB API, carrying the status and
// the error detail from the response body.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ynab api error (%d): %s", e.StatusCode, e.Detail)
}

// IsAuth reports an authentication or authorization failure (401/403).
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound reports a missing resource (404).
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimit reports a rate-limit rejection (429).
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsValidation reports a rejected payload (400).
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest
}
