package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/jschof1/val-des-roses/pkg/errors"
)

// StorefrontErrorResponse mirrors the error body returned by the commerce
// platform's storefront API: a top-level "errors" array of messages.
type StorefrontErrorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ParseResponseError reads the body of a non-2xx HTTP response from the
// commerce platform and translates it into an appropriate AppError. If the
// body matches the storefront error format, the messages are preserved.
// Otherwise a generic error is returned with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	var downstream StorefrontErrorResponse
	if json.Unmarshal(bodyBytes, &downstream) == nil && len(downstream.Errors) > 0 {
		return mapStorefrontError(resp.StatusCode, downstream.Errors[0].Message, serviceName)
	}

	// Fallback: unstructured error body.
	return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, string(bodyBytes))
}

// mapStorefrontError translates the platform's HTTP status code into an
// AppError that preserves the error semantics.
func mapStorefrontError(status int, message, serviceName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// Bad or missing storefront token means the backend is effectively
		// not configured for this store.
		return apperrors.NotConfigured(serviceName)
	case status == http.StatusTooManyRequests:
		return apperrors.Unavailable(qualifiedMsg)
	case status >= 500:
		return apperrors.Unavailable(qualifiedMsg)
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
// Client errors should not be retried since the request itself was invalid.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
