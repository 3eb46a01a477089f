// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingToken is returned when no mapping provider credential is
	// configured.
	ErrMissingToken = errors.New("missing geocoding access token")
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrClusterNotFound is returned when a click targets a cluster index that
	// is not on screen.
	ErrClusterNotFound = errors.New("cluster not found")
)

// GeocodingError represents a classified provider failure.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType enumerates geocoding failure kinds.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit too many requests.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded quota exhausted or access denied.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout request deadline exceeded.
	ErrorTypeTimeout
	// ErrorTypeNotFound no location for the query.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest rejected query.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError transport failure or provider outage.
	ErrorTypeNetworkError
	// ErrorTypeUnauthorized missing or rejected credential.
	ErrorTypeUnauthorized
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:        "unknown",
	ErrorTypeRateLimit:      "rate_limit",
	ErrorTypeQuotaExceeded:  "quota_exceeded",
	ErrorTypeTimeout:        "timeout",
	ErrorTypeNotFound:       "not_found",
	ErrorTypeInvalidRequest: "invalid_request",
	ErrorTypeNetworkError:   "network",
	ErrorTypeUnauthorized:   "unauthorized",
}

func (t ErrorType) String() string {
	if s, ok := errorTypeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("ErrorType(%d)", int(t))
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

func hasErrorType(err error, t ErrorType) (found, match bool) {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return true, geoErr.Type == t
	}

	return false, false
}

// IsRateLimitError reports whether err is a rate limit rejection.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	if found, match := hasErrorType(err, ErrorTypeRateLimit); found {
		return match
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsQuotaExceededError reports whether err is a quota rejection.
func IsQuotaExceededError(err error) bool {
	if err == nil {
		return false
	}

	if found, match := hasErrorType(err, ErrorTypeQuotaExceeded); found {
		return match
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "quota exceeded")
}

// IsTimeoutError reports whether err is a timeout.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if found, match := hasErrorType(err, ErrorTypeTimeout); found {
		return match
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// IsNotFoundError reports whether the provider found nothing for the query.
func IsNotFoundError(err error) bool {
	_, match := hasErrorType(err, ErrorTypeNotFound)

	return match
}

// IsUnauthorizedError reports whether the credential is missing or rejected.
func IsUnauthorizedError(err error) bool {
	if errors.Is(err, ErrMissingToken) {
		return true
	}

	_, match := hasErrorType(err, ErrorTypeUnauthorized)

	return match
}

// ClassifyHTTPError maps a provider status code to a GeocodingError.
func ClassifyHTTPError(statusCode int, provider string) *GeocodingError {
	prefix := provider
	if prefix == "" {
		prefix = "geocoder"
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return &GeocodingError{
			Type:    ErrorTypeRateLimit,
			Message: prefix + ": rate limit reached",
		}
	case http.StatusUnauthorized:
		return &GeocodingError{
			Type:    ErrorTypeUnauthorized,
			Message: prefix + ": access token rejected",
		}
	case http.StatusForbidden:
		return &GeocodingError{
			Type:    ErrorTypeQuotaExceeded,
			Message: prefix + ": quota exceeded or access denied",
		}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &GeocodingError{
			Type:    ErrorTypeInvalidRequest,
			Message: prefix + ": invalid request",
		}
	case http.StatusNotFound:
		return &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: prefix + ": location not found",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &GeocodingError{
			Type:    ErrorTypeNetworkError,
			Message: fmt.Sprintf("%s: service unavailable (status %d)", prefix, statusCode),
		}
	default:
		return &GeocodingError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("%s: HTTP error %d", prefix, statusCode),
		}
	}
}

// classifyTransportError wraps a client.Do failure.
func classifyTransportError(err error, provider string) *GeocodingError {
	t := ErrorTypeNetworkError
	if IsTimeoutError(err) {
		t = ErrorTypeTimeout
	}

	return &GeocodingError{
		Type:    t,
		Message: provider + ": request failed",
		Err:     err,
	}
}
