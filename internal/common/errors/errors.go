// Package errors provides the standardized error type shared by the API
// client, the session store and the page handlers.
package errors

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAPIUnreachable   ErrorCode = "API_UNREACHABLE"
	ErrCodeAPITimeout       ErrorCode = "API_TIMEOUT"
	ErrCodeRequestCanceled  ErrorCode = "REQUEST_CANCELED"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeConflict         ErrorCode = "CONFLICT"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeAPIError         ErrorCode = "API_ERROR"

	ErrCodeSessionStoreFailed     ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	// Reason is the backend's own explanation, taken only from a JSON error
	// body. It is the one backend text allowed into the banner.
	Reason    string                 `json:"reason,omitempty"`
	Status    int                    `json:"status,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus is the status a page should answer with when this error ends
// the request.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeAPITimeout:
		return http.StatusGatewayTimeout
	case ErrCodeAPIUnreachable, ErrCodeAPIError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAPIUnreachableError wraps a transport failure talking to the backend.
func NewAPIUnreachableError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPIUnreachable,
		Message:   "Backend API unreachable",
		Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewAPITimeoutError(endpoint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAPITimeout,
		Message:   "Backend API timeout",
		Details:   fmt.Sprintf("endpoint: %s", endpoint),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestCanceledError is returned when the browser went away before the
// upstream call finished.
func NewRequestCanceledError(endpoint string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestCanceled,
		Message:   "Request canceled",
		Details:   fmt.Sprintf("endpoint: %s", endpoint),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionStoreError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session storage error",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// apiErrorBody covers the error shapes the backend returns.
type apiErrorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// FromStatus maps a non-2xx backend response to a StandardError. A reason
// found in a JSON body becomes Reason and Details; any other body is kept,
// truncated, in Details for the logs only.
func FromStatus(status int, body []byte) *StandardError {
	reason, ok := extractReason(body)
	details := reason
	if !ok {
		details = truncate(strings.TrimSpace(string(body)), maxDetailsBytes)
	}
	stdErr := &StandardError{
		Status:    status,
		Details:   details,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}

	switch {
	case status == http.StatusUnauthorized:
		stdErr.Code = ErrCodeUnauthorized
		stdErr.Message = "Authentication required"
	case status == http.StatusForbidden:
		stdErr.Code = ErrCodeForbidden
		stdErr.Message = "Access denied"
	case status == http.StatusNotFound:
		stdErr.Code = ErrCodeNotFound
		stdErr.Message = "Resource not found"
	case status == http.StatusConflict:
		stdErr.Code = ErrCodeConflict
		stdErr.Message = "Resource conflict"
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		stdErr.Code = ErrCodeValidationFailed
		stdErr.Message = "Validation failed"
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		stdErr.Code = ErrCodeAPITimeout
		stdErr.Message = "Backend API timeout"
		stdErr.Retryable = true
	default:
		stdErr.Code = ErrCodeAPIError
		stdErr.Message = fmt.Sprintf("Backend API error (%d)", status)
		stdErr.Retryable = status >= 500
	}

	return stdErr
}

const maxDetailsBytes = 200

// extractReason reads detail, message or error from a JSON error body. ok is
// false when the body is not JSON or names no reason.
func extractReason(body []byte) (reason string, ok bool) {
	var parsed apiErrorBody
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &parsed) != nil {
		return "", false
	}

	if len(parsed.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(parsed.Detail, &detail); err == nil && detail != "" {
			return detail, true
		}
		// FastAPI-style validation errors: [{"loc": [...], "msg": "..."}]
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(parsed.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; "), true
			}
		}
	}
	if parsed.Message != "" {
		return parsed.Message, true
	}
	if parsed.Error != "" {
		return parsed.Error, true
	}
	return "", false
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// FromContext classifies a context error raised during an upstream call.
func FromContext(endpoint string, err error) *StandardError {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return NewAPITimeoutError(endpoint)
	}
	if stderrors.Is(err, context.Canceled) {
		return NewRequestCanceledError(endpoint)
	}
	return nil
}

// ==========================
// 4. Utility Functions
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// BannerMessage is the static string shown in the red banner. A validation
// or conflict reason from a JSON body is shown as-is; everything else uses a
// fixed text.
func BannerMessage(err error) string {
	stdErr := Normalize(err)
	if stdErr == nil {
		return ""
	}
	switch stdErr.Code {
	case ErrCodeValidationFailed, ErrCodeConflict:
		if stdErr.Reason != "" {
			return stdErr.Reason
		}
		return "Please check the form and try again."
	case ErrCodeUnauthorized:
		return "Your session has expired. Please log in again."
	case ErrCodeForbidden:
		return "You do not have permission to do that."
	case ErrCodeNotFound:
		return "The requested item could not be found."
	case ErrCodeAPITimeout:
		return "The server took too long to respond. Please try again."
	case ErrCodeAPIUnreachable:
		return "Unable to reach the server. Please try again later."
	case ErrCodeNotificationSendFailed:
		return "We could not send your message. Please try again later."
	default:
		return "Something went wrong. Please try again."
	}
}

// GetErrorCategory returns the category of the error code, used as a metric
// label.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeUnauthorized, ErrCodeForbidden:
		return "AUTH"
	case ErrCodeValidationFailed, ErrCodeConflict:
		return "VALIDATION"
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodeAPIUnreachable, ErrCodeAPITimeout, ErrCodeAPIError:
		return "UPSTREAM"
	case ErrCodeRequestCanceled:
		return "CLIENT"
	case ErrCodeSessionStoreFailed:
		return "SESSION"
	case ErrCodeNotificationSendFailed:
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
