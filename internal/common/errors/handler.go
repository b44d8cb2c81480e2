// internal/common/errors/handler.go
package errors

// ErrorHandler normalizes and logs errors ending a page action.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err against the named action and returns its normalized form.
// Client-side problems (validation, canceled requests, missing resources)
// log at warn level, everything else at error level.
func (h *ErrorHandler) Handle(action string, err error) *StandardError {
	stdErr := Normalize(err)
	if stdErr == nil {
		return nil
	}

	fields := map[string]interface{}{
		"action":        action,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"status":        stdErr.Status,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}

	switch stdErr.Code {
	case ErrCodeValidationFailed, ErrCodeRequestCanceled, ErrCodeNotFound, ErrCodeConflict, ErrCodeUnauthorized, ErrCodeForbidden:
		h.logger.Warn("action failed", fields)
	default:
		h.logger.Error("action failed", fields)
	}
	return stdErr
}
