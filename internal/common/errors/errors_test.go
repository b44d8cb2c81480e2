package errors

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus_MapsCodes(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{http.StatusUnauthorized, ErrCodeUnauthorized, false},
		{http.StatusForbidden, ErrCodeForbidden, false},
		{http.StatusNotFound, ErrCodeNotFound, false},
		{http.StatusConflict, ErrCodeConflict, false},
		{http.StatusBadRequest, ErrCodeValidationFailed, false},
		{http.StatusUnprocessableEntity, ErrCodeValidationFailed, false},
		{http.StatusGatewayTimeout, ErrCodeAPITimeout, true},
		{http.StatusInternalServerError, ErrCodeAPIError, true},
		{http.StatusTeapot, ErrCodeAPIError, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, nil)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, tt.retryable, err.Retryable)
		})
	}
}

func TestFromStatus_ExtractsReason(t *testing.T) {
	t.Run("detail string", func(t *testing.T) {
		err := FromStatus(400, []byte(`{"detail":"Email already registered"}`))
		assert.Equal(t, "Email already registered", err.Details)
	})

	t.Run("detail list", func(t *testing.T) {
		err := FromStatus(422, []byte(`{"detail":[{"loc":["body","email"],"msg":"invalid email"},{"msg":"too short"}]}`))
		assert.Equal(t, "invalid email; too short", err.Details)
	})

	t.Run("message field", func(t *testing.T) {
		err := FromStatus(409, []byte(`{"message":"already applied"}`))
		assert.Equal(t, "already applied", err.Details)
	})

	t.Run("error field", func(t *testing.T) {
		err := FromStatus(400, []byte(`{"error":"bad cursor"}`))
		assert.Equal(t, "bad cursor", err.Reason)
	})

	t.Run("plain text stays out of the reason", func(t *testing.T) {
		err := FromStatus(500, []byte("upstream exploded"))
		assert.Equal(t, "upstream exploded", err.Details)
		assert.Empty(t, err.Reason)
	})

	t.Run("json without a reason", func(t *testing.T) {
		err := FromStatus(400, []byte(`{"code":17}`))
		assert.Equal(t, `{"code":17}`, err.Details)
		assert.Empty(t, err.Reason)
	})

	t.Run("long body is cut on a rune boundary", func(t *testing.T) {
		body := strings.Repeat("a", 199) + "éééé"
		err := FromStatus(502, []byte(body))
		assert.True(t, utf8.ValidString(err.Details))
		assert.Equal(t, strings.Repeat("a", 199), err.Details)
	})

	t.Run("empty body", func(t *testing.T) {
		err := FromStatus(500, []byte("   "))
		assert.Empty(t, err.Details)
	})
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, ErrCodeAPITimeout, FromContext("/x", context.DeadlineExceeded).Code)
	assert.Equal(t, ErrCodeRequestCanceled, FromContext("/x", fmt.Errorf("wrap: %w", context.Canceled)).Code)
	assert.Nil(t, FromContext("/x", fmt.Errorf("dial tcp: refused")))
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	std := FromStatus(http.StatusUnprocessableEntity, nil)
	wrapped := fmt.Errorf("submit: %w", std)
	require.Same(t, std, Normalize(wrapped))

	other := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, other.Code)
	assert.Equal(t, "boom", other.Details)
}

func TestBannerMessage(t *testing.T) {
	assert.Empty(t, BannerMessage(nil))
	assert.Equal(t, "Email already registered", BannerMessage(FromStatus(400, []byte(`{"detail":"Email already registered"}`))))
	assert.Equal(t, "Please check the form and try again.", BannerMessage(FromStatus(422, nil)))
	assert.Equal(t, "Unable to reach the server. Please try again later.", BannerMessage(NewAPIUnreachableError("/x", fmt.Errorf("refused"))))
	assert.Equal(t, "Something went wrong. Please try again.", BannerMessage(fmt.Errorf("random")))
}

func TestBannerMessage_HidesNonJSONBodies(t *testing.T) {
	page := []byte("<html><body><h1>400 Bad Request</h1><hr>nginx/1.25.3 upstream app-7f9c internal trace id 8812</body></html>")
	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity} {
		err := FromStatus(status, page)
		assert.Equal(t, "Please check the form and try again.", BannerMessage(err), "status %d", status)
		assert.Contains(t, err.Details, "nginx/1.25.3")
	}
}

func TestHTTPStatusAndCategory(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, FromStatus(404, nil).HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, NewAPIUnreachableError("/x", fmt.Errorf("x")).HTTPStatus())
	assert.Equal(t, "UPSTREAM", GetErrorCategory(ErrCodeAPITimeout))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeForbidden))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, Is(fmt.Errorf("w: %w", NewNotificationSendFailedError("ses", fmt.Errorf("x"))), ErrCodeNotificationSendFailed))
}

type recordingLogger struct {
	level  string
	fields map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.level, r.fields = "error", fields
}

func (r *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	r.level, r.fields = "warn", fields
}

func TestErrorHandler_Handle(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	assert.Nil(t, h.Handle("noop", nil))

	got := h.Handle("apply", FromStatus(409, []byte(`{"detail":"already applied"}`)))
	assert.Equal(t, ErrCodeConflict, got.Code)
	assert.Equal(t, "warn", log.level)
	assert.Equal(t, "apply", log.fields["action"])

	h.Handle("load", NewAPIUnreachableError("/internships", fmt.Errorf("refused")))
	assert.Equal(t, "error", log.level)
	assert.Equal(t, "UPSTREAM", log.fields["errorCategory"])
}
