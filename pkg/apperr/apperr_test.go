package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(New(CodeNotFound, "missing")))
	assert.Equal(t, CodeRateLimit, CodeOf(Wrap(CodeRateLimit, "quota", errors.New("429"))))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain error")))

	wrapped := fmt.Errorf("context: %w", New(CodeTimeout, "deadline"))
	assert.Equal(t, CodeTimeout, CodeOf(wrapped))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:       http.StatusBadRequest,
		CodeNotFound:         http.StatusNotFound,
		CodeAlreadyProcessed: http.StatusConflict,
		CodeNotConnected:     http.StatusPreconditionFailed,
		CodeMissingAPIKey:    http.StatusPreconditionFailed,
		CodeInsufficientData: http.StatusPreconditionFailed,
		CodeRateLimit:        http.StatusTooManyRequests,
		CodeTimeout:          http.StatusGatewayTimeout,
		CodeAPIError:         http.StatusBadGateway,
		CodeSendFailed:       http.StatusBadGateway,
		CodeInternal:         http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(New(code, "x")), string(code))
	}

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(CodeAPIError, "upstream rejected", errors.New("boom"))
	assert.Contains(t, err.Error(), "API_ERROR")
	assert.Contains(t, err.Error(), "boom")
}
