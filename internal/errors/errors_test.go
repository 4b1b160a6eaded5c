package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	logctx "github.com/pribylovaa/newsletter-service/internal/pkg/log"
)

func TestConstructors_StatusAndCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest, CodeValidation},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized, CodeUnauthorized},
		{"forbidden", Forbidden("nope"), http.StatusForbidden, CodeForbidden},
		{"not_found", NotFound("missing"), http.StatusNotFound, CodeNotFound},
		{"internal", Internal("boom", errors.New("cause")), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.wantStatus, tt.err.StatusCode)
			require.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestHTTPError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("db down")
	he := Internal("storage failed", cause)

	require.Equal(t, "storage failed: db down", he.Error())
	require.ErrorIs(t, he, cause)

	plain := NotFound("missing")
	require.Equal(t, "missing", plain.Error())
	require.Nil(t, plain.Unwrap())
}

func TestWithCause_AttachesWithoutChangingResponse(t *testing.T) {
	t.Parallel()

	cause := errors.New("jwt: signature invalid")
	he := Forbidden("invalid or expired refresh token").WithCause(cause)

	require.ErrorIs(t, he, cause)
	require.Equal(t, http.StatusForbidden, he.StatusCode)
	require.Equal(t, CodeForbidden, he.Code)
	require.Equal(t, "invalid or expired refresh token", he.Message)
}

func TestWriteError_HTTPError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	WriteError(rec, req, NotFound("invalid email or password"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Error", body.Status)
	require.Equal(t, "invalid email or password", body.Message)
	require.Equal(t, CodeNotFound, body.Code)
}

func TestWriteError_WrappedHTTPError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/subscribers", nil)

	wrapped := fmt.Errorf("handler: %w", Unauthorized("not authorized"))
	WriteError(rec, req, wrapped)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWriteError_UnknownError_BecomesInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/subscribers", nil)

	WriteError(rec, req, errors.New("raw storage failure: dsn=mongodb://secret"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Error", body.Status)
	require.Equal(t, "internal error", body.Message)
	require.Equal(t, CodeInternal, body.Code)

	// Текст исходной ошибки не утекает в тело ответа.
	require.NotContains(t, rec.Body.String(), "mongodb://secret")
}

func TestWriteError_LogsCause(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	req := httptest.NewRequest(http.MethodGet, "/subscribers", nil)
	req = req.WithContext(logctx.Into(req.Context(), l))
	rec := httptest.NewRecorder()

	WriteError(rec, req, Internal("error listing subscribers", errors.New("cursor failed")))

	require.Contains(t, buf.String(), "request_failed")
	require.Contains(t, buf.String(), "cursor failed")
}
