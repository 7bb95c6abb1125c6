package cerr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(NotFound, "task not found", nil)
	require.Equal(t, "[not_found] task not found", err.Error())

	wrapped := NewError(Internal, "lookup failed", errors.New("boom"))
	require.Equal(t, "[internal] lookup failed: boom", wrapped.Error())
	require.EqualError(t, errors.Unwrap(wrapped), "boom")
}

func TestNewErrorCapturesStackOnlyForServerErrors(t *testing.T) {
	require.Empty(t, NewError(NotFound, "missing", nil).Stack)
	require.NotEmpty(t, NewError(Internal, "broken", nil).Stack)
}

func TestIsCode(t *testing.T) {
	err := NewError(InvalidArgument, "bad input", nil)
	require.True(t, IsCode(err, InvalidArgument))
	require.False(t, IsCode(err, NotFound))
	require.False(t, IsCode(errors.New("plain"), InvalidArgument))
}

func TestJSONResponseMiddlewareSuccess(t *testing.T) {
	handler := NewJSONResponseChiMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetJSONResponse(r.Context(), map[string]string{"hello": "world"})
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "world", body["hello"])
}

func TestJSONResponseMiddlewareError(t *testing.T) {
	handler := NewJSONResponseChiMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetNewJSONError(r.Context(), NotFound, "task not found", nil)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "not_found", body.Code)
	require.Equal(t, "task not found", body.Message)
}

func TestJSONResponseMiddlewareUnknownError(t *testing.T) {
	handler := NewJSONResponseChiMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetJSONError(r.Context(), errors.New("surprise"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "unknown", body.Code)
	// The underlying error text never leaks to the caller.
	require.Equal(t, "unknown error", body.Message)
}

func TestHTTPCodeMapping(t *testing.T) {
	require.Equal(t, http.StatusNotFound, NotFound.HTTPCode())
	require.Equal(t, http.StatusBadRequest, InvalidArgument.HTTPCode())
	require.Equal(t, http.StatusPreconditionFailed, FailedPrecondition.HTTPCode())
	require.Equal(t, 499, Canceled.HTTPCode())
	require.Equal(t, http.StatusInternalServerError, Code(99).HTTPCode())
}
