package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/service"
)

// mockRenderer captures the view passed to it for testing.
type mockRenderer struct {
	called bool
	status int
	data   map[string]any
}

func (m *mockRenderer) render(w http.ResponseWriter, _ *http.Request, v View) {
	m.called = true
	m.status = v.Status
	if typed, ok := v.Data.(map[string]any); ok {
		m.data = typed
	}
	w.WriteHeader(v.Status)
}

func TestErrorViewFor(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    ErrorKind
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "conflict",
			err:         apperrors.Conflict(service.MsgUsernameTaken),
			wantKind:    KindConflict,
			wantStatus:  http.StatusConflict,
			wantMessage: service.MsgUsernameTaken,
		},
		{
			name:        "unauthenticated",
			err:         service.ErrInvalidCredentials,
			wantKind:    KindInvalidCredentials,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: service.MsgInvalidCredentials,
		},
		{
			name:        "validation",
			err:         apperrors.Validation("Bad input"),
			wantKind:    KindValidation,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Bad input",
		},
		{
			name:        "not found",
			err:         apperrors.NotFound("Nope"),
			wantKind:    KindNotFound,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Nope",
		},
		{
			name:        "upstream keeps its message",
			err:         apperrors.Wrap(errors.New("dial tcp: refused"), apperrors.ErrCodeUpstream, "Recipe service is down"),
			wantKind:    KindUpstream,
			wantStatus:  http.StatusBadGateway,
			wantMessage: "Recipe service is down",
		},
		{
			name:        "timeout code",
			err:         apperrors.Wrap(context.DeadlineExceeded, apperrors.ErrCodeTimeout, "Too slow"),
			wantKind:    KindTimeout,
			wantStatus:  http.StatusGatewayTimeout,
			wantMessage: "Too slow",
		},
		{
			name:        "canceled code",
			err:         apperrors.Wrap(context.Canceled, apperrors.ErrCodeCanceled, "Stopped"),
			wantKind:    KindCanceled,
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "Stopped",
		},
		{
			name:        "internal app error",
			err:         apperrors.Internal("Broken"),
			wantKind:    KindInternal,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Broken",
		},
		{
			name:        "bare deadline",
			err:         fmt.Errorf("lookup: %w", context.DeadlineExceeded),
			wantKind:    KindTimeout,
			wantStatus:  http.StatusGatewayTimeout,
			wantMessage: msgTimeout,
		},
		{
			name:        "bare cancel",
			err:         context.Canceled,
			wantKind:    KindCanceled,
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: msgCanceled,
		},
		{
			name:        "raw error uses fallback",
			err:         errors.New("pq: password authentication failed for user app"),
			wantKind:    KindInternal,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "fallback text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := ErrorViewFor(tt.err, "fallback text")
			assert.Equal(t, tt.wantKind, view.Kind)
			assert.Equal(t, tt.wantStatus, view.Status)
			assert.Equal(t, tt.wantMessage, view.Message)
		})
	}
}

func TestErrorViewFor_EmptyFallback(t *testing.T) {
	view := ErrorViewFor(errors.New("boom"), "")
	assert.Equal(t, msgGeneric, view.Message)

	view = ErrorViewFor(nil, "")
	assert.Equal(t, KindInternal, view.Kind)
	assert.Equal(t, http.StatusInternalServerError, view.Status)
}

func TestErrorViewFor_NeverLeaksCause(t *testing.T) {
	err := apperrors.Wrap(errors.New("secret-dsn=postgres://app:hunter2@db"), apperrors.ErrCodeInternal, "")
	view := ErrorViewFor(err, "Try again")
	assert.Equal(t, "Try again", view.Message)
	assert.NotContains(t, view.Message, "hunter2")
}

func TestRenderError_FieldErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/signup", nil)
	mock := &mockRenderer{}

	err := &apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: service.MsgUsernameTaken, Field: "username"}
	view := RenderError(ErrorOpts{
		W:        w,
		R:        r,
		Err:      err,
		Renderer: mock.render,
		PageMeta: signupMeta,
		Data:     map[string]any{"Username": "alice"},
	})

	require.True(t, mock.called, "renderer should be called")
	assert.Equal(t, http.StatusConflict, view.Status)
	assert.Equal(t, http.StatusConflict, mock.status)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, true, mock.data["Error"])
	assert.Equal(t, service.MsgUsernameTaken, mock.data["ErrorMessage"])
	assert.Equal(t, string(KindConflict), mock.data["ErrorKind"])
	assert.Equal(t, http.StatusConflict, mock.data["ErrorStatus"])
	assert.Equal(t, "alice", mock.data["Username"])
	assert.Equal(t, PageSignup, mock.data["CurrentPage"])

	errs, ok := mock.data["Errors"].(map[string]string)
	require.True(t, ok, "Errors should be map[string]string")
	assert.Equal(t, service.MsgUsernameTaken, errs["username"])
}

func TestRenderError_ExplicitViewWins(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	mock := &mockRenderer{}

	view := RenderError(ErrorOpts{
		W:        w,
		R:        r,
		Err:      errors.New("ignored"),
		View:     invalidCredentialsView(),
		Renderer: mock.render,
		PageMeta: loginMeta,
	})

	assert.Equal(t, KindInvalidCredentials, view.Kind)
	assert.Equal(t, http.StatusUnauthorized, mock.status)
	assert.Equal(t, service.MsgInvalidCredentials, mock.data["ErrorMessage"])
	assert.NotContains(t, mock.data, "Errors")
}

func TestRenderError_NoRenderer(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/search", nil)

	view := RenderError(ErrorOpts{
		W:   w,
		R:   r,
		Err: apperrors.Upstream("Recipe service is down"),
	})

	assert.Equal(t, http.StatusBadGateway, view.Status)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe service is down")
}

func TestNotFoundView(t *testing.T) {
	view := NotFoundView()
	assert.Equal(t, KindNotFound, view.Kind)
	assert.Equal(t, http.StatusNotFound, view.Status)
	assert.NotEmpty(t, view.Message)
}
