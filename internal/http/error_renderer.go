package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/service"
)

// ErrorKind is the machine-readable category shown alongside an error message.
type ErrorKind string

const (
	KindConflict           ErrorKind = "conflict"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindUpstream           ErrorKind = "upstream"
	KindTimeout            ErrorKind = "timeout"
	KindCanceled           ErrorKind = "canceled"
	KindInternal           ErrorKind = "internal"
)

// Messages used when an error carries nothing fit for users.
const (
	msgGeneric  = "Something went wrong. Please try again."
	msgNotFound = "The page you're looking for doesn't exist."
	msgTimeout  = "Request timed out. Please try again."
	msgCanceled = "Request was canceled."
)

// ErrorView is the single contract every handler uses to report a failure to the browser.
type ErrorView struct {
	Kind    ErrorKind
	Message string
	Status  int
	// Field names the form input at fault, if any.
	Field string
}

// ErrorViewFor maps an error to its view. fallback replaces the message of
// errors that are not AppErrors; raw error text never reaches the page.
func ErrorViewFor(err error, fallback string) ErrorView {
	if fallback == "" {
		fallback = msgGeneric
	}
	if err == nil {
		return ErrorView{Kind: KindInternal, Message: fallback, Status: http.StatusInternalServerError}
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return ErrorView{Kind: KindTimeout, Message: msgTimeout, Status: http.StatusGatewayTimeout}
		case errors.Is(err, context.Canceled):
			return ErrorView{Kind: KindCanceled, Message: msgCanceled, Status: http.StatusServiceUnavailable}
		default:
			return ErrorView{Kind: KindInternal, Message: fallback, Status: http.StatusInternalServerError}
		}
	}

	view := ErrorView{
		Message: apperrors.UserMessage(err, fallback),
		Field:   appErr.Field,
	}
	switch appErr.Code {
	case apperrors.ErrCodeConflict:
		view.Kind, view.Status = KindConflict, http.StatusConflict
	case apperrors.ErrCodeUnauthenticated:
		view.Kind, view.Status = KindInvalidCredentials, http.StatusUnauthorized
	case apperrors.ErrCodeValidation:
		view.Kind, view.Status = KindValidation, http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		view.Kind, view.Status = KindNotFound, http.StatusNotFound
	case apperrors.ErrCodeUpstream:
		view.Kind, view.Status = KindUpstream, http.StatusBadGateway
	case apperrors.ErrCodeTimeout:
		view.Kind, view.Status = KindTimeout, http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		view.Kind, view.Status = KindCanceled, http.StatusServiceUnavailable
	default:
		view.Kind, view.Status = KindInternal, http.StatusInternalServerError
	}
	return view
}

// NotFoundView is the view rendered for unknown routes.
func NotFoundView() ErrorView {
	return ErrorView{Kind: KindNotFound, Message: msgNotFound, Status: http.StatusNotFound}
}

// ErrorRenderer is a function that renders a page with the given view.
// This allows the error renderer to work with different rendering strategies.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, v View)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	// W is the HTTP response writer
	W http.ResponseWriter
	// R is the HTTP request
	R *http.Request
	// Err is the error that occurred. Ignored when View is set.
	Err error
	// View overrides the view derived from Err.
	View *ErrorView
	// Fallback is the message for errors that carry none.
	Fallback string
	// Renderer is the function to render the page
	Renderer ErrorRenderer
	// PageMeta selects the page the error is shown on
	PageMeta PageMeta
	// Data contains additional template data, e.g. the submitted form values
	Data map[string]any
}

// RenderError renders a page carrying an ErrorView and returns the view used.
// The response status is always the view's status.
func RenderError(opts ErrorOpts) ErrorView {
	var view ErrorView
	if opts.View != nil {
		view = *opts.View
	} else {
		view = ErrorViewFor(opts.Err, opts.Fallback)
	}

	// Guard: ensure renderer is provided
	if opts.Renderer == nil {
		http.Error(opts.W, view.Message, view.Status)
		return view
	}

	builder := NewTemplateData(opts.R, opts.PageMeta).WithErrorView(view)
	if view.Field != "" {
		builder.WithFieldErrors(map[string]string{view.Field: view.Message})
	}
	for k, v := range opts.Data {
		builder.With(k, v)
	}

	opts.Renderer(opts.W, opts.R, View{Status: view.Status, Data: builder.Build()})
	return view
}

func formErrorView() *ErrorView {
	return &ErrorView{Kind: KindValidation, Message: "We couldn't read the form. Please try again.", Status: http.StatusBadRequest}
}

func internalView(message string) *ErrorView {
	return &ErrorView{Kind: KindInternal, Message: message, Status: http.StatusInternalServerError}
}

// invalidCredentialsView is shared by unknown-user and wrong-password failures.
func invalidCredentialsView() *ErrorView {
	return &ErrorView{Kind: KindInvalidCredentials, Message: service.MsgInvalidCredentials, Status: http.StatusUnauthorized}
}
