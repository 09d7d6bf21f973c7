package httpx

import (
	"net/http"

	apperrors "github.com/target/recipe-finder/internal/errors"
	"github.com/target/recipe-finder/internal/service"
)

// ShowLogin renders the login page.
// GET /.
func (h *UIHandlers) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, loginMeta, nil)
}

// ShowSignup renders the signup page.
// GET /signup.
func (h *UIHandlers) ShowSignup(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, signupMeta, nil)
}

// Register creates an account and sends the user to the login page.
// POST /signup.
func (h *UIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, ErrorOpts{
			View:     formErrorView(),
			PageMeta: signupMeta,
		})
		return
	}
	username := r.PostFormValue(FieldUsername)
	password := r.PostFormValue(FieldPassword)

	_, err := h.Accounts.Register(r.Context(), username, password)
	switch {
	case err == nil:
		http.Redirect(w, r, PathLogin, http.StatusFound)
	case apperrors.IsConflict(err):
		h.renderError(w, r, ErrorOpts{
			Err:      err,
			PageMeta: signupMeta,
			Data:     map[string]any{"Username": username},
		})
	default:
		h.logger().ErrorContext(r.Context(), "signup failed", "error", err)
		h.renderError(w, r, ErrorOpts{
			View: internalView(service.MsgSignupFailed),
		})
	}
}

// Authenticate verifies credentials and starts a logged-in session.
// POST /login.
func (h *UIHandlers) Authenticate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, ErrorOpts{
			View:     formErrorView(),
			PageMeta: loginMeta,
		})
		return
	}
	username := r.PostFormValue(FieldUsername)
	password := r.PostFormValue(FieldPassword)

	user, err := h.Accounts.Authenticate(r.Context(), username, password)
	if err != nil {
		if apperrors.IsUnauthenticated(err) {
			h.renderError(w, r, ErrorOpts{
				View:     invalidCredentialsView(),
				PageMeta: loginMeta,
				Data:     map[string]any{"Username": username},
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		h.renderError(w, r, ErrorOpts{
			View: internalView(service.MsgLoginFailed),
		})
		return
	}

	var previousID string
	if s := GetSessionFromContext(r.Context()); s != nil {
		previousID = s.ID
	}
	issued, err := h.Sessions.Rotate(r.Context(), previousID, user.Username)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "start session failed", "error", err)
		h.renderError(w, r, ErrorOpts{
			View: internalView(service.MsgLoginFailed),
		})
		return
	}

	h.Cookies.setSessionCookie(w, r, sessionCookie{Token: issued.Token, ExpiresAt: issued.Session.ExpiresAt})
	http.Redirect(w, r, PathSearch, http.StatusFound)
}

// Logout destroys the session and returns to the login page.
// GET /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if s := GetSessionFromContext(r.Context()); s != nil {
		if err := h.Sessions.Logout(r.Context(), s.ID); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}

	h.Cookies.clearSessionCookie(w, r)
	http.Redirect(w, r, PathLogin, http.StatusFound)
}
