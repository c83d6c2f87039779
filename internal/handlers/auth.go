package handlers

import (
	"context"
	"net/http"

	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
	"github.com/ovasilenko/campsite/internal/services"
	"github.com/ovasilenko/campsite/internal/sessions"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, username, password string) (*models.UserDB, error)
}

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (*models.UserDB, error)
}

// NewRegisterFormHandler renders the registration form.
func NewRegisterFormHandler(rr Renderer, sm FlashPopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rr.HTML(w, http.StatusOK, "register.html", pageData(r.Context(), sm, "Sign Up", nil))
	}
}

// NewRegisterHandler creates the user, establishes a session and
// redirects to the campground list.
func NewRegisterHandler(svc Registerer, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		username := r.FormValue("username")
		password := r.FormValue("password")
		if username == "" || password == "" {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Username and password are required")
			http.Redirect(w, r, "/register", http.StatusFound)
			return
		}

		user, err := svc.Register(ctx, username, password)
		if err != nil {
			switch err {
			case services.ErrUserAlreadyExists:
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Username already exists")
			default:
				logger.Log.Errorw("registration failed", "username", username, "err", err)
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Something went wrong, please try again")
			}
			http.Redirect(w, r, "/register", http.StatusFound)
			return
		}

		cur, err = sm.SignIn(ctx, w, cur, user)
		if err != nil {
			logger.Log.Errorw("failed to establish session", "username", username, "err", err)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Welcome to Campsite, "+user.Username)
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
	}
}

// NewLoginFormHandler renders the login form.
func NewLoginFormHandler(rr Renderer, sm FlashPopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rr.HTML(w, http.StatusOK, "login.html", pageData(r.Context(), sm, "Login", nil))
	}
}

// NewLoginHandler verifies the credential, establishes a session and
// redirects to the campground list; failures redirect back to the form
// with an error flash.
func NewLoginHandler(svc Loginer, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		user, err := svc.Login(ctx, r.FormValue("username"), r.FormValue("password"))
		if err != nil {
			switch err {
			case services.ErrUserDoesNotExist, services.ErrInvalidCredentials:
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Invalid username or password")
			default:
				logger.Log.Errorw("login failed", "err", err)
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Something went wrong, please try again")
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		cur, err = sm.SignIn(ctx, w, cur, user)
		if err != nil {
			logger.Log.Errorw("failed to establish session", "username", user.Username, "err", err)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Welcome back, "+user.Username)
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
	}
}

// NewLogoutHandler destroys the session's identity and redirects to the
// campground list.
func NewLogoutHandler(sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		if err := sm.SignOut(ctx, cur); err != nil {
			logger.Log.Errorw("failed to sign out", "session_id", cur.SessionID, "err", err)
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Logged you out!")
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
	}
}
