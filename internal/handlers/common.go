package handlers

import (
	"context"
	"net/http"

	"github.com/ovasilenko/campsite/internal/models"
	"github.com/ovasilenko/campsite/internal/render"
	"github.com/ovasilenko/campsite/internal/sessions"
)

// Renderer renders a page template inside the shared layout.
type Renderer interface {
	HTML(w http.ResponseWriter, status int, page string, data render.Data)
}

// Sessioner is the session surface handlers need.
type Sessioner interface {
	SignIn(ctx context.Context, w http.ResponseWriter, cur sessions.Current, user *models.UserDB) (sessions.Current, error)
	SignOut(ctx context.Context, cur sessions.Current) error
	Flash(ctx context.Context, sessionID, kind, message string)
	PopFlashes(ctx context.Context, sessionID string) (errorMsg, successMsg string)
}

// FlashPopper is the read-only flash surface used when rendering.
type FlashPopper interface {
	PopFlashes(ctx context.Context, sessionID string) (errorMsg, successMsg string)
}

// pageData assembles the layout data for a render: current user plus
// any pending flash messages.
func pageData(ctx context.Context, sm FlashPopper, title string, content any) render.Data {
	data := render.Data{Title: title, Content: content}
	if cur, ok := sessions.CurrentFrom(ctx); ok {
		data.User = cur
		data.Error, data.Success = sm.PopFlashes(ctx, cur.SessionID)
	}
	return data
}

// redirectBack redirects to the referring page, or to fallback.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.Referer()
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusFound)
}
