package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
	"github.com/ovasilenko/campsite/internal/sessions"
)

// CampgroundAuthorReader loads a campground for the ownership check.
type CampgroundAuthorReader interface {
	GetByID(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, error)
}

// CommentAuthorReader loads a comment for the ownership check.
type CommentAuthorReader interface {
	GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error)
}

// RequireCampgroundOwner allows the request through only when the
// session user is the recorded author of the campground in the id URL
// parameter. A failed lookup is treated the same as an authorization
// failure.
func RequireCampgroundOwner(campgrounds CampgroundAuthorReader, sm Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cur, ok := sessions.CurrentFrom(ctx)
			if !ok || cur.Anonymous() {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "You need to be logged in to do that")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			campgroundID, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Campground not found")
				RedirectBack(w, r, "/campgrounds")
				return
			}

			campground, err := campgrounds.GetByID(ctx, campgroundID)
			if err != nil || campground == nil {
				logger.Log.Errorw("ownership lookup failed", "campground_id", campgroundID, "error", err)
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Campground not found")
				RedirectBack(w, r, "/campgrounds")
				return
			}

			if campground.AuthorID != cur.UserID {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "You don't have permission to do that")
				RedirectBack(w, r, "/campgrounds/"+campgroundID.String())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireCommentOwner is the comment counterpart of
// RequireCampgroundOwner, keyed on the commentId URL parameter.
func RequireCommentOwner(comments CommentAuthorReader, sm Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cur, ok := sessions.CurrentFrom(ctx)
			if !ok || cur.Anonymous() {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "You need to be logged in to do that")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
			if err != nil {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Comment not found")
				RedirectBack(w, r, "/campgrounds")
				return
			}

			comment, err := comments.GetByID(ctx, commentID)
			if err != nil || comment == nil {
				logger.Log.Errorw("ownership lookup failed", "comment_id", commentID, "error", err)
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Comment not found")
				RedirectBack(w, r, "/campgrounds")
				return
			}

			if comment.AuthorID != cur.UserID {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "You don't have permission to do that")
				RedirectBack(w, r, "/campgrounds/"+comment.CampgroundID.String())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
