package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
	"github.com/ovasilenko/campsite/internal/services"
	"github.com/ovasilenko/campsite/internal/sessions"
)

// CommentGetter loads a single comment.
type CommentGetter interface {
	Get(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error)
}

// CommentCreator creates a comment under a campground.
type CommentCreator interface {
	Create(ctx context.Context, campgroundID uuid.UUID, text string, authorID uuid.UUID, authorName string) (*models.CommentDB, error)
}

// CommentUpdater overwrites a comment's text.
type CommentUpdater interface {
	Update(ctx context.Context, commentID uuid.UUID, text string) error
}

// CommentDeleter removes a comment.
type CommentDeleter interface {
	Delete(ctx context.Context, commentID uuid.UUID) error
}

// NewCommentCreateHandler appends a comment to a campground.
func NewCommentCreateHandler(svc CommentCreator, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		campgroundID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Campground not found")
			redirectBack(w, r, "/campgrounds")
			return
		}

		text := r.FormValue("text")
		if text == "" {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Comment text is required")
			redirectBack(w, r, "/campgrounds/"+campgroundID.String())
			return
		}

		if _, err := svc.Create(ctx, campgroundID, text, cur.UserID, cur.Username); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Campground not found")
				redirectBack(w, r, "/campgrounds")
				return
			}
			logger.Log.Errorw("failed to create comment", "campground_id", campgroundID, "err", err)
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Could not add comment, please try again")
			redirectBack(w, r, "/campgrounds/"+campgroundID.String())
			return
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Comment added")
		http.Redirect(w, r, "/campgrounds/"+campgroundID.String(), http.StatusFound)
	}
}

// NewCommentEditFormHandler renders the comment edit form.
func NewCommentEditFormHandler(svc CommentGetter, rr Renderer, sm FlashPopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
		if err != nil {
			rr.HTML(w, http.StatusNotFound, "notfound.html", pageData(ctx, sm, "Not Found", nil))
			return
		}

		comment, err := svc.Get(ctx, commentID)
		if err != nil {
			rr.HTML(w, http.StatusNotFound, "notfound.html", pageData(ctx, sm, "Not Found", nil))
			return
		}

		rr.HTML(w, http.StatusOK, "comments_edit.html", pageData(ctx, sm, "Edit Comment", *comment))
	}
}

// NewCommentUpdateHandler overwrites the comment text.
func NewCommentUpdateHandler(svc CommentUpdater, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		campgroundID := chi.URLParam(r, "id")
		commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
		if err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Comment not found")
			redirectBack(w, r, "/campgrounds")
			return
		}

		if err := svc.Update(ctx, commentID, r.FormValue("text")); err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Could not update comment, please try again")
			redirectBack(w, r, "/campgrounds/"+campgroundID)
			return
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Comment updated")
		http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusFound)
	}
}

// NewCommentDeleteHandler removes the comment.
func NewCommentDeleteHandler(svc CommentDeleter, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		campgroundID := chi.URLParam(r, "id")
		commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
		if err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Comment not found")
			redirectBack(w, r, "/campgrounds")
			return
		}

		if err := svc.Delete(ctx, commentID); err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Could not delete comment, please try again")
			redirectBack(w, r, "/campgrounds/"+campgroundID)
			return
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Comment deleted")
		http.Redirect(w, r, "/campgrounds/"+campgroundID, http.StatusFound)
	}
}
