package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/images"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
	"github.com/ovasilenko/campsite/internal/services"
	"github.com/ovasilenko/campsite/internal/sessions"
)

// maxUploadBytes caps multipart form memory for image uploads.
const maxUploadBytes = 32 << 20

// CampgroundLister lists campgrounds, optionally filtered by search term.
type CampgroundLister interface {
	List(ctx context.Context, search string) ([]models.CampgroundDB, error)
}

// CampgroundGetter loads a single campground, with or without comments.
type CampgroundGetter interface {
	Get(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, error)
	GetWithComments(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, []models.CommentDB, error)
}

// CampgroundCreator creates a campground from a validated input.
type CampgroundCreator interface {
	Create(ctx context.Context, in services.CreateCampgroundInput) (*models.CampgroundDB, error)
}

// CampgroundUpdater updates a campground's mutable fields.
type CampgroundUpdater interface {
	Update(ctx context.Context, campgroundID uuid.UUID, in services.UpdateCampgroundInput) error
}

// CampgroundDeleter deletes a campground together with its hosted asset.
type CampgroundDeleter interface {
	Delete(ctx context.Context, campgroundID uuid.UUID) error
}

// CampgroundListContent is the index page payload.
type CampgroundListContent struct {
	Campgrounds []models.CampgroundDB
	Search      string
	NoMatch     string
}

// CampgroundShowContent is the show page payload.
type CampgroundShowContent struct {
	Campground models.CampgroundDB
	Comments   []models.CommentDB
}

// NewCampgroundListHandler renders the campground index, filtered when
// a search query parameter is present. An empty search result carries a
// distinct not-found notice.
func NewCampgroundListHandler(svc CampgroundLister, rr Renderer, sm FlashPopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		search := r.URL.Query().Get("search")
		campgrounds, err := svc.List(ctx, search)
		if err != nil {
			logger.Log.Errorw("failed to list campgrounds", "search", search, "err", err)
			campgrounds = nil
		}

		content := CampgroundListContent{Campgrounds: campgrounds, Search: search}
		if search != "" && len(campgrounds) == 0 {
			content.NoMatch = "Campground not found, please try again"
		}

		rr.HTML(w, http.StatusOK, "campgrounds_index.html", pageData(ctx, sm, "Campgrounds", content))
	}
}

// NewCampgroundNewFormHandler renders the creation form.
func NewCampgroundNewFormHandler(rr Renderer, sm FlashPopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rr.HTML(w, http.StatusOK, "campgrounds_new.html", pageData(r.Context(), sm, "New Campground", nil))
	}
}

// NewCampgroundCreateHandler validates the multipart form and creates
// the campground. The image is validated before the provider or the
// store is touched.
func NewCampgroundCreateHandler(svc CampgroundCreator, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Invalid form submission")
			redirectBack(w, r, "/campgrounds/new")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "An image is required")
			redirectBack(w, r, "/campgrounds/new")
			return
		}
		defer file.Close()

		if !images.AllowedExtension(header.Filename) {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Only image files (jpg, jpeg, png, gif) are allowed")
			redirectBack(w, r, "/campgrounds/new")
			return
		}

		price, err := strconv.ParseFloat(r.FormValue("price"), 64)
		if err != nil || r.FormValue("name") == "" {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Name and a valid price are required")
			redirectBack(w, r, "/campgrounds/new")
			return
		}

		campground, err := svc.Create(ctx, services.CreateCampgroundInput{
			Name:        r.FormValue("name"),
			Price:       price,
			Description: r.FormValue("description"),
			Image:       services.ImageUpload{Filename: header.Filename, Body: file},
			AuthorID:    cur.UserID,
			AuthorName:  cur.Username,
		})
		if err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Could not create campground, please try again")
			redirectBack(w, r, "/campgrounds/new")
			return
		}

		http.Redirect(w, r, "/campgrounds/"+campground.CampgroundID.String(), http.StatusFound)
	}
}

// NewCampgroundShowHandler renders one campground with its comments
// populated. Unknown ids render a 404 page.
func NewCampgroundShowHandler(svc CampgroundGetter, rr Renderer, sm FlashPopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		campgroundID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			rr.HTML(w, http.StatusNotFound, "notfound.html", pageData(ctx, sm, "Not Found", nil))
			return
		}

		campground, comments, err := svc.GetWithComments(ctx, campgroundID)
		if err != nil {
			if !errors.Is(err, services.ErrNotFound) {
				logger.Log.Errorw("failed to load campground", "campground_id", campgroundID, "err", err)
			}
			rr.HTML(w, http.StatusNotFound, "notfound.html", pageData(ctx, sm, "Not Found", nil))
			return
		}

		content := CampgroundShowContent{Campground: *campground, Comments: comments}
		rr.HTML(w, http.StatusOK, "campgrounds_show.html", pageData(ctx, sm, campground.Name, content))
	}
}

// NewCampgroundEditFormHandler renders the edit form.
func NewCampgroundEditFormHandler(svc CampgroundGetter, rr Renderer, sm FlashPopper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		campgroundID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			rr.HTML(w, http.StatusNotFound, "notfound.html", pageData(ctx, sm, "Not Found", nil))
			return
		}

		campground, err := svc.Get(ctx, campgroundID)
		if err != nil {
			rr.HTML(w, http.StatusNotFound, "notfound.html", pageData(ctx, sm, "Not Found", nil))
			return
		}

		rr.HTML(w, http.StatusOK, "campgrounds_edit.html", pageData(ctx, sm, "Edit "+campground.Name, *campground))
	}
}

// NewCampgroundUpdateHandler overwrites name/price/description and
// optionally replaces the image.
func NewCampgroundUpdateHandler(svc CampgroundUpdater, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		campgroundID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Campground not found")
			redirectBack(w, r, "/campgrounds")
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Invalid form submission")
			redirectBack(w, r, "/campgrounds/"+campgroundID.String()+"/edit")
			return
		}

		price, err := strconv.ParseFloat(r.FormValue("price"), 64)
		if err != nil || r.FormValue("name") == "" {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Name and a valid price are required")
			redirectBack(w, r, "/campgrounds/"+campgroundID.String()+"/edit")
			return
		}

		in := services.UpdateCampgroundInput{
			Name:        r.FormValue("name"),
			Price:       price,
			Description: r.FormValue("description"),
		}

		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			defer file.Close()
			if !images.AllowedExtension(header.Filename) {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Only image files (jpg, jpeg, png, gif) are allowed")
				redirectBack(w, r, "/campgrounds/"+campgroundID.String()+"/edit")
				return
			}
			in.Image = &services.ImageUpload{Filename: header.Filename, Body: file}
		case errors.Is(err, http.ErrMissingFile):
			// keeping the current image
		default:
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Invalid form submission")
			redirectBack(w, r, "/campgrounds/"+campgroundID.String()+"/edit")
			return
		}

		if err := svc.Update(ctx, campgroundID, in); err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Could not update campground, please try again")
			redirectBack(w, r, "/campgrounds/"+campgroundID.String())
			return
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Updated successfully")
		http.Redirect(w, r, "/campgrounds/"+campgroundID.String(), http.StatusFound)
	}
}

// NewCampgroundDeleteHandler deletes the hosted asset and then the
// campground; an asset deletion failure leaves the campground in place.
func NewCampgroundDeleteHandler(svc CampgroundDeleter, sm Sessioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cur, _ := sessions.CurrentFrom(ctx)

		campgroundID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Campground not found")
			redirectBack(w, r, "/campgrounds")
			return
		}

		if err := svc.Delete(ctx, campgroundID); err != nil {
			sm.Flash(ctx, cur.SessionID, sessions.FlashError, "Could not delete campground, please try again")
			redirectBack(w, r, "/campgrounds/"+campgroundID.String())
			return
		}

		sm.Flash(ctx, cur.SessionID, sessions.FlashSuccess, "Campground deleted successfully")
		http.Redirect(w, r, "/campgrounds", http.StatusFound)
	}
}
