package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/models"
	"github.com/ovasilenko/campsite/internal/render"
	"github.com/ovasilenko/campsite/internal/services"
	"github.com/ovasilenko/campsite/internal/sessions"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records the last page rendered.
type fakeRenderer struct {
	status int
	page   string
	data   render.Data
}

func (f *fakeRenderer) HTML(w http.ResponseWriter, status int, page string, data render.Data) {
	f.status = status
	f.page = page
	f.data = data
	w.WriteHeader(status)
}

// fakeSessioner records flashes and sign-in/out calls.
type fakeSessioner struct {
	flashes    map[string]string // kind -> message
	signedIn   *models.UserDB
	signedOut  bool
	signInErr  error
	signOutErr error
}

func newFakeSessioner() *fakeSessioner {
	return &fakeSessioner{flashes: make(map[string]string)}
}

func (f *fakeSessioner) SignIn(ctx context.Context, w http.ResponseWriter, cur sessions.Current, user *models.UserDB) (sessions.Current, error) {
	if f.signInErr != nil {
		return cur, f.signInErr
	}
	f.signedIn = user
	return sessions.Current{SessionID: "new-sid", UserID: user.UserID, Username: user.Username}, nil
}

func (f *fakeSessioner) SignOut(ctx context.Context, cur sessions.Current) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.signedOut = true
	return nil
}

func (f *fakeSessioner) Flash(ctx context.Context, sessionID, kind, message string) {
	f.flashes[kind] = message
}

func (f *fakeSessioner) PopFlashes(ctx context.Context, sessionID string) (string, string) {
	errMsg := f.flashes[sessions.FlashError]
	okMsg := f.flashes[sessions.FlashSuccess]
	delete(f.flashes, sessions.FlashError)
	delete(f.flashes, sessions.FlashSuccess)
	return errMsg, okMsg
}

// fakeCampgroundService implements the campground handler interfaces.
type fakeCampgroundService struct {
	campgrounds map[uuid.UUID]models.CampgroundDB
	comments    map[uuid.UUID][]models.CommentDB

	listSearch  string
	listResult  []models.CampgroundDB
	listErr     error
	createCalls int
	createInput services.CreateCampgroundInput
	createErr   error
	updateCalls int
	updateInput services.UpdateCampgroundInput
	updateErr   error
	deleteCalls int
	deleteErr   error
}

func newFakeCampgroundService() *fakeCampgroundService {
	return &fakeCampgroundService{
		campgrounds: make(map[uuid.UUID]models.CampgroundDB),
		comments:    make(map[uuid.UUID][]models.CommentDB),
	}
}

func (f *fakeCampgroundService) List(ctx context.Context, search string) ([]models.CampgroundDB, error) {
	f.listSearch = search
	return f.listResult, f.listErr
}

func (f *fakeCampgroundService) Get(ctx context.Context, id uuid.UUID) (*models.CampgroundDB, error) {
	c, ok := f.campgrounds[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCampgroundService) GetWithComments(ctx context.Context, id uuid.UUID) (*models.CampgroundDB, []models.CommentDB, error) {
	c, ok := f.campgrounds[id]
	if !ok {
		return nil, nil, services.ErrNotFound
	}
	return &c, f.comments[id], nil
}

func (f *fakeCampgroundService) Create(ctx context.Context, in services.CreateCampgroundInput) (*models.CampgroundDB, error) {
	f.createCalls++
	f.createInput = in
	if in.Image.Body != nil {
		io.Copy(io.Discard, in.Image.Body)
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := models.CampgroundDB{
		CampgroundID: uuid.New(),
		Name:         in.Name,
		Price:        in.Price,
		Description:  in.Description,
		ImageURL:     "https://img.test/new",
		AuthorID:     in.AuthorID,
		AuthorName:   in.AuthorName,
	}
	f.campgrounds[c.CampgroundID] = c
	return &c, nil
}

func (f *fakeCampgroundService) Update(ctx context.Context, id uuid.UUID, in services.UpdateCampgroundInput) error {
	f.updateCalls++
	f.updateInput = in
	return f.updateErr
}

func (f *fakeCampgroundService) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleteCalls++
	return f.deleteErr
}

// fakeCommentService implements the comment handler interfaces.
type fakeCommentService struct {
	comments    map[uuid.UUID]models.CommentDB
	createCalls int
	createErr   error
	updateErr   error
	deleteErr   error
}

func newFakeCommentService() *fakeCommentService {
	return &fakeCommentService{comments: make(map[uuid.UUID]models.CommentDB)}
}

func (f *fakeCommentService) Get(ctx context.Context, id uuid.UUID) (*models.CommentDB, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCommentService) Create(ctx context.Context, campgroundID uuid.UUID, text string, authorID uuid.UUID, authorName string) (*models.CommentDB, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := models.CommentDB{
		CommentID:    uuid.New(),
		CampgroundID: campgroundID,
		Text:         text,
		AuthorID:     authorID,
		AuthorName:   authorName,
	}
	f.comments[c.CommentID] = c
	return &c, nil
}

func (f *fakeCommentService) Update(ctx context.Context, id uuid.UUID, text string) error {
	return f.updateErr
}

func (f *fakeCommentService) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteErr
}

// withSession puts a signed-in (or anonymous) identity on the request.
func withSession(r *http.Request, cur sessions.Current) *http.Request {
	return r.WithContext(sessions.WithCurrent(r.Context(), cur))
}

// withURLParams attaches chi route parameters to the request.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// multipartBody builds a multipart form with the given fields and an
// optional image file.
func multipartBody(t *testing.T, fields map[string]string, imageField, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageField != "" {
		fw, err := mw.CreateFormFile(imageField, imageName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func loggedIn() sessions.Current {
	return sessions.Current{SessionID: "sid", UserID: uuid.New(), Username: "alice"}
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
