package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/models"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is a test-only fake implementing UserReader and
// UserWriter with error injection.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]models.UserDB
	readErr error
	saveErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.UserDB)}
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, user models.UserDB) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.users[user.Username] = user
	return nil
}

// fakeCampgroundRepo implements CampgroundReader, CampgroundWriter and
// CampgroundChecker on an in-memory map.
type fakeCampgroundRepo struct {
	mu          sync.Mutex
	campgrounds map[uuid.UUID]models.CampgroundDB
	comments    map[uuid.UUID][]models.CommentDB
	listErr     error
	getErr      error
	saveErr     error
	updateErr   error
	deleteErr   error
}

func newFakeCampgroundRepo() *fakeCampgroundRepo {
	return &fakeCampgroundRepo{
		campgrounds: make(map[uuid.UUID]models.CampgroundDB),
		comments:    make(map[uuid.UUID][]models.CommentDB),
	}
}

func (f *fakeCampgroundRepo) List(ctx context.Context, search string) ([]models.CampgroundDB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.CampgroundDB{}
	for _, c := range f.campgrounds {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCampgroundRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CampgroundDB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.campgrounds[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCampgroundRepo) GetWithComments(ctx context.Context, id uuid.UUID) (*models.CampgroundDB, []models.CommentDB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, nil, f.getErr
	}
	c, ok := f.campgrounds[id]
	if !ok {
		return nil, nil, nil
	}
	return &c, f.comments[id], nil
}

func (f *fakeCampgroundRepo) Save(ctx context.Context, c models.CampgroundDB) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.campgrounds[c.CampgroundID] = c
	return nil
}

func (f *fakeCampgroundRepo) Update(ctx context.Context, c models.CampgroundDB) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.campgrounds[c.CampgroundID] = c
	return nil
}

func (f *fakeCampgroundRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.campgrounds, id)
	delete(f.comments, id)
	return nil
}

// fakeCommentRepo implements CommentReader and CommentWriter.
type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]models.CommentDB
	saveErr  error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[uuid.UUID]models.CommentDB)}
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CommentDB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCommentRepo) Save(ctx context.Context, c models.CommentDB) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.comments[c.CommentID] = c
	return nil
}

func (f *fakeCommentRepo) Update(ctx context.Context, id uuid.UUID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.comments[id]
	c.Text = text
	f.comments[id] = c
	return nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.comments, id)
	return nil
}

// fakeImageStore records uploads and deletions in call order.
type fakeImageStore struct {
	mu        sync.Mutex
	uploads   []string // filenames, in call order
	deletes   []string // asset ids, in call order
	calls     []string // "upload"/"delete" interleaving
	uploadErr error
	deleteErr error
	nextID    int
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{}
}

func (f *fakeImageStore) Upload(ctx context.Context, filename string, body io.Reader) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	io.Copy(io.Discard, body)
	f.nextID++
	f.uploads = append(f.uploads, filename)
	assetID := fmt.Sprintf("asset-%d", f.nextID)
	return "https://img.test/" + assetID, assetID, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, assetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, assetID)
	return nil
}

// fakeKafkaWriter records published messages.
type fakeKafkaWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	writeErr error
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeKafkaWriter) Close() error { return nil }

func imageBody() io.Reader {
	return bytes.NewBufferString("fake image bytes")
}

func userFixture(username, password string) models.UserDB {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return models.UserDB{
		UserID:       uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
	}
}
