package services

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
	"github.com/segmentio/kafka-go"
)

// CampgroundReader defines read operations for campgrounds.
type CampgroundReader interface {
	List(ctx context.Context, search string) ([]models.CampgroundDB, error)
	GetByID(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, error)
	GetWithComments(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, []models.CommentDB, error)
}

// CampgroundWriter defines write operations for campgrounds.
type CampgroundWriter interface {
	Save(ctx context.Context, c models.CampgroundDB) error
	Update(ctx context.Context, c models.CampgroundDB) error
	Delete(ctx context.Context, campgroundID uuid.UUID) error
}

// ImageStore uploads and deletes hosted image assets.
type ImageStore interface {
	Upload(ctx context.Context, filename string, body io.Reader) (url, assetID string, err error)
	Delete(ctx context.Context, assetID string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ImageUpload is an incoming image file.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// CreateCampgroundInput carries the fields of a new campground.
type CreateCampgroundInput struct {
	Name        string
	Price       float64
	Description string
	Image       ImageUpload
	AuthorID    uuid.UUID
	AuthorName  string
}

// UpdateCampgroundInput carries the mutable fields of a campground.
// A nil Image leaves the current asset untouched.
type UpdateCampgroundInput struct {
	Name        string
	Price       float64
	Description string
	Image       *ImageUpload
}

// CampgroundService orchestrates campground CRUD against the store and
// the image host, and publishes lifecycle events.
type CampgroundService struct {
	readRepo    CampgroundReader
	writeRepo   CampgroundWriter
	images      ImageStore
	kafkaWriter KafkaWriter
}

// NewCampgroundService creates a new CampgroundService.
func NewCampgroundService(
	readRepo CampgroundReader,
	writeRepo CampgroundWriter,
	images ImageStore,
	kafkaWriter KafkaWriter,
) *CampgroundService {
	return &CampgroundService{
		readRepo:    readRepo,
		writeRepo:   writeRepo,
		images:      images,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes a campground lifecycle event to Kafka.
func (s *CampgroundService) publishEvent(ctx context.Context, operation string, campgroundID, userID uuid.UUID) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.ActivityEvent{
		EventID:      uuid.NewString(),
		Timestamp:    time.Now().Unix(),
		Operation:    operation,
		CampgroundID: campgroundID.String(),
		UserID:       userID.String(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal activity event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish activity event", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("activity event published", "event_id", event.EventID, "operation", operation)
	}
}

// List returns campgrounds, optionally filtered by a case-insensitive
// substring match on the name.
func (s *CampgroundService) List(ctx context.Context, search string) ([]models.CampgroundDB, error) {
	return s.readRepo.List(ctx, search)
}

// Get returns one campground, or ErrNotFound.
func (s *CampgroundService) Get(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, error) {
	campground, err := s.readRepo.GetByID(ctx, campgroundID)
	if err != nil {
		return nil, err
	}
	if campground == nil {
		return nil, ErrNotFound
	}
	return campground, nil
}

// GetWithComments returns one campground with its comments populated,
// or ErrNotFound.
func (s *CampgroundService) GetWithComments(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, []models.CommentDB, error) {
	campground, comments, err := s.readRepo.GetWithComments(ctx, campgroundID)
	if err != nil {
		return nil, nil, err
	}
	if campground == nil {
		return nil, nil, ErrNotFound
	}
	return campground, comments, nil
}

// Create uploads the image and persists a new campground with the
// denormalized author. A failed store write removes the just-uploaded
// asset on a best-effort basis.
func (s *CampgroundService) Create(ctx context.Context, in CreateCampgroundInput) (*models.CampgroundDB, error) {
	url, assetID, err := s.images.Upload(ctx, in.Image.Filename, in.Image.Body)
	if err != nil {
		logger.Log.Errorw("image upload failed", "filename", in.Image.Filename, "error", err)
		return nil, err
	}

	campground := models.CampgroundDB{
		CampgroundID: uuid.New(),
		Name:         in.Name,
		Price:        in.Price,
		Description:  in.Description,
		ImageURL:     url,
		ImageAssetID: assetID,
		AuthorID:     in.AuthorID,
		AuthorName:   in.AuthorName,
	}

	if err := s.writeRepo.Save(ctx, campground); err != nil {
		logger.Log.Errorw("failed to save campground", "campground_id", campground.CampgroundID, "error", err)
		if delErr := s.images.Delete(ctx, assetID); delErr != nil {
			logger.Log.Errorw("failed to clean up orphaned asset", "asset_id", assetID, "error", delErr)
		}
		return nil, err
	}

	s.publishEvent(ctx, models.OpCampgroundCreated, campground.CampgroundID, in.AuthorID)
	return &campground, nil
}

// Update overwrites name/price/description and, when a replacement
// image is supplied, uploads the new asset first and deletes the old
// one only after the upload succeeded.
func (s *CampgroundService) Update(ctx context.Context, campgroundID uuid.UUID, in UpdateCampgroundInput) error {
	campground, err := s.readRepo.GetByID(ctx, campgroundID)
	if err != nil {
		return err
	}
	if campground == nil {
		return ErrNotFound
	}

	if in.Image != nil {
		url, assetID, err := s.images.Upload(ctx, in.Image.Filename, in.Image.Body)
		if err != nil {
			logger.Log.Errorw("replacement upload failed", "campground_id", campgroundID, "error", err)
			return err
		}
		oldAssetID := campground.ImageAssetID
		campground.ImageURL = url
		campground.ImageAssetID = assetID
		if err := s.images.Delete(ctx, oldAssetID); err != nil {
			// The listing now points at the new asset; the stale one
			// only costs storage.
			logger.Log.Errorw("failed to delete replaced asset", "asset_id", oldAssetID, "error", err)
		}
	}

	campground.Name = in.Name
	campground.Price = in.Price
	campground.Description = in.Description

	if err := s.writeRepo.Update(ctx, *campground); err != nil {
		logger.Log.Errorw("failed to update campground", "campground_id", campgroundID, "error", err)
		return err
	}

	s.publishEvent(ctx, models.OpCampgroundUpdated, campgroundID, campground.AuthorID)
	return nil
}

// Delete removes the hosted asset first; if that fails the campground
// row is left in place and the error is returned.
func (s *CampgroundService) Delete(ctx context.Context, campgroundID uuid.UUID) error {
	campground, err := s.readRepo.GetByID(ctx, campgroundID)
	if err != nil {
		return err
	}
	if campground == nil {
		return ErrNotFound
	}

	if err := s.images.Delete(ctx, campground.ImageAssetID); err != nil {
		logger.Log.Errorw("asset deletion failed, keeping campground",
			"campground_id", campgroundID, "asset_id", campground.ImageAssetID, "error", err)
		return err
	}

	if err := s.writeRepo.Delete(ctx, campgroundID); err != nil {
		logger.Log.Errorw("failed to delete campground", "campground_id", campgroundID, "error", err)
		return err
	}

	s.publishEvent(ctx, models.OpCampgroundDeleted, campgroundID, campground.AuthorID)
	return nil
}
