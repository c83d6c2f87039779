package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
)

// CommentReader defines read operations for comments.
type CommentReader interface {
	GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error)
}

// CommentWriter defines write operations for comments.
type CommentWriter interface {
	Save(ctx context.Context, c models.CommentDB) error
	Update(ctx context.Context, commentID uuid.UUID, text string) error
	Delete(ctx context.Context, commentID uuid.UUID) error
}

// CampgroundChecker verifies a parent campground exists.
type CampgroundChecker interface {
	GetByID(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, error)
}

// CommentService handles comment CRUD under a campground.
type CommentService struct {
	readRepo    CommentReader
	writeRepo   CommentWriter
	campgrounds CampgroundChecker
}

// NewCommentService creates a new CommentService.
func NewCommentService(readRepo CommentReader, writeRepo CommentWriter, campgrounds CampgroundChecker) *CommentService {
	return &CommentService{
		readRepo:    readRepo,
		writeRepo:   writeRepo,
		campgrounds: campgrounds,
	}
}

// Get returns one comment, or ErrNotFound.
func (s *CommentService) Get(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error) {
	comment, err := s.readRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	return comment, nil
}

// Create adds a comment to an existing campground with the denormalized
// author.
func (s *CommentService) Create(ctx context.Context, campgroundID uuid.UUID, text string, authorID uuid.UUID, authorName string) (*models.CommentDB, error) {
	campground, err := s.campgrounds.GetByID(ctx, campgroundID)
	if err != nil {
		return nil, err
	}
	if campground == nil {
		logger.Log.Errorw("comment on missing campground", "campground_id", campgroundID)
		return nil, ErrNotFound
	}

	comment := models.CommentDB{
		CommentID:    uuid.New(),
		CampgroundID: campgroundID,
		Text:         text,
		AuthorID:     authorID,
		AuthorName:   authorName,
	}
	if err := s.writeRepo.Save(ctx, comment); err != nil {
		logger.Log.Errorw("failed to save comment", "campground_id", campgroundID, "error", err)
		return nil, err
	}

	return &comment, nil
}

// Update overwrites the text of an existing comment.
func (s *CommentService) Update(ctx context.Context, commentID uuid.UUID, text string) error {
	comment, err := s.readRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}

	if err := s.writeRepo.Update(ctx, commentID, text); err != nil {
		logger.Log.Errorw("failed to update comment", "comment_id", commentID, "error", err)
		return err
	}
	return nil
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, commentID uuid.UUID) error {
	comment, err := s.readRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}

	if err := s.writeRepo.Delete(ctx, commentID); err != nil {
		logger.Log.Errorw("failed to delete comment", "comment_id", commentID, "error", err)
		return err
	}
	return nil
}
