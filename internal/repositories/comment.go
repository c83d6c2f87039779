package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
)

type CommentReadRepository struct {
	db *sqlx.DB
}

func NewCommentReadRepository(db *sqlx.DB) *CommentReadRepository {
	return &CommentReadRepository{db: db}
}

// GetByID returns one comment, or nil if the id does not exist.
func (r *CommentReadRepository) GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error) {
	const query = `
		SELECT comment_id, campground_id, text, author_id, author_name, created_at
		FROM comments
		WHERE comment_id = $1
	`

	var comment models.CommentDB
	err := r.db.GetContext(ctx, &comment, query, commentID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{commentID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

type CommentWriteRepository struct {
	db *sqlx.DB
}

func NewCommentWriteRepository(db *sqlx.DB) *CommentWriteRepository {
	return &CommentWriteRepository{db: db}
}

// Save inserts a new comment row.
func (r *CommentWriteRepository) Save(ctx context.Context, c models.CommentDB) error {
	const query = `
		INSERT INTO comments (comment_id, campground_id, text, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	args := []any{c.CommentID, c.CampgroundID, c.Text, c.AuthorID, c.AuthorName}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	return err
}

// Update overwrites the text of a comment.
func (r *CommentWriteRepository) Update(ctx context.Context, commentID uuid.UUID, text string) error {
	const query = `UPDATE comments SET text = $2 WHERE comment_id = $1`
	args := []any{commentID, text}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", query,
		"args", args,
		"error", err,
	)

	return err
}

// Delete removes a comment.
func (r *CommentWriteRepository) Delete(ctx context.Context, commentID uuid.UUID) error {
	const query = `DELETE FROM comments WHERE comment_id = $1`
	args := []any{commentID}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", query,
		"args", args,
		"error", err,
	)

	return err
}
