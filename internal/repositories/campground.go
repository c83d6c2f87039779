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

// likeEscaper makes LIKE metacharacters in a user-supplied search term
// match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike returns the term with \, % and _ escaped for use inside a
// LIKE pattern with the default escape character.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

type CampgroundReadRepository struct {
	db *sqlx.DB
}

func NewCampgroundReadRepository(db *sqlx.DB) *CampgroundReadRepository {
	return &CampgroundReadRepository{db: db}
}

// List returns all campgrounds, newest first. A non-empty search term
// filters by case-insensitive substring match on the name.
func (r *CampgroundReadRepository) List(ctx context.Context, search string) ([]models.CampgroundDB, error) {
	query := `
		SELECT campground_id, name, price, description, image_url, image_asset_id,
		       author_id, author_name, created_at, updated_at
		FROM campgrounds
		ORDER BY created_at DESC
	`
	var args []any
	if search != "" {
		query = `
			SELECT campground_id, name, price, description, image_url, image_asset_id,
			       author_id, author_name, created_at, updated_at
			FROM campgrounds
			WHERE name ILIKE '%' || $1 || '%'
			ORDER BY created_at DESC
		`
		args = append(args, EscapeLike(search))
	}

	campgrounds := []models.CampgroundDB{}
	err := r.db.SelectContext(ctx, &campgrounds, query, args...)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return campgrounds, nil
}

// GetByID returns one campground, or nil if the id does not exist.
func (r *CampgroundReadRepository) GetByID(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, error) {
	const query = `
		SELECT campground_id, name, price, description, image_url, image_asset_id,
		       author_id, author_name, created_at, updated_at
		FROM campgrounds
		WHERE campground_id = $1
	`

	var campground models.CampgroundDB
	err := r.db.GetContext(ctx, &campground, query, campgroundID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{campgroundID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &campground, nil
}

// GetWithComments returns one campground together with its comments,
// oldest comment first. Returns (nil, nil, nil) when the id does not exist.
func (r *CampgroundReadRepository) GetWithComments(ctx context.Context, campgroundID uuid.UUID) (*models.CampgroundDB, []models.CommentDB, error) {
	campground, err := r.GetByID(ctx, campgroundID)
	if err != nil || campground == nil {
		return nil, nil, err
	}

	const query = `
		SELECT comment_id, campground_id, text, author_id, author_name, created_at
		FROM comments
		WHERE campground_id = $1
		ORDER BY created_at ASC
	`

	comments := []models.CommentDB{}
	err = r.db.SelectContext(ctx, &comments, query, campgroundID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{campgroundID},
		"error", err,
	)

	if err != nil {
		return nil, nil, err
	}
	return campground, comments, nil
}

type CampgroundWriteRepository struct {
	db *sqlx.DB
}

func NewCampgroundWriteRepository(db *sqlx.DB) *CampgroundWriteRepository {
	return &CampgroundWriteRepository{db: db}
}

// Save inserts a new campground row.
func (r *CampgroundWriteRepository) Save(ctx context.Context, c models.CampgroundDB) error {
	const query = `
		INSERT INTO campgrounds
			(campground_id, name, price, description, image_url, image_asset_id,
			 author_id, author_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	args := []any{
		c.CampgroundID, c.Name, c.Price, c.Description,
		c.ImageURL, c.ImageAssetID, c.AuthorID, c.AuthorName,
	}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	return err
}

// Update overwrites the mutable fields of a campground. The author
// columns are deliberately not part of the statement.
func (r *CampgroundWriteRepository) Update(ctx context.Context, c models.CampgroundDB) error {
	const query = `
		UPDATE campgrounds
		SET name = $2, price = $3, description = $4,
		    image_url = $5, image_asset_id = $6, updated_at = NOW()
		WHERE campground_id = $1
	`
	args := []any{c.CampgroundID, c.Name, c.Price, c.Description, c.ImageURL, c.ImageAssetID}

	_, err := r.db.ExecContext(ctx, query, args...)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	return err
}

// Delete removes a campground and its comments.
func (r *CampgroundWriteRepository) Delete(ctx context.Context, campgroundID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return err
	}
	defer tx.Rollback()

	const deleteComments = `DELETE FROM comments WHERE campground_id = $1`
	if _, err := tx.ExecContext(ctx, deleteComments, campgroundID); err != nil {
		logger.Log.Infow("query executed",
			"query", deleteComments,
			"args", []any{campgroundID},
			"error", err,
		)
		return err
	}

	const deleteCampground = `DELETE FROM campgrounds WHERE campground_id = $1`
	if _, err := tx.ExecContext(ctx, deleteCampground, campgroundID); err != nil {
		logger.Log.Infow("query executed",
			"query", deleteCampground,
			"args", []any{campgroundID},
			"error", err,
		)
		return err
	}

	return tx.Commit()
}
