package userbooks

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// validateRating checks that a rating, when present, is within bounds. The
// message matches what the API has always returned for bad ratings.
func validateRating(rating *int) error {
	if rating == nil {
		return nil
	}
	if *rating < models.RatingMin || *rating > models.RatingMax {
		return errcodes.ValidationError("Rating is not included in the list")
	}
	return nil
}

type CreateUserBookOptions struct {
	UserID     int
	BookID     int
	Rating     *int
	Notes      *string
	StartDate  *time.Time
	FinishDate *time.Time
}

// CreateUserBook adds a book to a user's reading list. Duplicate adds are
// rejected by the unique index on (user_id, book_id), so two concurrent
// creates for the same pair cannot both succeed.
func (svc *Service) CreateUserBook(ctx context.Context, opts CreateUserBookOptions) (*models.UserBook, error) {
	if err := validateRating(opts.Rating); err != nil {
		return nil, err
	}

	userExists, err := svc.db.NewSelect().
		Model((*models.User)(nil)).
		Where("id = ?", opts.UserID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !userExists {
		return nil, errcodes.ValidationError("User must exist")
	}

	bookExists, err := svc.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("id = ?", opts.BookID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !bookExists {
		return nil, errcodes.ValidationError("Book must exist")
	}

	now := time.Now()
	userBook := &models.UserBook{
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     opts.UserID,
		BookID:     opts.BookID,
		Rating:     opts.Rating,
		Notes:      opts.Notes,
		StartDate:  opts.StartDate,
		FinishDate: opts.FinishDate,
	}

	_, err = svc.db.
		NewInsert().
		Model(userBook).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, errcodes.ValidationError("Book has already been taken")
		}
		return nil, errors.WithStack(err)
	}

	return userBook, nil
}

type RetrieveUserBookOptions struct {
	ID     int
	UserID int
}

// RetrieveUserBook loads a single ledger entry, scoped to its owner.
// Another user's entry is indistinguishable from a missing one.
func (svc *Service) RetrieveUserBook(ctx context.Context, opts RetrieveUserBookOptions) (*models.UserBook, error) {
	userBook := &models.UserBook{}

	err := svc.db.
		NewSelect().
		Model(userBook).
		Where("ub.id = ?", opts.ID).
		Where("ub.user_id = ?", opts.UserID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book entry")
		}
		return nil, errors.WithStack(err)
	}

	return userBook, nil
}

type ListUserBooksOptions struct {
	UserID int
	// Finished filters on finish_date: false selects to-read entries
	// (finish_date IS NULL), true selects finished ones. Nil returns all
	// entries for the user.
	Finished *bool
}

// ListUserBooks returns the user's ledger entries in insertion order.
func (svc *Service) ListUserBooks(ctx context.Context, opts ListUserBooksOptions) ([]*models.UserBook, error) {
	userBooks := make([]*models.UserBook, 0)

	q := svc.db.
		NewSelect().
		Model(&userBooks).
		Where("ub.user_id = ?", opts.UserID).
		Order("ub.id ASC")

	if opts.Finished != nil {
		if *opts.Finished {
			q = q.Where("ub.finish_date IS NOT NULL")
		} else {
			q = q.Where("ub.finish_date IS NULL")
		}
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return userBooks, nil
}

type UpdateUserBookOptions struct {
	Columns []string
}

// UpdateUserBook persists the given columns of an already-loaded entry.
// The rating is re-validated whenever it's among the columns, before
// anything is written, so a failed update leaves the row untouched.
// finish_date may be set to nil to move an entry back to the to-read list.
func (svc *Service) UpdateUserBook(ctx context.Context, userBook *models.UserBook, opts UpdateUserBookOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	for _, col := range opts.Columns {
		if col == "rating" {
			if err := validateRating(userBook.Rating); err != nil {
				return err
			}
			break
		}
	}

	userBook.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(userBook).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Book entry")
	}

	return nil
}

// DeleteUserBook removes an entry from the ledger, scoped to its owner.
func (svc *Service) DeleteUserBook(ctx context.Context, id, userID int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.UserBook)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Book entry")
	}

	return nil
}
