package books

import (
	"context"
	"database/sql"
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

type CreateBookOptions struct {
	Title     string
	Author    string
	Publisher string
}

// CreateBook ingests a catalog entry. Books are immutable once created, so
// all field validation happens here.
func (svc *Service) CreateBook(ctx context.Context, opts CreateBookOptions) (*models.Book, error) {
	msgs := []string{}
	if opts.Title == "" {
		msgs = append(msgs, "Title can't be blank")
	}
	if opts.Author == "" {
		msgs = append(msgs, "Author can't be blank")
	}
	if opts.Publisher == "" {
		msgs = append(msgs, "Publisher can't be blank")
	}
	if len(msgs) > 0 {
		return nil, errcodes.ValidationError(msgs...)
	}

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     opts.Title,
		Author:    opts.Author,
		Publisher: opts.Publisher,
	}

	_, err := svc.db.
		NewInsert().
		Model(book).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// RetrieveBook loads a single catalog entry.
func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}

	err := svc.db.
		NewSelect().
		Model(book).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// ListBooks returns the whole catalog in insertion order.
func (svc *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	books := make([]*models.Book, 0)

	err := svc.db.
		NewSelect().
		Model(&books).
		Order("b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}
