package books

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shelfmark/shelfmark/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestService_CreateBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("creates a catalog entry", func(t *testing.T) {
		book, err := svc.CreateBook(ctx, CreateBookOptions{
			Title:     "Piranesi",
			Author:    "Susanna Clarke",
			Publisher: "Bloomsbury",
		})
		require.NoError(t, err)
		assert.NotZero(t, book.ID)
		assert.Equal(t, "Piranesi", book.Title)
		assert.Equal(t, "Susanna Clarke", book.Author)
		assert.Equal(t, "Bloomsbury", book.Publisher)
	})

	t.Run("collects every blank-field message", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, CreateBookOptions{})
		require.Error(t, err)
		assert.EqualError(t, err, "Title can't be blank, Author can't be blank, Publisher can't be blank")
	})

	t.Run("rejects a single blank field", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, CreateBookOptions{
			Title:  "No Publisher",
			Author: "Anonymous",
		})
		require.Error(t, err)
		assert.EqualError(t, err, "Publisher can't be blank")
	})
}

func TestService_RetrieveBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, CreateBookOptions{
		Title:     "The Spear Cuts Through Water",
		Author:    "Simon Jimenez",
		Publisher: "Del Rey",
	})
	require.NoError(t, err)

	t.Run("retrieves by id", func(t *testing.T) {
		book, err := svc.RetrieveBook(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, book.ID)
		assert.Equal(t, created.Title, book.Title)
	})

	t.Run("returns not found for a missing id", func(t *testing.T) {
		_, err := svc.RetrieveBook(ctx, 99999)
		require.Error(t, err)
		assert.EqualError(t, err, "Book not found.")
	})
}

func TestService_ListBooks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("returns an empty slice for an empty catalog", func(t *testing.T) {
		books, err := svc.ListBooks(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("lists in insertion order", func(t *testing.T) {
		for _, title := range []string{"First", "Second", "Third"} {
			_, err := svc.CreateBook(ctx, CreateBookOptions{
				Title:     title,
				Author:    "Author",
				Publisher: "Publisher",
			})
			require.NoError(t, err)
		}

		books, err := svc.ListBooks(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, "First", books[0].Title)
		assert.Equal(t, "Second", books[1].Title)
		assert.Equal(t, "Third", books[2].Title)
	})
}
