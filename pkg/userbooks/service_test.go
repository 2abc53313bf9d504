package userbooks

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark/pkg/migrations"
	"github.com/shelfmark/shelfmark/pkg/models"
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

func createTestUser(t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "test",
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)
	return user
}

func createTestBook(t *testing.T, db *bun.DB, title string) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:     title,
		Author:    "Test Author",
		Publisher: "Test Publisher",
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
	return book
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestService_CreateUserBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "reader")
	book := createTestBook(t, db, "The Dispossessed")

	t.Run("creates an entry with all fields", func(t *testing.T) {
		started := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		finished := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

		ub, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
			UserID:     user.ID,
			BookID:     book.ID,
			Rating:     intPtr(5),
			Notes:      strPtr("Loved it."),
			StartDate:  timePtr(started),
			FinishDate: timePtr(finished),
		})
		require.NoError(t, err)
		assert.NotZero(t, ub.ID)
		assert.Equal(t, user.ID, ub.UserID)
		assert.Equal(t, book.ID, ub.BookID)
		assert.Equal(t, 5, *ub.Rating)
		assert.Equal(t, "Loved it.", *ub.Notes)
		assert.True(t, ub.IsFinished())
	})

	t.Run("creates a bare entry with only ids", func(t *testing.T) {
		other := createTestBook(t, db, "The Left Hand of Darkness")

		ub, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
			UserID: user.ID,
			BookID: other.ID,
		})
		require.NoError(t, err)
		assert.Nil(t, ub.Rating)
		assert.Nil(t, ub.Notes)
		assert.Nil(t, ub.StartDate)
		assert.Nil(t, ub.FinishDate)
		assert.False(t, ub.IsFinished())
	})

	t.Run("rejects a second entry for the same book", func(t *testing.T) {
		_, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
			UserID: user.ID,
			BookID: book.ID,
		})
		require.Error(t, err)
		assert.EqualError(t, err, "Book has already been taken")
	})

	t.Run("allows another user to track the same book", func(t *testing.T) {
		second := createTestUser(t, db, "otherreader")

		ub, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
			UserID: second.ID,
			BookID: book.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, second.ID, ub.UserID)
	})

	t.Run("rejects a missing user", func(t *testing.T) {
		_, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
			UserID: 99999,
			BookID: book.ID,
		})
		require.Error(t, err)
		assert.EqualError(t, err, "User must exist")
	})

	t.Run("rejects a missing book", func(t *testing.T) {
		_, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
			UserID: user.ID,
			BookID: 99999,
		})
		require.Error(t, err)
		assert.EqualError(t, err, "Book must exist")
	})

	t.Run("rejects an out of range rating", func(t *testing.T) {
		other := createTestBook(t, db, "Rocannon's World")

		for _, rating := range []int{-1, 6, 11} {
			_, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
				UserID: user.ID,
				BookID: other.ID,
				Rating: intPtr(rating),
			})
			require.Error(t, err)
			assert.EqualError(t, err, "Rating is not included in the list")
		}
	})

	t.Run("accepts boundary ratings", func(t *testing.T) {
		for _, rating := range []int{models.RatingMin, models.RatingMax} {
			b := createTestBook(t, db, "Boundary Book")

			ub, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
				UserID: user.ID,
				BookID: b.ID,
				Rating: intPtr(rating),
			})
			require.NoError(t, err)
			assert.Equal(t, rating, *ub.Rating)
		}
	})
}

func TestService_RetrieveUserBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "reader")
	book := createTestBook(t, db, "A Wizard of Earthsea")

	created, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
		UserID: user.ID,
		BookID: book.ID,
		Notes:  strPtr("Reread."),
	})
	require.NoError(t, err)

	t.Run("retrieves an owned entry", func(t *testing.T) {
		ub, err := svc.RetrieveUserBook(ctx, RetrieveUserBookOptions{
			ID:     created.ID,
			UserID: user.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, ub.ID)
		assert.Equal(t, "Reread.", *ub.Notes)
	})

	t.Run("returns not found for a missing id", func(t *testing.T) {
		_, err := svc.RetrieveUserBook(ctx, RetrieveUserBookOptions{
			ID:     99999,
			UserID: user.ID,
		})
		require.Error(t, err)
		assert.EqualError(t, err, "Book entry not found.")
	})

	t.Run("hides another user's entry", func(t *testing.T) {
		other := createTestUser(t, db, "otherreader")

		_, err := svc.RetrieveUserBook(ctx, RetrieveUserBookOptions{
			ID:     created.ID,
			UserID: other.ID,
		})
		require.Error(t, err)
		assert.EqualError(t, err, "Book entry not found.")
	})
}

func TestService_ListUserBooks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "reader")
	other := createTestUser(t, db, "otherreader")

	finishedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	toRead1 := createTestBook(t, db, "To Read 1")
	toRead2 := createTestBook(t, db, "To Read 2")
	done := createTestBook(t, db, "Done")

	ub1, err := svc.CreateUserBook(ctx, CreateUserBookOptions{UserID: user.ID, BookID: toRead1.ID})
	require.NoError(t, err)
	ub2, err := svc.CreateUserBook(ctx, CreateUserBookOptions{UserID: user.ID, BookID: done.ID, FinishDate: timePtr(finishedAt)})
	require.NoError(t, err)
	ub3, err := svc.CreateUserBook(ctx, CreateUserBookOptions{UserID: user.ID, BookID: toRead2.ID})
	require.NoError(t, err)

	_, err = svc.CreateUserBook(ctx, CreateUserBookOptions{UserID: other.ID, BookID: toRead1.ID})
	require.NoError(t, err)

	t.Run("lists everything without a filter", func(t *testing.T) {
		ubs, err := svc.ListUserBooks(ctx, ListUserBooksOptions{UserID: user.ID})
		require.NoError(t, err)
		require.Len(t, ubs, 3)
		assert.Equal(t, []int{ub1.ID, ub2.ID, ub3.ID}, []int{ubs[0].ID, ubs[1].ID, ubs[2].ID})
	})

	t.Run("filters the to-read pile", func(t *testing.T) {
		finished := false
		ubs, err := svc.ListUserBooks(ctx, ListUserBooksOptions{UserID: user.ID, Finished: &finished})
		require.NoError(t, err)
		require.Len(t, ubs, 2)
		assert.Equal(t, ub1.ID, ubs[0].ID)
		assert.Equal(t, ub3.ID, ubs[1].ID)
	})

	t.Run("filters finished entries", func(t *testing.T) {
		finished := true
		ubs, err := svc.ListUserBooks(ctx, ListUserBooksOptions{UserID: user.ID, Finished: &finished})
		require.NoError(t, err)
		require.Len(t, ubs, 1)
		assert.Equal(t, ub2.ID, ubs[0].ID)
	})

	t.Run("returns an empty slice for a user with no entries", func(t *testing.T) {
		empty := createTestUser(t, db, "emptyreader")

		ubs, err := svc.ListUserBooks(ctx, ListUserBooksOptions{UserID: empty.ID})
		require.NoError(t, err)
		assert.NotNil(t, ubs)
		assert.Empty(t, ubs)
	})
}

func TestService_UpdateUserBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "reader")
	book := createTestBook(t, db, "The Lathe of Heaven")

	finishedAt := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateUserBook(ctx, CreateUserBookOptions{
		UserID:     user.ID,
		BookID:     book.ID,
		Rating:     intPtr(3),
		Notes:      strPtr("Initial notes."),
		FinishDate: timePtr(finishedAt),
	})
	require.NoError(t, err)

	t.Run("updates only the listed columns", func(t *testing.T) {
		created.Rating = intPtr(4)
		created.Notes = strPtr("ignored")

		err := svc.UpdateUserBook(ctx, created, UpdateUserBookOptions{Columns: []string{"rating"}})
		require.NoError(t, err)

		ub, err := svc.RetrieveUserBook(ctx, RetrieveUserBookOptions{ID: created.ID, UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, 4, *ub.Rating)
		assert.Equal(t, "Initial notes.", *ub.Notes)

		created.Notes = ub.Notes
	})

	t.Run("rejects an out of range rating before writing", func(t *testing.T) {
		created.Rating = intPtr(6)
		created.Notes = strPtr("should not land")

		err := svc.UpdateUserBook(ctx, created, UpdateUserBookOptions{Columns: []string{"rating", "notes"}})
		require.Error(t, err)
		assert.EqualError(t, err, "Rating is not included in the list")

		ub, err := svc.RetrieveUserBook(ctx, RetrieveUserBookOptions{ID: created.ID, UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, 4, *ub.Rating)
		assert.Equal(t, "Initial notes.", *ub.Notes)

		created.Rating = ub.Rating
		created.Notes = ub.Notes
	})

	t.Run("clears the finish date", func(t *testing.T) {
		created.FinishDate = nil

		err := svc.UpdateUserBook(ctx, created, UpdateUserBookOptions{Columns: []string{"finish_date"}})
		require.NoError(t, err)

		ub, err := svc.RetrieveUserBook(ctx, RetrieveUserBookOptions{ID: created.ID, UserID: user.ID})
		require.NoError(t, err)
		assert.Nil(t, ub.FinishDate)
		assert.False(t, ub.IsFinished())
	})

	t.Run("does nothing without columns", func(t *testing.T) {
		err := svc.UpdateUserBook(ctx, created, UpdateUserBookOptions{})
		require.NoError(t, err)
	})

	t.Run("returns not found for a deleted entry", func(t *testing.T) {
		gone := &models.UserBook{ID: 99999, UserID: user.ID, Notes: strPtr("x")}

		err := svc.UpdateUserBook(ctx, gone, UpdateUserBookOptions{Columns: []string{"notes"}})
		require.Error(t, err)
		assert.EqualError(t, err, "Book entry not found.")
	})
}

func TestService_DeleteUserBook(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "reader")
	other := createTestUser(t, db, "otherreader")
	book := createTestBook(t, db, "The Word for World Is Forest")

	created, err := svc.CreateUserBook(ctx, CreateUserBookOptions{UserID: user.ID, BookID: book.ID})
	require.NoError(t, err)

	t.Run("hides another user's entry", func(t *testing.T) {
		err := svc.DeleteUserBook(ctx, created.ID, other.ID)
		require.Error(t, err)
		assert.EqualError(t, err, "Book entry not found.")
	})

	t.Run("removes an owned entry", func(t *testing.T) {
		err := svc.DeleteUserBook(ctx, created.ID, user.ID)
		require.NoError(t, err)

		_, err = svc.RetrieveUserBook(ctx, RetrieveUserBookOptions{ID: created.ID, UserID: user.ID})
		require.Error(t, err)
		assert.EqualError(t, err, "Book entry not found.")
	})

	t.Run("can re-add the book after removal", func(t *testing.T) {
		ub, err := svc.CreateUserBook(ctx, CreateUserBookOptions{UserID: user.ID, BookID: book.ID})
		require.NoError(t, err)
		assert.NotEqual(t, created.ID, ub.ID)
	})
}
