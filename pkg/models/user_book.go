package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Rating bounds for a UserBook. A nil rating means "not rated yet".
const (
	RatingMin = 0
	RatingMax = 5
)

// UserBook is a ledger entry linking a user to a book, with the user's
// rating, notes, and reading dates. A null finish date means the book is
// still on the to-read pile; a non-null one means it's finished. There is
// at most one entry per (user, book) pair, enforced by a unique index.
type UserBook struct {
	bun.BaseModel `bun:"table:user_books,alias:ub"`

	ID         int        `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	UserID     int        `bun:",nullzero" json:"user_id"`
	User       *User      `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	BookID     int        `bun:",nullzero" json:"book_id"`
	Book       *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Rating     *int       `json:"rating"`
	Notes      *string    `json:"notes"`
	StartDate  *time.Time `json:"start_date"`
	FinishDate *time.Time `json:"finish_date"`
}

// IsFinished reports whether the entry has been marked as finished.
func (ub *UserBook) IsFinished() bool {
	return ub.FinishDate != nil
}
