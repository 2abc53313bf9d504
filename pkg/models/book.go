package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Book is a catalog entry. Books are created at ingestion time and are
// immutable afterwards; user-specific state lives on UserBook.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	Author    string    `bun:",nullzero" json:"author"`
	Publisher string    `bun:",nullzero" json:"publisher"`

	// Relations
	UserBooks []*UserBook `bun:"rel:has-many,join:id=book_id" json:"user_books,omitempty"`
}
