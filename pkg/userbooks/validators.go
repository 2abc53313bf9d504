package userbooks

import (
	"encoding/json"
	"time"
)

// NullableTime distinguishes an absent JSON field from an explicit null.
// PATCH payloads need the distinction: absent means "leave unchanged",
// null means "clear the stored value".
type NullableTime struct {
	Set   bool
	Value *time.Time
}

func (nt *NullableTime) UnmarshalJSON(data []byte) error {
	nt.Set = true
	if string(data) == "null" {
		nt.Value = nil
		return nil
	}
	t := time.Time{}
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	nt.Value = &t
	return nil
}

func (nt NullableTime) MarshalJSON() ([]byte, error) {
	if !nt.Set || nt.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(nt.Value)
}

// Query params for the list endpoint. The finish_date flag mirrors the
// original API: absent selects the to-read pile, any value selects
// finished entries.
type ListUserBooksQuery struct {
	FinishDate *string `query:"finish_date" json:"finish_date,omitempty"`
}

// Payloads for create/update endpoints. Both surfaces nest the entry
// under a resource key.
type CreateUserBookPayload struct {
	UserBook CreateUserBookParams `json:"user_book"`
}

type CreateUserBookParams struct {
	UserID     int        `json:"user_id" validate:"required,min=1"`
	BookID     int        `json:"book_id" validate:"required,min=1"`
	Rating     *int       `json:"rating"`
	Notes      *string    `json:"notes" mod:"trim"`
	StartDate  *time.Time `json:"start_date"`
	FinishDate *time.Time `json:"finish_date"`
}

type UpdateUserBookPayload struct {
	UserBook UpdateUserBookParams `json:"user_book"`
}

type UpdateUserBookParams struct {
	Rating     *int         `json:"rating"`
	Notes      *string      `json:"notes" mod:"trim"`
	StartDate  NullableTime `json:"start_date"`
	FinishDate NullableTime `json:"finish_date"`
}
