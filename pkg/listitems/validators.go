package listitems

import (
	"github.com/shelfmark/shelfmark/pkg/userbooks"
)

// The legacy payloads carry the same fields as the namespaced API, nested
// under list_item instead of user_book.

type CreateListItemPayload struct {
	ListItem userbooks.CreateUserBookParams `json:"list_item"`
}

type UpdateListItemPayload struct {
	ListItem userbooks.UpdateUserBookParams `json:"list_item"`
}
