package listitems

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
	"github.com/shelfmark/shelfmark/pkg/userbooks"
)

// The legacy surface predates the namespaced API. It renders the same
// ledger entries under the list_item key and keeps its historical quirks:
// mutations respond with HTTP 200 carrying the real status in the body,
// and the grouped views report an empty list as a body-level 404.
type handler struct {
	userBookService *userbooks.Service
}

type listItemEnvelope struct {
	Status   int              `json:"status"`
	Message  string           `json:"message"`
	ListItem *models.UserBook `json:"list_item"`
}

type groupedEnvelope struct {
	Status int                `json:"status"`
	User   *models.User       `json:"user"`
	List   []*models.UserBook `json:"list"`
}

type emptyEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func currentUser(c echo.Context) (*models.User, error) {
	user, ok := c.Get("user").(*models.User)
	if !ok {
		return nil, errcodes.Unauthorized("Authentication required")
	}
	return user, nil
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.userBookService.ListUserBooks(ctx, userbooks.ListUserBooksOptions{
		UserID: user.ID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, items))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List item")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	item, err := h.userBookService.RetrieveUserBook(ctx, userbooks.RetrieveUserBookOptions{
		ID:     id,
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, item))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateListItemPayload{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if params.ListItem.UserID != user.ID {
		return errcodes.Forbidden("Creating entries for another user")
	}

	item, err := h.userBookService.CreateUserBook(ctx, userbooks.CreateUserBookOptions{
		UserID:     user.ID,
		BookID:     params.ListItem.BookID,
		Rating:     params.ListItem.Rating,
		Notes:      params.ListItem.Notes,
		StartDate:  params.ListItem.StartDate,
		FinishDate: params.ListItem.FinishDate,
	})
	if err != nil {
		return err
	}

	// Historical behavior: the HTTP status is 200, the body says 201.
	return errors.WithStack(c.JSON(http.StatusOK, listItemEnvelope{
		Status:   http.StatusCreated,
		Message:  "Successfully created!",
		ListItem: item,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List item")
	}

	params := UpdateListItemPayload{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	item, err := h.userBookService.RetrieveUserBook(ctx, userbooks.RetrieveUserBookOptions{
		ID:     id,
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	opts := userbooks.UpdateUserBookOptions{Columns: []string{}}
	userbooks.ApplyUpdateParams(item, params.ListItem, &opts)

	err = h.userBookService.UpdateUserBook(ctx, item, opts)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, listItemEnvelope{
		Status:   http.StatusOK,
		Message:  "Successfully updated!",
		ListItem: item,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("List item")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	item, err := h.userBookService.RetrieveUserBook(ctx, userbooks.RetrieveUserBookOptions{
		ID:     id,
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	err = h.userBookService.DeleteUserBook(ctx, id, user.ID)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, listItemEnvelope{
		Status:   http.StatusOK,
		Message:  "Successfully removed!",
		ListItem: item,
	}))
}

func (h *handler) toRead(c echo.Context) error {
	return h.grouped(c, false, "The reading list is still empty")
}

func (h *handler) finished(c echo.Context) error {
	return h.grouped(c, true, "You haven't finished any books yet")
}

func (h *handler) grouped(c echo.Context, finished bool, emptyMessage string) error {
	ctx := c.Request().Context()

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.userBookService.ListUserBooks(ctx, userbooks.ListUserBooksOptions{
		UserID:   user.ID,
		Finished: &finished,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if len(items) == 0 {
		return errors.WithStack(c.JSON(http.StatusOK, emptyEnvelope{
			Status:  http.StatusNotFound,
			Message: emptyMessage,
		}))
	}

	return errors.WithStack(c.JSON(http.StatusOK, groupedEnvelope{
		Status: http.StatusOK,
		User:   user,
		List:   items,
	}))
}
