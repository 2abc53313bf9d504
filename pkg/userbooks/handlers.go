package userbooks

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
)

type handler struct {
	userBookService *Service
}

// userBookEnvelope is the mutation response shape of the namespaced API.
type userBookEnvelope struct {
	Status   int              `json:"status"`
	Message  string           `json:"message"`
	UserBook *models.UserBook `json:"user_book"`
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

	params := ListUserBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	// finish_date absent selects the to-read pile; any value selects
	// finished entries.
	finished := params.FinishDate != nil

	userBooks, err := h.userBookService.ListUserBooks(ctx, ListUserBooksOptions{
		UserID:   user.ID,
		Finished: &finished,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, userBooks))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book entry")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	userBook, err := h.userBookService.RetrieveUserBook(ctx, RetrieveUserBookOptions{
		ID:     id,
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, userBook))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateUserBookPayload{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	// The payload carries a user_id for wire compatibility, but entries
	// can only be created for the session user.
	if params.UserBook.UserID != user.ID {
		return errcodes.Forbidden("Creating entries for another user")
	}

	userBook, err := h.userBookService.CreateUserBook(ctx, CreateUserBookOptions{
		UserID:     user.ID,
		BookID:     params.UserBook.BookID,
		Rating:     params.UserBook.Rating,
		Notes:      params.UserBook.Notes,
		StartDate:  params.UserBook.StartDate,
		FinishDate: params.UserBook.FinishDate,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, userBookEnvelope{
		Status:   http.StatusCreated,
		Message:  "Successfully created!",
		UserBook: userBook,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book entry")
	}

	params := UpdateUserBookPayload{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	userBook, err := h.userBookService.RetrieveUserBook(ctx, RetrieveUserBookOptions{
		ID:     id,
		UserID: user.ID,
	})
	if err != nil {
		return err
	}

	opts := UpdateUserBookOptions{Columns: []string{}}
	ApplyUpdateParams(userBook, params.UserBook, &opts)

	err = h.userBookService.UpdateUserBook(ctx, userBook, opts)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, userBookEnvelope{
		Status:   http.StatusOK,
		Message:  "Successfully updated!",
		UserBook: userBook,
	}))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book entry")
	}

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	userBook, err := h.userBookService.RetrieveUserBook(ctx, RetrieveUserBookOptions{
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

	return errors.WithStack(c.JSON(http.StatusOK, userBookEnvelope{
		Status:   http.StatusOK,
		Message:  "Successfully removed!",
		UserBook: userBook,
	}))
}

// ApplyUpdateParams copies the supplied fields onto the entry and records
// which columns changed. Shared with the legacy surface so both apply
// partial updates identically.
func ApplyUpdateParams(userBook *models.UserBook, params UpdateUserBookParams, opts *UpdateUserBookOptions) {
	if params.Rating != nil {
		userBook.Rating = params.Rating
		opts.Columns = append(opts.Columns, "rating")
	}
	if params.Notes != nil {
		userBook.Notes = params.Notes
		opts.Columns = append(opts.Columns, "notes")
	}
	if params.StartDate.Set {
		userBook.StartDate = params.StartDate.Value
		opts.Columns = append(opts.Columns, "start_date")
	}
	if params.FinishDate.Set {
		userBook.FinishDate = params.FinishDate.Value
		opts.Columns = append(opts.Columns, "finish_date")
	}
}
