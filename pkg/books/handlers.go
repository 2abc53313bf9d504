package books

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
)

type handler struct {
	bookService *Service
}

type bookEnvelope struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Book    *models.Book `json:"book"`
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.bookService.ListBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return err
	}

	book, err := h.bookService.CreateBook(ctx, CreateBookOptions{
		Title:     params.Book.Title,
		Author:    params.Book.Author,
		Publisher: params.Book.Publisher,
	})
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusCreated, bookEnvelope{
		Status:  http.StatusCreated,
		Message: "Successfully created!",
		Book:    book,
	}))
}
