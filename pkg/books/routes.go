package books

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	RegisterRoutesWithGroup(e.Group(""), db)
}

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := handler{
		bookService: NewService(db),
	}

	g.GET("/books", h.list)
	g.POST("/books", h.create)
	g.GET("/books/:id", h.retrieve)
}
