package userbooks

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	RegisterRoutesWithGroup(e.Group(""), db)
}

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := handler{
		userBookService: NewService(db),
	}

	g.GET("/user_books", h.list)
	g.POST("/user_books", h.create)
	g.GET("/user_books/:id", h.retrieve)
	g.PATCH("/user_books/:id", h.update)
	g.PUT("/user_books/:id", h.update)
	g.DELETE("/user_books/:id", h.delete)
}
