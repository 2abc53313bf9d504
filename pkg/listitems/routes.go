package listitems

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/userbooks"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	RegisterRoutesWithGroup(e.Group(""), db)
}

func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := handler{
		userBookService: userbooks.NewService(db),
	}

	g.GET("/list_items", h.list)
	g.POST("/list_items", h.create)
	g.GET("/list_items/:id", h.retrieve)
	g.PATCH("/list_items/:id", h.update)
	g.PUT("/list_items/:id", h.update)
	g.DELETE("/list_items/:id", h.delete)

	g.GET("/to_read", h.toRead)
	g.GET("/finished", h.finished)
}
