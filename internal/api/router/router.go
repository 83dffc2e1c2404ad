package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/TimeBox-aste/obo-space-web/internal/api/handlers/registration"
	"github.com/TimeBox-aste/obo-space-web/internal/middlewares"
)

func New(handler *registration.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api/v1")
	{
		api.POST("/register", handler.Register)
		api.GET("/share/:token/status", handler.ShareStatus)
	}

	return e
}
