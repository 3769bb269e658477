package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/filefind/api/handlers"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/meghashyamc/filefind/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, defaultRoot string) {
	router.GET("/health", health())

	handlers.SetupSearch(router, logger, service, validator, defaultRoot)
	handlers.SetupCache(router, logger, service, validator)
	handlers.SetupCommand(router, logger, validator, defaultRoot)
	handlers.SetupSaved(router, logger, service, validator)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())

	return router
}
