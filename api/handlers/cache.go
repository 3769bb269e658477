package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/meghashyamc/filefind/validation"
)

type DeleteCacheRequest struct {
	Path string `form:"path" validate:"required,valid_path"`
}

func SetupCache(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.DELETE("/cache", handleDeleteCache(service, logger, validator))
}

func handleDeleteCache(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := DeleteCacheRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from delete cache request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate delete cache request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		if err := service.DeleteCache(request.Path); err != nil {
			logger.Error("could not delete cache", "path", request.Path, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}
