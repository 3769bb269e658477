package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/meghashyamc/filefind/validation"
)

type CommandRequest struct {
	Path         string `form:"path" validate:"valid_path"`
	Name         string `form:"name" validate:"max=255"`
	NameContains string `form:"name_contains" validate:"max=255"`
	Extension    string `form:"extension" validate:"max=64"`
}

type CommandResponse struct {
	Command string `json:"command"`
}

func SetupCommand(router *gin.Engine, logger logger.Logger, validator *validation.Validator, defaultRoot string) {
	router.GET("/command", handleCommand(logger, validator, defaultRoot))
}

func handleCommand(logger logger.Logger, validator *validation.Validator, defaultRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := CommandRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from command request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate command request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		root := request.Path
		if root == "" {
			root = defaultRoot
		}

		command := search.TerminalCommand(root, search.FilterSpec{
			Name:         request.Name,
			NameContains: request.NameContains,
			Extension:    request.Extension,
		})

		writeResponse(c, CommandResponse{Command: command}, http.StatusOK, nil)
	}
}
