package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/meghashyamc/filefind/validation"
)

type SaveRequest struct {
	Name string `json:"name" validate:"required,valid_name,max=255"`
	ID   string `json:"id" validate:"required,uuid4"`
}

type SavedNameRequest struct {
	Name string `json:"name" validate:"valid_name,max=255"`
}

type SavedListResponse struct {
	Names []string `json:"names"`
}

type LoadResponse struct {
	Name    string            `json:"name"`
	Root    string            `json:"root"`
	SavedAt time.Time         `json:"saved_at"`
	Spec    search.FilterSpec `json:"spec"`
	Count   int               `json:"count"`
}

func SetupSaved(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.POST("/saved", handleSave(service, logger, validator))
	router.GET("/saved", handleListSaved(service, logger))
	router.POST("/saved/:name/load", handleLoadSaved(service, logger, validator))
	router.POST("/saved/:name/search", handleSearchSaved(service, logger, validator))
}

func handleSave(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SaveRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from save request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate save request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		job, err := service.Job(request.ID)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
			return
		}

		if job.Status() != search.StatusDone {
			c.Abort()
			writeResponse(c, nil, http.StatusConflict, []string{"only a finished search can be saved"})
			return
		}

		result, _ := job.Result()
		if err := service.SaveSearch(request.Name, job.Spec, result); err != nil {
			logger.Error("could not save search", "name", request.Name, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func handleListSaved(service *search.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		names, err := service.ListSaved()
		if err != nil {
			logger.Error("could not list saved searches", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}
		if names == nil {
			names = []string{}
		}

		writeResponse(c, SavedListResponse{Names: names}, http.StatusOK, nil)
	}
}

func handleLoadSaved(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SavedNameRequest{Name: c.Param("name")}
		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate load request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		saved, err := service.LoadSearch(request.Name)
		if err != nil {
			c.Abort()
			if errors.Is(err, search.ErrSavedSearchNotFound) {
				writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
				return
			}
			logger.Error("could not load saved search", "name", request.Name, "err", err.Error())
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, LoadResponse{
			Name:    saved.Name,
			Root:    search.SavedRoot(saved.Name),
			SavedAt: saved.SavedAt,
			Spec:    saved.Spec,
			Count:   len(saved.Result.Paths),
		}, http.StatusOK, nil)
	}
}

// handleSearchSaved runs new filters over the paths of a saved search.
func handleSearchSaved(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		nameRequest := SavedNameRequest{Name: c.Param("name")}
		if err := validator.Validate(nameRequest); err != nil {
			logger.Warn("could not validate saved search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		request := SearchRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from saved search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate saved search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		job, err := service.Reload(nameRequest.Name, request.filterSpec(""))
		if err != nil {
			writeSearchError(c, logger, err)
			return
		}

		writeResponse(c, SubmitResponse{
			ID:      job.ID,
			Status:  job.Status(),
			Root:    job.Root,
			Command: search.TerminalCommand(job.Root, job.Spec),
		}, http.StatusAccepted, nil)
	}
}
