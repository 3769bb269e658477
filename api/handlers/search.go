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

const defaultResultsPerPage = 100

// SearchRequest carries the filters of one search. Path is the folder the
// caller typed; the configured default root is used when it is empty.
type SearchRequest struct {
	Path               string     `json:"path" validate:"valid_path"`
	Name               string     `json:"name" validate:"max=255"`
	NameContains       string     `json:"name_contains" validate:"max=255"`
	Extension          string     `json:"extension" validate:"max=64"`
	SizeMinMB          *float64   `json:"size_min_mb" validate:"omitempty,min=0"`
	SizeMaxMB          *float64   `json:"size_max_mb" validate:"omitempty,min=0"`
	CreatedFrom        *time.Time `json:"created_from"`
	CreatedTo          *time.Time `json:"created_to"`
	ModifiedFrom       *time.Time `json:"modified_from"`
	ModifiedTo         *time.Time `json:"modified_to"`
	Content            string     `json:"content" validate:"max=1000"`
	Type               string     `json:"type" validate:"valid_type"`
	FileGroups         []string   `json:"file_groups" validate:"max=32,dive,valid_file_group"`
	IncludeSystemFiles bool       `json:"include_system_files"`
	SortBy             string     `json:"sort_by" validate:"valid_sort"`
	Reverse            bool       `json:"reverse"`
	// Confirm defaults to true; false answers the confirmation with no.
	Confirm *bool `json:"confirm"`
}

func (r *SearchRequest) filterSpec(defaultRoot string) search.FilterSpec {
	typeFilter, _ := search.ParseTypeFilter(r.Type)
	sortKey, _ := search.ParseSortKey(r.SortBy)

	return search.FilterSpec{
		Name:               r.Name,
		NameContains:       r.NameContains,
		Extension:          r.Extension,
		SizeMinMB:          r.SizeMinMB,
		SizeMaxMB:          r.SizeMaxMB,
		Created:            search.DateRange{From: r.CreatedFrom, To: r.CreatedTo},
		Modified:           search.DateRange{From: r.ModifiedFrom, To: r.ModifiedTo},
		Content:            r.Content,
		Type:               typeFilter,
		FileGroups:         r.FileGroups,
		IncludeSystemFiles: r.IncludeSystemFiles,
		SortBy:             sortKey,
		Reverse:            r.Reverse,
		Root:               defaultRoot,
		RawRoot:            r.Path,
	}
}

type SubmitResponse struct {
	ID      string        `json:"id,omitempty"`
	Status  search.Status `json:"status"`
	Root    string        `json:"root,omitempty"`
	Command string        `json:"command,omitempty"`
}

type ResultRequest struct {
	PerPage int `form:"per_page" validate:"min=0,max=10000"`
	Page    int `form:"page" validate:"min=0"`
}

func (r *ResultRequest) setDefaults() {
	if r.PerPage == 0 {
		r.PerPage = defaultResultsPerPage
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

type TimingsResponse struct {
	TotalSeconds  float64 `json:"total_seconds"`
	ScanSeconds   float64 `json:"scan_seconds"`
	FilterSeconds float64 `json:"filter_seconds"`
	SortSeconds   float64 `json:"sort_seconds"`
}

type JobResponse struct {
	ID          string           `json:"id"`
	Status      search.Status    `json:"status"`
	Root        string           `json:"root"`
	StartedAt   time.Time        `json:"started_at"`
	Command     string           `json:"command"`
	Paths       []string         `json:"paths,omitempty"`
	CacheHit    bool             `json:"cache_hit"`
	Timings     *TimingsResponse `json:"timings,omitempty"`
	PageDetails *Pagination      `json:"page_details,omitempty"`
	Error       string           `json:"error,omitempty"`
}

type StatusResponse struct {
	ActiveSearches int64 `json:"active_searches"`
}

func SetupSearch(router *gin.Engine, logger logger.Logger, service *search.Service, validator *validation.Validator, defaultRoot string) {
	router.POST("/search", handleSubmitSearch(service, logger, validator, defaultRoot))
	router.GET("/search/:id", handleGetSearch(service, logger, validator))
	router.DELETE("/search/:id", handleCancelSearch(service, logger))
	router.GET("/status", handleStatus(service))
}

func handleSubmitSearch(service *search.Service, logger logger.Logger, validator *validation.Validator, defaultRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		spec := request.filterSpec(defaultRoot)
		var confirm search.ConfirmFunc
		if request.Confirm != nil && !*request.Confirm {
			confirm = func(search.FilterSpec, string) bool { return false }
		}

		job, err := service.Submit(spec, confirm)
		if err != nil {
			writeSearchError(c, logger, err)
			return
		}

		if job == nil {
			writeResponse(c, SubmitResponse{Status: search.StatusCancelled}, http.StatusOK, nil)
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

func handleGetSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ResultRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search result request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search result request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}
		request.setDefaults()

		job, err := service.Job(c.Param("id"))
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
			return
		}

		jobResponse := JobResponse{
			ID:        job.ID,
			Status:    job.Status(),
			Root:      job.Root,
			StartedAt: job.StartedAt,
			Command:   search.TerminalCommand(job.Root, job.Spec),
		}

		result, err := job.Result()
		if err != nil {
			jobResponse.Error = err.Error()
		}
		if result != nil {
			limit := request.PerPage
			offset := (request.Page - 1) * request.PerPage
			paths, pageDetails := paginate(c, result.Paths, limit, offset)

			jobResponse.Paths = paths
			jobResponse.PageDetails = &pageDetails
			jobResponse.CacheHit = result.CacheHit
			jobResponse.Timings = &TimingsResponse{
				TotalSeconds:  result.Timings.Total.Seconds(),
				ScanSeconds:   result.Timings.Scan.Seconds(),
				FilterSeconds: result.Timings.Filter.Seconds(),
				SortSeconds:   result.Timings.Sort.Seconds(),
			}
		}

		writeResponse(c, jobResponse, http.StatusOK, nil)
	}
}

func handleCancelSearch(service *search.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := service.Job(c.Param("id"))
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
			return
		}

		logger.Info("cancelling search", "id", job.ID)
		job.Cancel()

		writeResponse(c, nil, http.StatusNoContent, nil)
	}
}

func handleStatus(service *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, StatusResponse{ActiveSearches: service.Active()}, http.StatusOK, nil)
	}
}

func writeSearchError(c *gin.Context, logger logger.Logger, err error) {
	c.Abort()

	var validationErr *search.ValidationError
	if errors.As(err, &validationErr) {
		logger.Warn("search was rejected", "kind", string(validationErr.Kind), "err", err.Error())
		writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		return
	}
	if errors.Is(err, search.ErrSavedSearchNotFound) {
		writeResponse(c, nil, http.StatusNotFound, []string{err.Error()})
		return
	}

	logger.Error("search failed", "err", err.Error())
	writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
}
