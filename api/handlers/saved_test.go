package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/stretchr/testify/require"
)

var saveHandlerTestCases = []testCase{
	{
		name:           "NoRequestBody",
		requestHeaders: defaultTestRequestHeaders,
		expectedStatus: http.StatusUnprocessableEntity,
	},
	{
		name:           "MissingName",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"id": uuid.New().String()},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "NameWithSeparator",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"name": "a/b", "id": uuid.New().String()},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "InvalidID",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"name": "mine", "id": "123"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "UnknownSearch",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"name": "mine", "id": uuid.New().String()},
		expectedStatus: http.StatusNotFound,
	},
}

func TestHandleSave(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	for _, testCase := range saveHandlerTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/saved", testCase.requestHeaders, testCase.requestBody, nil)
			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
		})
	}
}

func TestSavedSearchFlow(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/saved", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Empty(decodeResponse[SavedListResponse](assert, w).Names)

	submitted := submitSearch(assert, server.router, map[string]any{"type": "files"})
	done := waitForSearch(assert, server.router, submitted.ID, nil)
	assert.Equal(search.StatusDone, done.Status)

	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/saved", defaultTestRequestHeaders, map[string]any{"name": "all files", "id": submitted.ID}, nil)
	assert.Equal(http.StatusNoContent, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/saved", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal([]string{"all files"}, decodeResponse[SavedListResponse](assert, w).Names)

	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/saved/all%20files/load", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
	loaded := decodeResponse[LoadResponse](assert, w)
	assert.Equal("all files", loaded.Name)
	assert.Equal(search.SavedRoot("all files"), loaded.Root)
	assert.Equal(len(testFiles), loaded.Count)
	assert.Equal(search.TypeFiles, loaded.Spec.Type)

	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/saved/all%20files/search", defaultTestRequestHeaders, map[string]any{"extension": "md"}, nil)
	assert.Equal(http.StatusAccepted, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
	reloaded := waitForSearch(assert, server.router, decodeResponse[SubmitResponse](assert, w).ID, nil)
	assert.Equal(search.StatusDone, reloaded.Status, reloaded.Error)
	assert.True(reloaded.CacheHit)
	assert.Equal(search.SavedRoot("all files"), reloaded.Root)
	assert.Equal(joinAll(server.root, "subdir/file3.md"), reloaded.Paths)
}

func TestLoadUnknownSavedSearch(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/saved/unknown/load", nil, nil, nil)
	assert.Equal(http.StatusNotFound, w.Code)

	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/saved/unknown/search", defaultTestRequestHeaders, map[string]any{"extension": "md"}, nil)
	assert.Equal(http.StatusNotFound, w.Code)

	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/saved/%20/load", nil, nil, nil)
	assert.Equal(http.StatusNotAcceptable, w.Code)
}
