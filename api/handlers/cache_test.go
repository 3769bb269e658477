package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var deleteCacheHandlerTestCases = []testCase{
	{
		name:           "NoPath",
		queryParams:    map[string]string{},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "RelativePath",
		queryParams:    map[string]string{"path": "subdir"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "UncachedPath",
		queryParams:    map[string]string{"path": "/nonexistent/never/cached"},
		expectedStatus: http.StatusNoContent,
	},
}

func TestHandleDeleteCache(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	for _, testCase := range deleteCacheHandlerTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/cache", testCase.requestHeaders, nil, testCase.queryParams)
			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
		})
	}
}

func TestDeleteCacheForcesFreshWalk(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	body := map[string]any{"extension": "txt"}

	first := waitForSearch(assert, server.router, submitSearch(assert, server.router, body).ID, nil)
	assert.False(first.CacheHit)
	assert.Equal(joinAll(server.root, "file1.txt"), first.Paths)

	added := filepath.Join(server.root, "added.txt")
	assert.NoError(os.WriteFile(added, []byte("added later"), 0644))

	cached := waitForSearch(assert, server.router, submitSearch(assert, server.router, body).ID, nil)
	assert.True(cached.CacheHit)
	assert.Equal(first.Paths, cached.Paths)

	w := makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/cache", nil, nil, map[string]string{"path": server.root})
	assert.Equal(http.StatusNoContent, w.Code)

	fresh := waitForSearch(assert, server.router, submitSearch(assert, server.router, body).ID, nil)
	assert.False(fresh.CacheHit)
	assert.ElementsMatch(joinAll(server.root, "file1.txt", "added.txt"), fresh.Paths)
}
