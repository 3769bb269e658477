// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/filefind/config"
	"github.com/meghashyamc/filefind/db/kvdb"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/scan"
	"github.com/meghashyamc/filefind/services/search"
	"github.com/meghashyamc/filefind/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var testFiles = map[string]string{
	"file1.txt":              "This is test content for file1",
	"file2.go":               "package main\n\nfunc main() {\n\tprint(\"Hello\")\n}",
	"subdir/file3.md":        "# Test Markdown\n\nThis is a test markdown file",
	"subdir/file4.json":      `{"key": "value", "number": 42}`,
	"subdir/nested/file5.py": "def hello():\n    print('Hello World')",
}

type testCase struct {
	name           string
	requestHeaders map[string]string
	requestBody    map[string]any
	queryParams    map[string]string
	expectedStatus int
	// expectedPaths are relative to the test root; ordered compares order too.
	expectedPaths []string
	ordered       bool
}

type testServer struct {
	router  *gin.Engine
	service *search.Service
	root    string
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *testServer {

	t.Setenv("ENV", "test")
	t.Setenv("KVDB_PATH", filepath.Join(t.TempDir(), "filefind.db"))

	cfg, err := config.Load("")
	assert.NoError(err, "could not load config")

	root := t.TempDir()
	for relPath, content := range testFiles {
		fullPath := filepath.Join(root, relPath)
		err := os.MkdirAll(filepath.Dir(fullPath), 0755)
		assert.NoError(err, "could not create test sub-directory")
		err = os.WriteFile(fullPath, []byte(content), 0644)
		assert.NoError(err, "could not write test file")
	}

	testLogger := newTestLogger()

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")
	t.Cleanup(func() {
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	service := search.New(context.Background(), testLogger, scan.New(testLogger, kvDB), cfg, kvDB)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupSearch(router, testLogger, service, validator, root)
	SetupCache(router, testLogger, service, validator)
	SetupCommand(router, testLogger, validator, root)
	SetupSaved(router, testLogger, service, validator)

	return &testServer{router: router, service: service, root: root}
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

type envelope[T any] struct {
	Data   T        `json:"data"`
	Errors []string `json:"errors"`
}

func decodeResponse[T any](assert *require.Assertions, w *httptest.ResponseRecorder) T {
	actualResponse := envelope[T]{}
	err := json.Unmarshal(w.Body.Bytes(), &actualResponse)
	assert.NoError(err, "could not unmarshal gotten response")
	return actualResponse.Data
}

// waitForSearch polls the search until it is no longer running.
func waitForSearch(assert *require.Assertions, router *gin.Engine, id string, queryParams map[string]string) JobResponse {
	maxWaitForSearch := 10 * time.Second

	for startTime := time.Now().UTC(); time.Since(startTime) < maxWaitForSearch; time.Sleep(50 * time.Millisecond) {
		w := makeTestHTTPRequest(router, assert, http.MethodGet, fmt.Sprintf("/search/%s", id), nil, nil, queryParams)
		assert.Equal(http.StatusOK, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))

		jobResponse := decodeResponse[JobResponse](assert, w)
		if jobResponse.Status != search.StatusRunning {
			return jobResponse
		}
	}
	assert.Fail("timed out waiting for search: ", id)
	return JobResponse{}
}

func submitSearch(assert *require.Assertions, router *gin.Engine, body map[string]any) SubmitResponse {
	w := makeTestHTTPRequest(router, assert, http.MethodPost, "/search", defaultTestRequestHeaders, body, nil)
	assert.Equal(http.StatusAccepted, w.Code, fmt.Sprintf("response gotten was %s", w.Body.String()))
	return decodeResponse[SubmitResponse](assert, w)
}

// withRoot replaces a leading "$root" in string values with the test root.
func withRoot(body map[string]any, root string) map[string]any {
	if body == nil {
		return nil
	}
	replaced := make(map[string]any, len(body))
	for key, value := range body {
		if text, ok := value.(string); ok && strings.HasPrefix(text, "$root") {
			value = filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(text, "$root")))
		}
		replaced[key] = value
	}
	return replaced
}

func joinAll(root string, relPaths ...string) []string {
	joined := make([]string, 0, len(relPaths))
	for _, relPath := range relPaths {
		joined = append(joined, filepath.Join(root, filepath.FromSlash(relPath)))
	}
	return joined
}
