package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/filefind/logger"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Path       string   `json:"path" validate:"valid_path"`
	Name       string   `json:"name" validate:"omitempty,valid_name,max=20"`
	SortBy     string   `json:"sort_by" validate:"valid_sort"`
	Type       string   `form:"type" validate:"valid_type"`
	FileGroups []string `json:"file_groups" validate:"dive,valid_file_group"`
	ID         string   `json:"id" validate:"omitempty,uuid4"`
	Required   string   `json:"required" validate:"required"`
}

func newTestLogger() logger.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler)
}

func validRequest(t *testing.T) testRequest {
	return testRequest{
		Path:       t.TempDir(),
		Name:       "holiday",
		SortBy:     "size",
		Type:       "files",
		FileGroups: []string{"images"},
		ID:         "0b6f0ad4-3d5f-4c36-9d0c-5e9f0e7f4a11",
		Required:   "x",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(r *testRequest)
		expected error
		message  string
	}{
		{name: "Valid", modify: func(r *testRequest) {}},
		{name: "EmptyOptionalFields", modify: func(r *testRequest) {
			r.Path, r.Name, r.SortBy, r.Type, r.FileGroups, r.ID = "", "", "", "", nil, ""
		}},
		{name: "MissingPathIsAllowed", modify: func(r *testRequest) { r.Path = filepath.Join(r.Path, "missing") }},
		{name: "RelativePath", modify: func(r *testRequest) { r.Path = "relative/dir" }, expected: ErrInvalidPath, message: "invalid path for field 'path'"},
		{name: "BlankPath", modify: func(r *testRequest) { r.Path = "   " }, expected: ErrInvalidPath},
		{name: "NullBytePath", modify: func(r *testRequest) { r.Path = "/tmp/a\x00b" }, expected: ErrInvalidPath},
		{name: "BlankName", modify: func(r *testRequest) { r.Name = "  " }, expected: ErrInvalidName},
		{name: "NameWithSeparator", modify: func(r *testRequest) { r.Name = "a/b" }, expected: ErrInvalidName},
		{name: "NameTooLong", modify: func(r *testRequest) { r.Name = "abcdefghijklmnopqrstuvwxyz" }, message: "value or length of field 'name' is not in the expected range"},
		{name: "UnknownSortKey", modify: func(r *testRequest) { r.SortBy = "owner" }, expected: ErrInvalidSortKey},
		{name: "UnknownType", modify: func(r *testRequest) { r.Type = "links" }, expected: ErrInvalidType, message: "invalid type, expected files, folders or both for field 'type'"},
		{name: "BlankFileGroup", modify: func(r *testRequest) { r.FileGroups = []string{"images", " "} }, expected: ErrInvalidFileType},
		{name: "BadID", modify: func(r *testRequest) { r.ID = "not-a-uuid" }, message: "field 'id' is not a valid search id"},
		{name: "MissingRequired", modify: func(r *testRequest) { r.Required = "" }, message: "missing required field 'required'"},
	}

	validator, err := New(newTestLogger())
	require.NoError(t, err)

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert := require.New(t)
			request := validRequest(t)
			test.modify(&request)

			err := validator.Validate(request)
			if test.expected == nil && test.message == "" {
				assert.NoError(err)
				return
			}
			assert.Error(err)
			if test.expected != nil {
				assert.ErrorIs(err, test.expected)
			}
			if test.message != "" {
				assert.Equal(test.message, err.Error())
			}
		})
	}
}
