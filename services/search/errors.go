package search

import (
	"errors"
	"fmt"
)

type ValidationErrorKind string

const (
	ConflictingNameFilters               ValidationErrorKind = "conflicting_name_filters"
	InvalidDirectory                     ValidationErrorKind = "invalid_directory"
	SizeRangeInverted                    ValidationErrorKind = "size_range_inverted"
	DateRangeInverted                    ValidationErrorKind = "date_range_inverted"
	ProtectedPathWithSystemFilesDisabled ValidationErrorKind = "protected_path_with_system_files_disabled"
)

var (
	ErrConflictingNameFilters               = errors.New("name cannot be combined with name contains, extension or file groups")
	ErrInvalidDirectory                     = errors.New("given directory is not a valid folder")
	ErrSizeRangeInverted                    = errors.New("minimum size is larger than maximum size")
	ErrDateRangeInverted                    = errors.New("first date must be earlier than second date")
	ErrProtectedPathWithSystemFilesDisabled = errors.New("searching in system files is disabled, but the directory is a system folder")

	ErrJobNotFound = errors.New("search not found")
)

var validationSentinels = map[ValidationErrorKind]error{
	ConflictingNameFilters:               ErrConflictingNameFilters,
	InvalidDirectory:                     ErrInvalidDirectory,
	SizeRangeInverted:                    ErrSizeRangeInverted,
	DateRangeInverted:                    ErrDateRangeInverted,
	ProtectedPathWithSystemFilesDisabled: ErrProtectedPathWithSystemFilesDisabled,
}

// ValidationError rejects a FilterSpec before any work starts.
type ValidationError struct {
	Kind   ValidationErrorKind
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return validationSentinels[e.Kind].Error()
	}
	return fmt.Sprintf("%s: %s", validationSentinels[e.Kind], e.Detail)
}

func (e *ValidationError) Is(target error) bool {
	return target == validationSentinels[e.Kind]
}

func newValidationError(kind ValidationErrorKind, detail string) *ValidationError {
	return &ValidationError{Kind: kind, Detail: detail}
}
