package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/filefind/logger"
	"github.com/meghashyamc/filefind/services/search"
)

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           error
}

func New(logger logger.Logger) (*Validator, error) {
	validator := &Validator{validator: validator.New(), logger: logger}
	validator.validator.RegisterTagNameFunc(useJSONFieldNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *Validator) Validate(i any) error {

	if err := v.validator.Struct(i); err != nil {
		v.logger.Warn("validation failed", "err", err.Error())
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {

			tagValidationDetails, ok := v.getTagValidationDetails()[validationErrs[0].Tag()]
			if ok {
				return fmt.Errorf("%w for field '%s'", tagValidationDetails.err, validationErrs[0].Field())
			}

			switch validationErrs[0].Tag() {
			case "required":
				return fmt.Errorf("missing required field '%s'", validationErrs[0].Field())

			case "min", "max":
				return fmt.Errorf("value or length of field '%s' is not in the expected range", validationErrs[0].Field())

			case "uuid4":
				return fmt.Errorf("field '%s' is not a valid search id", validationErrs[0].Field())
			}
		}
		return err
	}
	return nil
}

var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidSortKey  = errors.New("invalid sort key")
	ErrInvalidType     = errors.New("invalid type, expected files, folders or both")
	ErrInvalidFileType = errors.New("invalid file group")
)

func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"valid_path":       {validatorFunc: v.isValidPath, err: ErrInvalidPath},
			"valid_name":       {validatorFunc: v.isValidName, err: ErrInvalidName},
			"valid_sort":       {validatorFunc: v.isValidSortKey, err: ErrInvalidSortKey},
			"valid_type":       {validatorFunc: v.isValidType, err: ErrInvalidType},
			"valid_file_group": {validatorFunc: v.isValidFileGroup, err: ErrInvalidFileType},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register customer validator function", "err", err.Error())
			return err
		}
	}
	return nil
}

func useJSONFieldNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// isValidPath accepts an empty path. Whether the path is an existing folder
// is decided by the search validator, which reports it as invalid directory.
func (v *Validator) isValidPath(fl validator.FieldLevel) bool {
	inputPath := fl.Field().String()
	if len(inputPath) == 0 {
		return true
	}
	if strings.TrimSpace(inputPath) == "" {
		v.logger.Warn("validation path is empty", "path", inputPath)
		return false
	}

	if strings.Contains(inputPath, "\x00") {
		v.logger.Warn("validation path has null byte", "path", inputPath)
		return false
	}

	if !filepath.IsAbs(inputPath) {
		v.logger.Warn("validation path is not absolute", "path", inputPath)
		return false
	}

	return true
}

func (v *Validator) isValidName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) == 0 {
		return false
	}
	if strings.TrimSpace(name) == "" {
		v.logger.Warn("name is empty", "name", name)
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		v.logger.Warn("name has a separator or null byte", "name", name)
		return false
	}

	return true
}

func (v *Validator) isValidSortKey(fl validator.FieldLevel) bool {
	_, ok := search.ParseSortKey(fl.Field().String())
	return ok
}

func (v *Validator) isValidType(fl validator.FieldLevel) bool {
	_, ok := search.ParseTypeFilter(fl.Field().String())
	return ok
}

func (v *Validator) isValidFileGroup(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
