package utils

import (
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pkgerrors "relationmap/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	namedColor = regexp.MustCompile(`^[a-zA-Z]{3,32}$`)
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("finite", validateFinite)
		_ = validate.RegisterValidation("tagcolor", validateTagColor)
	})
	return validate
}

// ValidateStruct validates a struct based on its validation tags and returns
// a VALIDATION app error listing every offending field
func ValidateStruct(s interface{}) error {
	if err := validatorInstance().Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateVar validates a single value against a tag expression
func ValidateVar(field interface{}, tag string) error {
	if err := validatorInstance().Var(field, tag); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	default:
		return true
	}
}

// tag colors are hex, rgb(a), hsl(a) or a CSS color keyword
func validateTagColor(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" || namedColor.MatchString(v) {
		return true
	}
	return validatorInstance().Var(v, "iscolor") == nil
}

func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	fields := make(map[string]interface{}, len(validationErrors))
	for _, e := range validationErrors {
		msg := formatFieldError(e)
		messages = append(messages, msg)
		fields[fieldName(e)] = msg
	}
	return pkgerrors.NewValidationError(strings.Join(messages, "; ")).
		WithDetails(map[string]interface{}{"fields": fields})
}

func fieldName(e validator.FieldError) string {
	if e.Field() == "" {
		return "value"
	}
	return e.Field()
}

func formatFieldError(e validator.FieldError) string {
	field := fieldName(e)

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "uuid", "uuid4":
		return field + " must be a valid id"
	case "finite":
		return field + " must be a finite number"
	case "tagcolor":
		return field + " must be a hex, rgb, hsl or named color"
	default:
		return field + " is invalid"
	}
}
