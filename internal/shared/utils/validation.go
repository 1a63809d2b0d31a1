package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	apperrors "github.com/Tatu1984/hrms-sub001/internal/shared/errors"
)

var validate = newValidator()

// newValidator reports fields by their JSON name and adds the bizdate tag,
// a YYYY-MM-DD date in the business timezone.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("bizdate", func(fl validator.FieldLevel) bool {
		_, err := biztime.ParseDateInBizTimezone(fl.Field().String())
		return err == nil
	})
	return v
}

// ValidateStruct runs the validate tags of s and folds every violation into a
// single validation AppError.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError("Validation failed")
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.NewValidationError("Validation failed", strings.Join(msgs, "; "))
}

var tagMessages = map[string]string{
	"required": "%[1]s is required",
	"gt":       "%[1]s must be greater than %[2]s",
	"gte":      "%[1]s must be greater than or equal to %[2]s",
	"lte":      "%[1]s must be less than or equal to %[2]s",
	"bizdate":  "%[1]s must be a date in YYYY-MM-DD format",
}

func describe(fe validator.FieldError) string {
	if fe.Tag() == "max" {
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	if format, ok := tagMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed validation for '%s'", fe.Field(), fe.Tag())
}
