package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dorm-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report json names so messages match the request body
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks a request's struct tags. Failures are reported as
// apperr.InvalidInput listing every offending field.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Wrap(apperr.InvalidInput, err, "invalid input")
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
	}
	return apperr.Wrap(apperr.InvalidInput, err, "invalid fields: %s", strings.Join(fields, ", "))
}
