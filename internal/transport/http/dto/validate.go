package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mealmate/mealmate-api/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report json field names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// check runs struct validation and maps the first failure to a domain
// error the boundary can turn into a 400.
func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return domain.ErrMissingField(fe.Field())
		}
		return domain.ErrInvalidField(fe.Field(), fe.Tag())
	}
	return domain.ErrInternal(err)
}
