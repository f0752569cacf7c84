// internal/domain/auth/validator.go
package auth

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"homefinder/pkg/errors"
)

type ValidatorWrapper struct {
	validate *validator.Validate
}

// NewValidator reports field names by their json tag.
func NewValidator(v *validator.Validate) Validator {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ValidatorWrapper{
		validate: v,
	}
}

// Validate returns a *errors.ValidationError naming the first failing field.
func (v *ValidatorWrapper) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewValidationError(err.Error())
	}
	fe := fieldErrs[0]
	return errors.NewFieldError(fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
