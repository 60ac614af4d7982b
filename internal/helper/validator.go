package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return domain.ValidContactNumber(fl.Field().String())
	})
	return v
}

// ValidateStruct runs the validate tags of s and reports the first failure as
// a validation error.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.ValidationError("Please provide valid inputs")
	}
	return domain.ValidationError(fieldMessage(fieldErrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return "Please enter a valid email"
	case "contact":
		return "Please enter a valid contact number"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
