package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()

	// Task statuses and priorities used across request DTOs
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "pending", "in_progress", "completed":
			return true
		}
		return false
	})
	_ = v.RegisterValidation("taskpriority", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "high", "medium", "low":
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
