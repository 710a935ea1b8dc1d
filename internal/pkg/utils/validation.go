package utils

import (
	"onboarding-service/internal/pkg/constvars"
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("intermediate_status", validateIntermediateStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateIntermediateStatus(fl validator.FieldLevel) bool {
	return slices.Contains(constvars.IntermediateStatuses, fl.Field().String())
}
