package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

// UPI handles look like user@bank: a local part of 2-256 word characters,
// dots or hyphens, then a bank code of letters only.
var upiRegex = regexp.MustCompile(`^[a-z0-9._-]{2,256}@[a-z]{2,64}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BusinessValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBusinessValidator(log *logger.Logger) *BusinessValidator {
	v := validator.New()

	if err := v.RegisterValidation("upi", validateUPI); err != nil {
		log.Fatal("Failed to register 'upi' validator",
			"error", err,
		)
	}

	log.Info("Business validator initialized successfully")

	return &BusinessValidator{
		validate: v,
		logger:   log,
	}
}

func validateUPI(fl validator.FieldLevel) bool {
	return upiRegex.MatchString(strings.ToLower(fl.Field().String()))
}

func (v *BusinessValidator) Validate(business *model.Business) error {
	if err := v.validate.Struct(business); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BusinessValidator) ValidateUpdate(update *model.BusinessUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BusinessValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +919876543210)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "upi":
			message = fmt.Sprintf("%s must be a valid UPI handle (e.g., shop@okaxis)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
