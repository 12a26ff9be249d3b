package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Ruthreshjp/tour-app-sub001/internal/bookings/policy"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/logger"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/model"
)

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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("details_map", validateDetailsMap); err != nil {
		log.Fatal("Failed to register 'details_map' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateDetailsMap(fl validator.FieldLevel) bool {
	value := fl.Field()

	if value.IsNil() {
		return false
	}

	details, ok := value.Interface().(map[string]string)
	if !ok {
		return false
	}

	if len(details) > 50 {
		return false
	}

	for key, val := range details {
		if key == "" || len(key) > 64 || len(val) > 512 {
			return false
		}
	}
	return true
}

// Validate checks struct tags first, then the per-type policy: is the type
// bookable at all, and are the required detail keys present.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	p, ok := policy.ForType(booking.BusinessType)
	if !ok {
		return ValidationErrors{
			ValidationError{
				Field:   "BusinessType",
				Message: fmt.Sprintf("unknown business type: %s", booking.BusinessType),
			},
		}
	}

	if !p.Bookable {
		return ValidationErrors{
			ValidationError{
				Field:   "BusinessType",
				Message: fmt.Sprintf("%s listings do not take bookings", booking.BusinessType),
			},
		}
	}

	if missing := p.MissingDetails(booking.BookingDetails); len(missing) > 0 {
		var errs ValidationErrors
		for _, key := range missing {
			errs = append(errs, ValidationError{
				Field:   key,
				Message: fmt.Sprintf("booking_details.%s is required for %s bookings", key, booking.BusinessType),
			})
		}
		return errs
	}

	if booking.PaymentOption != "" && booking.TotalAmount <= 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "TotalAmount",
				Message: "total_amount must be positive when a payment option is chosen",
			},
		}
	}

	return nil
}

// ValidateTransactionID guards the payment submission payload.
func (v *BookingValidator) ValidateTransactionID(transactionID string) error {
	if transactionID == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "TransactionID",
				Message: "transaction_id is required",
			},
		}
	}
	if len(transactionID) > 64 {
		return ValidationErrors{
			ValidationError{
				Field:   "TransactionID",
				Message: "transaction_id must be at most 64 characters",
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "details_map":
			message = fmt.Sprintf("%s must be a map of non-empty keys with bounded values", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
