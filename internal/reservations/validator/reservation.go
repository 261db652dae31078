package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"bouncely/pkg/logger"
	"bouncely/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	paymentReferenceRegex = regexp.MustCompile(`^[A-Za-z0-9_\-:.]+$`)
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

// Fields returns field -> message, the shape used in error details.
func (v ValidationErrors) Fields() map[string]any {
	fields := make(map[string]any, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return fields
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("payment_reference", validatePaymentReference); err != nil {
		log.Fatal("Failed to register 'payment_reference' validator",
			"error", err,
		)
	}

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func validatePaymentReference(fl validator.FieldLevel) bool {
	return paymentReferenceRegex.MatchString(fl.Field().String())
}

// ValidateBookingRequest checks the request shape. Whether the start date is
// still in the future is decided by the service against its own clock.
func (v *ReservationValidator) ValidateBookingRequest(req *model.BookingRequest) error {
	if err := v.validateStruct(req); err != nil {
		return err
	}

	if req.StartDate.IsZero() {
		return ValidationErrors{
			ValidationError{
				Field:   "start_date",
				Message: "start_date is required",
			},
		}
	}
	return nil
}

func (v *ReservationValidator) ValidatePayment(payment *model.PaymentNotification) error {
	return v.validateStruct(payment)
}

func (v *ReservationValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "payment_reference":
			message = fmt.Sprintf("%s may only contain letters, digits and - _ : .", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
