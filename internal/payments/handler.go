// Package payments consumes payment-succeeded notifications from Kafka and
// confirms the matching reservation.
package payments

import (
	"context"

	"bouncely/internal/reservations/service"
	"bouncely/internal/reservations/validator"
	apperrors "bouncely/pkg/errors"
	"bouncely/pkg/kafka"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"
)

type Handler struct {
	service   service.ReservationService
	validator *validator.ReservationValidator
	log       *logger.Logger
}

func NewHandler(service service.ReservationService, validator *validator.ReservationValidator, log *logger.Logger) *Handler {
	return &Handler{service: service, validator: validator, log: log}
}

// Handle confirms one payment. Payloads that can never succeed are returned
// as permanent errors so they land in the DLQ for manual reconciliation.
// Store failures are transient and retried.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var payment model.PaymentNotification
	if err := msg.DecodeValue(&payment); err != nil {
		return kafka.NewPermanentError("invalid payment payload", err)
	}
	if err := h.validator.ValidatePayment(&payment); err != nil {
		return kafka.NewPermanentError("payment notification failed validation", err)
	}

	result, err := h.service.ConfirmPayment(ctx, payment.ReservationID, payment.Amount, payment.PaymentReference)
	if err != nil {
		return h.classify(err, &payment)
	}

	h.log.Info("Payment applied",
		"reservation_id", payment.ReservationID,
		"payment_reference", payment.PaymentReference,
		"status", result.Reservation.Status,
		"partial_success", result.PartialSuccess,
	)
	return nil
}

func (h *Handler) classify(err error, payment *model.PaymentNotification) error {
	appErr := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.CodeInternal, apperrors.CodeTimeout, apperrors.CodeUnavailable:
		h.log.Warn("Payment confirmation failed, will retry",
			"reservation_id", payment.ReservationID,
			"error", err,
		)
		return kafka.NewTransientError("payment confirmation failed", err)
	default:
		h.log.Error("Payment needs manual reconciliation",
			"reservation_id", payment.ReservationID,
			"payment_reference", payment.PaymentReference,
			"amount", payment.Amount,
			"code", appErr.Code,
		)
		return kafka.NewPermanentError("payment rejected: "+appErr.Code, err)
	}
}
