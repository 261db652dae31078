package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"bouncely/pkg/auth"
	apperrors "bouncely/pkg/errors"
	httputil "bouncely/pkg/http"
	"bouncely/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type actionFunc func(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error)

// Approve and Reject keep the function-style contract the web client calls:
// POST with ?id=, 200 with {data, notifications, partial_success} on success.
func (h *ReservationHandler) Approve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.runAction(w, r, "Approve", queryID, h.service.Approve)
}

func (h *ReservationHandler) Reject(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.runAction(w, r, "Reject", queryID, h.service.Reject)
}

func (h *ReservationHandler) Withdraw(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.runAction(w, r, "Withdraw", pathID(ps), h.service.Withdraw)
}

func (h *ReservationHandler) AdminCancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.runAction(w, r, "AdminCancel", pathID(ps), h.service.AdminCancel)
}

func (h *ReservationHandler) runAction(w http.ResponseWriter, r *http.Request, name string, id func(*http.Request) (string, error), action actionFunc) {
	actor, err := auth.RequireActor(r)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	reservationID, err := id(r)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	result, err := action(r.Context(), reservationID, actor)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WriteResult(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write action response", "handler", name, "operation", "WriteResult", "error", err)
	}
}

func queryID(r *http.Request) (string, error) {
	return httputil.RequiredQuery(r, "id")
}

func pathID(ps httprouter.Params) func(*http.Request) (string, error) {
	return func(*http.Request) (string, error) {
		id := ps.ByName("id")
		if id == "" {
			return "", apperrors.InvalidInput("Reservation ID cannot be empty")
		}
		return id, nil
	}
}

// PaymentWebhook receives the provider's success notification. The body has
// already passed signature verification.
func (h *ReservationHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var payment model.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		h.writeError(w, "PaymentWebhook", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.validator.ValidatePayment(&payment); err != nil {
		h.writeError(w, "PaymentWebhook", validationError("Invalid payment notification", err))
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), payment.ReservationID, payment.Amount, payment.PaymentReference)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodePaymentAmountMismatch) {
			h.log.Warn("Payment amount mismatch needs reconciliation",
				"reservation_id", payment.ReservationID,
				"payment_reference", payment.PaymentReference,
				"amount", payment.Amount,
			)
		}
		h.writeError(w, "PaymentWebhook", err)
		return
	}

	if err := httputil.WriteResult(w, http.StatusOK, result); err != nil {
		h.log.Error("failed to write action response", "handler", "PaymentWebhook", "operation", "WriteResult", "error", err)
	}
}
