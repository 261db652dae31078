package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bouncely/internal/reservations/repository"
	"bouncely/internal/reservations/service"
	"bouncely/internal/reservations/validator"
	"bouncely/pkg/auth"
	apperrors "bouncely/pkg/errors"
	httputil "bouncely/pkg/http"
	"bouncely/pkg/logger"
	"bouncely/pkg/middleware"
	"bouncely/pkg/model"
	"bouncely/pkg/receipt"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service       service.ReservationService
	validator     *validator.ReservationValidator
	log           *logger.Logger
	webhookSecret string
	clock         func() time.Time
}

func NewReservationHandler(service service.ReservationService, validator *validator.ReservationValidator, log *logger.Logger, webhookSecret string) *ReservationHandler {
	return &ReservationHandler{
		service:       service,
		validator:     validator,
		log:           log,
		webhookSecret: webhookSecret,
		clock:         time.Now,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := auth.RequireActor(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.RequestBooking(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteResult(w, http.StatusCreated, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteResult", "error", err)
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := auth.RequireActor(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	query := r.URL.Query()
	role := repository.ParticipantRole(query.Get("role"))
	if role == "" {
		role = repository.ParticipantGuest
	}
	status := model.ReservationStatus(query.Get("status"))

	reservations, total, err := h.service.ListForUser(r.Context(), actor, role, status, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *ReservationHandler) ListByStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := auth.RequireActor(r)
	if err != nil {
		h.writeError(w, "ListByStatus", err)
		return
	}

	status, err := httputil.RequiredQuery(r, "status")
	if err != nil {
		h.writeError(w, "ListByStatus", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByStatus", err)
		return
	}

	reservations, err := h.service.ListByStatus(r.Context(), actor, model.ReservationStatus(status), limit, offset)
	if err != nil {
		h.writeError(w, "ListByStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := auth.RequireActor(r)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"), actor)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := auth.RequireActor(r)
	if err != nil {
		h.writeError(w, "Receipt", err)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"), actor)
	if err != nil {
		h.writeError(w, "Receipt", err)
		return
	}

	data, name, err := receipt.Build(reservation, h.clock())
	if err != nil {
		if errors.Is(err, receipt.ErrNotPaid) {
			h.writeError(w, "Receipt", apperrors.Conflict("Receipt is only available for paid reservations").
				WithDetails(map[string]any{"status": string(reservation.Status)}))
			return
		}
		h.log.Error("Failed to render receipt", "id", reservation.ID, "error", err)
		h.writeError(w, "Receipt", apperrors.Internal("Failed to render receipt", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Error("failed to write receipt", "handler", "Receipt", "operation", "Write", "error", err)
	}
}

func (h *ReservationHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	listingID, err := httputil.RequiredQuery(r, "listing_id")
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	units, err := httputil.OptionalIntQuery(r, "duration_units", 1)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	quote, err := h.service.Quote(r.Context(), listingID, units)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, quote); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.GET("/api/v1/reservations/id/:id/receipt", h.Receipt)
	router.POST("/api/v1/reservations/id/:id/withdraw", h.Withdraw)
	router.POST("/api/v1/reservations/id/:id/cancel", h.AdminCancel)
	router.GET("/api/v1/admin/reservations", h.ListByStatus)
	router.GET("/api/v1/quote", h.Quote)

	router.POST("/functions/approveReservation", h.Approve)
	router.POST("/functions/rejectReservation", h.Reject)

	router.Handler(http.MethodPost, "/webhooks/payments",
		middleware.PaymentSignatureVerification(h.webhookSecret, h.log)(http.HandlerFunc(h.PaymentWebhook)))
}
