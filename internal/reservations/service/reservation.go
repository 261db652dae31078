package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	listingsrepo "bouncely/internal/listings/repository"
	notifications "bouncely/internal/notifications/service"
	reservationserrors "bouncely/internal/reservations/errors"
	"bouncely/internal/reservations/events"
	"bouncely/internal/reservations/repository"
	"bouncely/internal/reservations/validator"
	"bouncely/pkg/config"
	apperrors "bouncely/pkg/errors"
	"bouncely/pkg/model"
	"bouncely/pkg/pricing"
	"bouncely/pkg/sanitizer"
)

const maxSpecialRequestsRunes = 1000

type ReservationService interface {
	RequestBooking(ctx context.Context, actor model.Actor, req *model.BookingRequest) (*model.ActionResult, error)
	Approve(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error)
	Reject(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error)
	Withdraw(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error)
	AdminCancel(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error)
	ConfirmPayment(ctx context.Context, id string, paidAmount float64, paymentRef string) (*model.ActionResult, error)
	ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) (*model.SweepResult, error)
	CompleteFinished(ctx context.Context, now time.Time) (*model.SweepResult, error)
	GetByID(ctx context.Context, id string, actor model.Actor) (*model.Reservation, error)
	ListForUser(ctx context.Context, actor model.Actor, role repository.ParticipantRole, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListByStatus(ctx context.Context, actor model.Actor, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, error)
	Quote(ctx context.Context, listingID string, durationUnits int) (*model.Quote, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	listings  listingsrepo.ListingRepository
	validator *validator.ReservationValidator
	notifier  notifications.Notifier
	events    events.Publisher
	cfg       *config.Config
	clock     func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	listings listingsrepo.ListingRepository,
	validator *validator.ReservationValidator,
	notifier notifications.Notifier,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		listings:  listings,
		validator: validator,
		notifier:  notifier,
		events:    publisher,
		cfg:       cfg,
		clock:     time.Now,
	}
}

func (s *reservationService) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

func (s *reservationService) RequestBooking(ctx context.Context, actor model.Actor, req *model.BookingRequest) (*model.ActionResult, error) {
	if actor.UserID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	s.sanitize(req)
	if err := s.validator.ValidateBookingRequest(req); err != nil {
		return nil, validationError("Invalid booking request", err)
	}

	now := s.now()
	start := req.StartDate.UTC()
	if !start.After(now) {
		return nil, apperrors.Validation("Start date must be in the future", map[string]any{
			"start_date": reservationserrors.ErrStartDateInPast.Error(),
		}).WithCause(reservationserrors.ErrStartDateInPast)
	}

	listing, err := s.findListing(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.HostID == actor.UserID {
		return nil, apperrors.Forbidden("Hosts cannot book their own listing")
	}

	totals, unitPrice, err := s.price(listing, req.DurationUnits)
	if err != nil {
		return nil, err
	}

	reservation := &model.Reservation{
		ListingID:       listing.ID,
		GuestID:         actor.UserID,
		HostID:          listing.HostID,
		StartDate:       start,
		EndDate:         start.Add(time.Duration(req.DurationUnits) * listing.PricingModel.UnitDuration()),
		PricingModel:    listing.PricingModel,
		DurationUnits:   req.DurationUnits,
		UnitPrice:       unitPrice,
		TotalAmount:     totals.Total(),
		ServiceFee:      totals.ServiceFee(),
		HostPayout:      totals.HostPayout(),
		Status:          model.StatusPending,
		SpecialRequests: req.SpecialRequests,
		CreatedDate:     now,
		StatusChangedAt: now,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "listing_id", listing.ID, "guest_id", actor.UserID, "error", err)
		return nil, apperrors.Internal("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Reservation requested",
		"id", reservation.ID,
		"listing_id", reservation.ListingID,
		"guest_id", reservation.GuestID,
		"host_id", reservation.HostID,
		"total_amount", reservation.TotalAmount,
	)

	outcomes := s.notify(ctx, model.EventReservationRequested, reservation, notifications.AudienceHost)
	s.events.Publish(ctx, model.EventReservationRequested, reservation, "")

	return model.NewActionResult(reservation, outcomes), nil
}

func (s *reservationService) sanitize(req *model.BookingRequest) {
	req.ListingID = strings.TrimSpace(req.ListingID)
	req.SpecialRequests = sanitizer.SanitizeFreeText(req.SpecialRequests, maxSpecialRequestsRunes)
}

func (s *reservationService) findListing(ctx context.Context, listingID string) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, listingsrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", listingID)
		}
		if errors.Is(err, listingsrepo.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		s.cfg.Log.Error("Failed to load listing", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}
	return listing, nil
}

func (s *reservationService) price(listing *model.Listing, durationUnits int) (pricing.Totals, float64, error) {
	unitPrice, ok := listing.UnitPrice()
	if !ok {
		return pricing.Totals{}, 0, apperrors.InvalidPricingInput(reservationserrors.ErrListingUnavailable.Error()).
			WithCause(reservationserrors.ErrListingUnavailable)
	}

	totals, err := pricing.ComputeTotals(unitPrice, durationUnits, s.cfg.ServiceFeeRate)
	if err != nil {
		return pricing.Totals{}, 0, apperrors.InvalidPricingInput(err.Error()).WithCause(err)
	}
	return totals, pricing.Round2(unitPrice), nil
}

func (s *reservationService) Quote(ctx context.Context, listingID string, durationUnits int) (*model.Quote, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, apperrors.InvalidInput("listing_id is required")
	}

	listing, err := s.findListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	totals, unitPrice, err := s.price(listing, durationUnits)
	if err != nil {
		return nil, err
	}

	return &model.Quote{
		ListingID:     listing.ID,
		PricingModel:  listing.PricingModel,
		DurationUnits: durationUnits,
		UnitPrice:     unitPrice,
		Subtotal:      totals.Subtotal(),
		ServiceFee:    totals.ServiceFee(),
		Total:         totals.Total(),
		HostPayout:    totals.HostPayout(),
	}, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string, actor model.Actor) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	if !reservation.IsParticipant(actor.UserID) && !actor.IsAdmin() {
		return nil, apperrors.Forbidden("You are not a participant in this reservation")
	}
	return reservation, nil
}

func (s *reservationService) ListForUser(
	ctx context.Context,
	actor model.Actor,
	role repository.ParticipantRole,
	status model.ReservationStatus,
	limit int,
	offset int64,
) ([]*model.Reservation, int64, error) {
	if actor.UserID == "" {
		return nil, 0, apperrors.Unauthorized("Authentication required")
	}
	if !role.IsValid() {
		return nil, 0, apperrors.InvalidInput("role must be one of: guest, host")
	}
	if status != "" && !status.IsValid() {
		return nil, 0, apperrors.InvalidInput("Unknown reservation status: " + string(status))
	}

	filter := repository.ParticipantFilter{UserID: actor.UserID, Role: role, Status: status}

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByParticipant(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "user_id", actor.UserID, "role", role, "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindByParticipant(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "user_id", actor.UserID, "role", role, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) ListByStatus(ctx context.Context, actor model.Actor, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Forbidden("Admin role required")
	}
	if !status.IsValid() {
		return nil, apperrors.InvalidInput("Unknown reservation status: " + string(status))
	}

	reservations, err := s.repo.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations by status", "status", status, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) mapRepoError(err error, id string) error {
	switch {
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", id)
	case errors.Is(err, reservationserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid reservation ID format")
	default:
		s.cfg.Log.Error("Failed to retrieve reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to retrieve reservation", err)
	}
}

func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Fields()).WithCause(err)
	}
	return apperrors.Validation(message, nil).WithCause(err)
}
