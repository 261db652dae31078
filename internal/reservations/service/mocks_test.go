package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	listingsrepo "bouncely/internal/listings/repository"
	notifications "bouncely/internal/notifications/service"
	reservationserrors "bouncely/internal/reservations/errors"
	"bouncely/internal/reservations/repository"
	"bouncely/internal/reservations/validator"
	"bouncely/pkg/config"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"
)

type mockReservationRepo struct {
	createFunc                    func(ctx context.Context, r *model.Reservation) error
	findByIDFunc                  func(ctx context.Context, id string) (*model.Reservation, error)
	findByParticipantFunc         func(ctx context.Context, filter repository.ParticipantFilter, limit int, offset int64) ([]*model.Reservation, error)
	countByParticipantFunc        func(ctx context.Context, filter repository.ParticipantFilter) (int64, error)
	listByStatusFunc              func(ctx context.Context, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, error)
	listAwaitingPaymentBeforeFunc func(ctx context.Context, cutoff time.Time, limit int, offset int64) ([]*model.Reservation, error)
	listConfirmedEndedBeforeFunc  func(ctx context.Context, now time.Time, limit int, offset int64) ([]*model.Reservation, error)
	compareAndSetStatusFunc       func(ctx context.Context, id string, from model.ReservationStatus, change model.StatusChange) error
}

func (m *mockReservationRepo) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	return nil
}

func (m *mockReservationRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepo) FindByParticipant(ctx context.Context, filter repository.ParticipantFilter, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findByParticipantFunc != nil {
		return m.findByParticipantFunc(ctx, filter, limit, offset)
	}
	return nil, nil
}

func (m *mockReservationRepo) CountByParticipant(ctx context.Context, filter repository.ParticipantFilter) (int64, error) {
	if m.countByParticipantFunc != nil {
		return m.countByParticipantFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockReservationRepo) ListByStatus(ctx context.Context, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockReservationRepo) ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	if m.listAwaitingPaymentBeforeFunc != nil {
		return m.listAwaitingPaymentBeforeFunc(ctx, cutoff, limit, offset)
	}
	return nil, nil
}

func (m *mockReservationRepo) ListConfirmedEndedBefore(ctx context.Context, now time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	if m.listConfirmedEndedBeforeFunc != nil {
		return m.listConfirmedEndedBeforeFunc(ctx, now, limit, offset)
	}
	return nil, nil
}

func (m *mockReservationRepo) CompareAndSetStatus(ctx context.Context, id string, from model.ReservationStatus, change model.StatusChange) error {
	if m.compareAndSetStatusFunc != nil {
		return m.compareAndSetStatusFunc(ctx, id, from, change)
	}
	return nil
}

// newMemRepo wires the mock to an in-memory table so compare-and-set and the
// sweep queries behave like a real store.
func newMemRepo(seed ...*model.Reservation) (*mockReservationRepo, func(id string) *model.Reservation) {
	var mu sync.Mutex
	rows := map[string]*model.Reservation{}
	for _, r := range seed {
		cp := *r
		rows[r.ID] = &cp
	}
	nextID := 0

	sorted := func(keep func(r *model.Reservation) bool, limit int, offset int64) []*model.Reservation {
		var out []*model.Reservation
		for _, r := range rows {
			if keep(r) {
				cp := *r
				out = append(out, &cp)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		if offset >= int64(len(out)) {
			return nil
		}
		out = out[offset:]
		if len(out) > limit {
			out = out[:limit]
		}
		return out
	}

	repo := &mockReservationRepo{
		createFunc: func(ctx context.Context, r *model.Reservation) error {
			mu.Lock()
			defer mu.Unlock()
			nextID++
			r.ID = fmt.Sprintf("r%03d", nextID)
			cp := *r
			rows[r.ID] = &cp
			return nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.Reservation, error) {
			mu.Lock()
			defer mu.Unlock()
			r, ok := rows[id]
			if !ok {
				return nil, reservationserrors.ErrNotFound
			}
			cp := *r
			return &cp, nil
		},
		listAwaitingPaymentBeforeFunc: func(ctx context.Context, cutoff time.Time, limit int, offset int64) ([]*model.Reservation, error) {
			mu.Lock()
			defer mu.Unlock()
			return sorted(func(r *model.Reservation) bool {
				return r.Status == model.StatusAwaitingPayment && !r.StatusChangedAt.After(cutoff)
			}, limit, offset), nil
		},
		listConfirmedEndedBeforeFunc: func(ctx context.Context, now time.Time, limit int, offset int64) ([]*model.Reservation, error) {
			mu.Lock()
			defer mu.Unlock()
			return sorted(func(r *model.Reservation) bool {
				return r.Status == model.StatusConfirmed && r.EndDate.Before(now)
			}, limit, offset), nil
		},
		compareAndSetStatusFunc: func(ctx context.Context, id string, from model.ReservationStatus, change model.StatusChange) error {
			mu.Lock()
			defer mu.Unlock()
			r, ok := rows[id]
			if !ok {
				return reservationserrors.ErrNotFound
			}
			if r.Status != from {
				return reservationserrors.ErrStatusConflict
			}
			change.Apply(r)
			return nil
		},
	}

	get := func(id string) *model.Reservation {
		mu.Lock()
		defer mu.Unlock()
		if r, ok := rows[id]; ok {
			cp := *r
			return &cp
		}
		return nil
	}
	return repo, get
}

type mockListingRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Listing, error)
}

func (m *mockListingRepo) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, listingsrepo.ErrNotFound
}

type mockNotifier struct {
	mu         sync.Mutex
	notifyFunc func(ctx context.Context, recipients ...notifications.Recipient) []model.NotificationOutcome
	recipients []notifications.Recipient
}

func (m *mockNotifier) Notify(ctx context.Context, recipients ...notifications.Recipient) []model.NotificationOutcome {
	m.mu.Lock()
	m.recipients = append(m.recipients, recipients...)
	m.mu.Unlock()

	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, recipients...)
	}
	var outcomes []model.NotificationOutcome
	for _, r := range recipients {
		outcomes = append(outcomes,
			model.NotificationOutcome{Channel: model.ChannelEmail, RecipientID: r.UserID, Success: true},
			model.NotificationOutcome{Channel: model.ChannelInApp, RecipientID: r.UserID, Success: true},
		)
	}
	return outcomes
}

func (m *mockNotifier) recipientIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, r := range m.recipients {
		ids = append(ids, r.UserID)
	}
	return ids
}

type publishedEvent struct {
	eventType string
	id        string
	status    model.ReservationStatus
	previous  model.ReservationStatus
}

type mockEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockEvents) Publish(ctx context.Context, eventType string, r *model.Reservation, previous model.ReservationStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{eventType: eventType, id: r.ID, status: r.Status, previous: previous})
}

func (m *mockEvents) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var types []string
	for _, e := range m.events {
		types = append(types, e.eventType)
	}
	return types
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	repo     *mockReservationRepo
	listings *mockListingRepo
	notifier *mockNotifier
	events   *mockEvents
}

func newTestService(deps testDeps) *reservationService {
	if deps.repo == nil {
		deps.repo = &mockReservationRepo{}
	}
	if deps.listings == nil {
		deps.listings = &mockListingRepo{}
	}
	if deps.notifier == nil {
		deps.notifier = &mockNotifier{}
	}
	if deps.events == nil {
		deps.events = &mockEvents{}
	}

	log := logger.Discard()
	cfg := &config.Config{
		Log:                log,
		ServiceFeeRate:     0.10,
		AwaitingPaymentTTL: 48 * time.Hour,
		SweepBatchSize:     100,
		PublicBaseURL:      "https://bouncely.example",
	}

	svc := NewReservationService(deps.repo, deps.listings, validator.NewReservationValidator(log), deps.notifier, deps.events, cfg).(*reservationService)
	svc.clock = func() time.Time { return testNow }
	return svc
}

func price(v float64) *float64 { return &v }

func dailyListing(id, hostID string, perDay float64) *model.Listing {
	return &model.Listing{ID: id, HostID: hostID, Title: "Castle XL", PricingModel: model.PricingDaily, PricePerDay: price(perDay)}
}

func pendingReservation(id string) *model.Reservation {
	return &model.Reservation{
		ID:              id,
		ListingID:       "507f1f77bcf86cd799439011",
		GuestID:         "guest-1",
		HostID:          "host-1",
		StartDate:       testNow.Add(72 * time.Hour),
		EndDate:         testNow.Add(96 * time.Hour),
		PricingModel:    model.PricingDaily,
		DurationUnits:   1,
		UnitPrice:       100,
		TotalAmount:     110,
		ServiceFee:      10,
		HostPayout:      100,
		Status:          model.StatusPending,
		CreatedDate:     testNow.Add(-time.Hour),
		StatusChangedAt: testNow.Add(-time.Hour),
	}
}

func withStatus(r *model.Reservation, status model.ReservationStatus, changedAt time.Time) *model.Reservation {
	r.Status = status
	r.StatusChangedAt = changedAt
	return r
}

var (
	host  = model.Actor{UserID: "host-1", Role: model.RoleUser}
	guest = model.Actor{UserID: "guest-1", Role: model.RoleUser}
	admin = model.Actor{UserID: "admin-1", Role: model.RoleAdmin}
)
