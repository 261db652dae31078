package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bouncely/pkg/auth"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockNotificationRepo struct {
	findByUserFunc func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return nil
}

func (m *mockNotificationRepo) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
	return m.findByUserFunc(ctx, userID, limit, offset)
}

func TestList(t *testing.T) {
	var gotUser string
	var gotOffset int64
	repo := &mockNotificationRepo{
		findByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
			gotUser, gotOffset = userID, offset
			return []*model.Notification{{UserID: userID, Type: model.EventReservationApproved, Title: "Approved"}}, nil
		},
	}
	router := httprouter.New()
	NewNotificationHandler(repo, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?offset=20", nil)
	req = req.WithContext(auth.WithActor(req.Context(), model.Actor{UserID: "guest-1", Role: model.RoleUser}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if gotUser != "guest-1" || gotOffset != 20 {
		t.Errorf("FindByUser(%q, offset=%d)", gotUser, gotOffset)
	}
}

func TestList_Errors(t *testing.T) {
	repo := &mockNotificationRepo{
		findByUserFunc: func(ctx context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
			return nil, errors.New("mongo down")
		},
	}
	router := httprouter.New()
	NewNotificationHandler(repo, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req = req.WithContext(auth.WithActor(req.Context(), model.Actor{UserID: "guest-1", Role: model.RoleUser}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("store failure: status = %d, want 500", rec.Code)
	}
}
