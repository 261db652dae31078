package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bouncely/pkg/client"
	"bouncely/pkg/middleware"
	"bouncely/pkg/model"
)

func TestReservationClient_SendsTokenAndPath(t *testing.T) {
	var gotPath, gotAuth, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get(client.IdempotencyHeader)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"r1"}}`))
	}))
	defer server.Close()

	c := client.NewReservationClient(server.URL, "guest-token")
	resp, err := c.CreateWithKey(context.Background(), model.BookingRequest{ListingID: "l1", DurationUnits: 1}, "key-1")
	if err != nil {
		t.Fatalf("CreateWithKey() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if gotPath != "/api/v1/reservations" || gotAuth != "Bearer guest-token" || gotKey != "key-1" {
		t.Errorf("path=%q auth=%q key=%q", gotPath, gotAuth, gotKey)
	}

	if _, err := c.As("host-token").Approve(context.Background(), "r1"); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if gotPath != "/functions/approveReservation?id=r1" || gotAuth != "Bearer host-token" {
		t.Errorf("approve path=%q auth=%q", gotPath, gotAuth)
	}
}

func TestReservationClient_ConfirmPaymentIsSigned(t *testing.T) {
	const secret = "webhook-secret"
	var valid bool
	var payment model.PaymentNotification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		valid = middleware.ValidSignature(body, r.Header.Get(middleware.SignatureHeader), secret)
		_ = json.Unmarshal(body, &payment)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := client.NewReservationClient(server.URL, "")
	_, err := c.ConfirmPayment(context.Background(), secret, model.PaymentNotification{
		ReservationID: "r1", Amount: 110, PaymentReference: "pay_1",
	})
	if err != nil {
		t.Fatalf("ConfirmPayment() error = %v", err)
	}
	if !valid {
		t.Error("signature was not accepted by the server middleware")
	}
	if payment.PaymentReference != "pay_1" {
		t.Errorf("payment = %+v", payment)
	}
}

func TestErrorHelpers(t *testing.T) {
	resp := &client.Response{Body: []byte(`{"code":"CONFLICT","message":"already processed"}`)}
	if client.ErrorCode(resp) != "CONFLICT" {
		t.Errorf("ErrorCode() = %q", client.ErrorCode(resp))
	}
	if client.GetErrorMessage(resp) != "already processed" {
		t.Errorf("GetErrorMessage() = %q", client.GetErrorMessage(resp))
	}
}
