package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bouncely/pkg/model"
)

// Header names match the ones the server middleware reads.
const (
	IdempotencyHeader = "Idempotency-Key"
	SignatureHeader   = "X-Signature-256"
)

type ReservationClient struct {
	http *HttpClient
}

func NewReservationClient(baseURL, token string) *ReservationClient {
	return &ReservationClient{http: NewHttpClient(baseURL).WithToken(token)}
}

// As returns a client acting with another user's token.
func (c *ReservationClient) As(token string) *ReservationClient {
	return &ReservationClient{http: c.http.WithToken(token)}
}

func (c *ReservationClient) HTTP() *HttpClient {
	return c.http
}

func (c *ReservationClient) Create(ctx context.Context, req model.BookingRequest) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/reservations", req)
}

func (c *ReservationClient) CreateWithKey(ctx context.Context, req model.BookingRequest, idempotencyKey string) (*Response, error) {
	return c.http.POSTWithHeaders(ctx, "/api/v1/reservations", req, map[string]string{
		IdempotencyHeader: idempotencyKey,
	})
}

func (c *ReservationClient) List(ctx context.Context, role string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))
	return c.http.GET(ctx, "/api/v1/reservations?"+q.Encode())
}

func (c *ReservationClient) ListByStatus(ctx context.Context, status model.ReservationStatus) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/admin/reservations?status="+url.QueryEscape(string(status)))
}

func (c *ReservationClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/reservations/id/"+url.PathEscape(id))
}

func (c *ReservationClient) Receipt(ctx context.Context, id string) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/reservations/id/"+url.PathEscape(id)+"/receipt")
}

func (c *ReservationClient) Quote(ctx context.Context, listingID string, units int) (*Response, error) {
	q := url.Values{}
	q.Set("listing_id", listingID)
	q.Set("duration_units", fmt.Sprintf("%d", units))
	return c.http.GET(ctx, "/api/v1/quote?"+q.Encode())
}

func (c *ReservationClient) Approve(ctx context.Context, id string) (*Response, error) {
	return c.http.POST(ctx, "/functions/approveReservation?id="+url.QueryEscape(id), nil)
}

func (c *ReservationClient) Reject(ctx context.Context, id string) (*Response, error) {
	return c.http.POST(ctx, "/functions/rejectReservation?id="+url.QueryEscape(id), nil)
}

func (c *ReservationClient) Withdraw(ctx context.Context, id string) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/reservations/id/"+url.PathEscape(id)+"/withdraw", nil)
}

func (c *ReservationClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.http.POST(ctx, "/api/v1/reservations/id/"+url.PathEscape(id)+"/cancel", nil)
}

func (c *ReservationClient) Notifications(ctx context.Context) (*Response, error) {
	return c.http.GET(ctx, "/api/v1/notifications")
}

// ConfirmPayment posts a signed payment notification to the webhook.
func (c *ReservationClient) ConfirmPayment(ctx context.Context, secret string, payment model.PaymentNotification) (*Response, error) {
	raw, err := json.Marshal(payment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment: %w", err)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	signature := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return c.http.Do(ctx, http.MethodPost, "/webhooks/payments", raw, map[string]string{
		SignatureHeader: signature,
	})
}
