package integration

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	listingsrepo "bouncely/internal/listings/repository"
	usersrepo "bouncely/internal/users/repository"
	"bouncely/pkg/auth"
	"bouncely/pkg/client"
	"bouncely/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type env struct {
	api           *client.ReservationClient
	db            *mongo.Database
	jwtSecret     string
	webhookSecret string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setup skips unless a running server is configured through TEST_SERVER_URL.
func setup(t *testing.T) *env {
	t.Helper()
	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		t.Skip("TEST_SERVER_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(getEnv("TEST_MONGO_URI", "mongodb://localhost:27017")))
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = mc.Disconnect(context.Background()) })

	e := &env{
		api:           client.NewReservationClient(serverURL, ""),
		db:            mc.Database(getEnv("TEST_DB_NAME", "bouncely")),
		jwtSecret:     getEnv("TEST_JWT_SECRET", "integration-secret"),
		webhookSecret: getEnv("TEST_PAYMENT_WEBHOOK_SECRET", "integration-webhook-secret"),
	}
	if err := e.api.HTTP().WaitForHealthy(ctx, 20*time.Second); err != nil {
		t.Fatal(err)
	}
	return e
}

func (e *env) token(t *testing.T, userID, role string) string {
	t.Helper()
	claims := auth.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(e.jwtSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// seed inserts a host, a guest and a daily listing priced at 100.
func (e *env) seed(t *testing.T) (hostID, guestID, listingID string) {
	t.Helper()
	ctx := context.Background()
	hostOID, guestOID := primitive.NewObjectID(), primitive.NewObjectID()

	users := e.db.Collection(usersrepo.CollectionName)
	for _, u := range []bson.M{
		{"_id": hostOID, "full_name": "Hanna Host", "email": "host@example.com", "phone": "+12025550101"},
		{"_id": guestOID, "full_name": "Gil Guest", "email": "guest@example.com"},
	} {
		if _, err := users.InsertOne(ctx, u); err != nil {
			t.Fatalf("insert user: %v", err)
		}
	}
	hostID, guestID = hostOID.Hex(), guestOID.Hex()

	price := 100.0
	oid := primitive.NewObjectID()
	listing := struct {
		ID           primitive.ObjectID `bson:"_id"`
		HostID       string             `bson:"host_id"`
		Title        string             `bson:"title"`
		PricingModel model.PricingModel `bson:"pricing_model"`
		PricePerDay  *float64           `bson:"price_per_day"`
	}{oid, hostID, "Castle Deluxe", model.PricingDaily, &price}
	if _, err := e.db.Collection(listingsrepo.CollectionName).InsertOne(ctx, listing); err != nil {
		t.Fatalf("insert listing: %v", err)
	}
	return hostID, guestID, oid.Hex()
}

type actionBody struct {
	Data           model.Reservation `json:"data"`
	PartialSuccess bool              `json:"partial_success"`
}

func (e *env) createReservation(t *testing.T, guest *client.ReservationClient, listingID string) model.Reservation {
	t.Helper()
	resp, err := guest.Create(context.Background(), model.BookingRequest{
		ListingID:     listingID,
		StartDate:     time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second),
		DurationUnits: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}
	var body actionBody
	if err := resp.DecodeJSON(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Data
}

func TestReservationLifecycle(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	hostID, guestID, listingID := e.seed(t)
	guest := e.api.As(e.token(t, guestID, model.RoleUser))
	host := e.api.As(e.token(t, hostID, model.RoleUser))

	r := e.createReservation(t, guest, listingID)
	if r.Status != model.StatusPending || r.TotalAmount != 110 {
		t.Fatalf("created = %+v", r)
	}

	resp, err := guest.Approve(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("guest approve status = %d, want 403", resp.StatusCode)
	}

	resp, err = host.Approve(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	resp, err = e.api.ConfirmPayment(ctx, e.webhookSecret, model.PaymentNotification{
		ReservationID: r.ID, Amount: 109.99, PaymentReference: "pay_short",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict || client.ErrorCode(resp) != "PAYMENT_AMOUNT_MISMATCH" {
		t.Errorf("short payment status = %d code = %s", resp.StatusCode, client.ErrorCode(resp))
	}

	resp, err = e.api.ConfirmPayment(ctx, e.webhookSecret, model.PaymentNotification{
		ReservationID: r.ID, Amount: 110, PaymentReference: "pay_exact",
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("payment status = %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	resp, err = guest.GetByID(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Data model.Reservation `json:"data"`
	}
	if err := resp.DecodeJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Data.Status != model.StatusConfirmed || got.Data.PaymentReference != "pay_exact" {
		t.Errorf("after payment = %+v", got.Data)
	}

	resp, err = guest.Receipt(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" {
		t.Errorf("receipt status = %d type = %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestConcurrentHostDecisionsHaveOneWinner(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	hostID, guestID, listingID := e.seed(t)
	guest := e.api.As(e.token(t, guestID, model.RoleUser))
	host := e.api.As(e.token(t, hostID, model.RoleUser))

	r := e.createReservation(t, guest, listingID)

	var wg sync.WaitGroup
	statuses := make([]int, 2)
	for i, action := range []func(context.Context, string) (*client.Response, error){host.Approve, host.Reject} {
		wg.Add(1)
		go func(i int, action func(context.Context, string) (*client.Response, error)) {
			defer wg.Done()
			resp, err := action(ctx, r.ID)
			if err != nil {
				t.Error(err)
				return
			}
			statuses[i] = resp.StatusCode
		}(i, action)
	}
	wg.Wait()

	ok, conflict := 0, 0
	for _, s := range statuses {
		switch s {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	if ok != 1 || conflict != 1 {
		t.Errorf("statuses = %v, want exactly one 200 and one 409", statuses)
	}
}

func TestIdempotentCreate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, guestID, listingID := e.seed(t)
	guest := e.api.As(e.token(t, guestID, model.RoleUser))

	req := model.BookingRequest{ListingID: listingID, StartDate: time.Now().Add(96 * time.Hour).UTC().Truncate(time.Second), DurationUnits: 2}
	key := primitive.NewObjectID().Hex()

	first, err := guest.CreateWithKey(ctx, req, key)
	if err != nil {
		t.Fatal(err)
	}
	second, err := guest.CreateWithKey(ctx, req, key)
	if err != nil {
		t.Fatal(err)
	}
	if first.StatusCode != http.StatusCreated || second.StatusCode != http.StatusCreated {
		t.Fatalf("statuses = %d, %d", first.StatusCode, second.StatusCode)
	}
	if second.Header.Get("Idempotent-Replayed") != "true" {
		t.Error("second create was not replayed")
	}
	if string(first.Body) != string(second.Body) {
		t.Error("replayed body differs")
	}
}
