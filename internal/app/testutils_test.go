package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/booking"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/metinatakli/movie-reservation-core/internal/holdstore"
	"github.com/metinatakli/movie-reservation-core/internal/repository"
	"github.com/metinatakli/movie-reservation-core/internal/validator"
	"github.com/shopspring/decimal"
)

var (
	testNow = time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	testShowID = uuid.MustParse("5c8e6c1e-2f1a-4d7e-9d0b-6a4f2d1c9e01")
	popcornID  = uuid.MustParse("7f1d6a3e-4c1b-4c55-9a55-0e6f4c1a0a01")
	reclinerID = uuid.MustParse("7f1d6a3e-4c1b-4c55-9a55-0e6f4c1a0a05")
)

func testClock() time.Time {
	return testNow
}

// testDeps are the in-memory backends behind a test application.
type testDeps struct {
	ledger *repository.MemoryLedger
	holds  *holdstore.MemoryStore
}

func newTestApplication(opts ...func(*application)) (*application, *testDeps) {
	deps := &testDeps{
		ledger: repository.NewMemoryLedger(),
		holds:  holdstore.NewMemoryStore(testClock),
	}

	app := &application{
		config: config{
			env:                 "test",
			ledger:              ledgerMemory,
			lockStore:           lockStoreMemory,
			trustIdentityHeader: true,
		},
		validator:      validator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		ledger:         deps.ledger,
		addOnRepo:      deps.ledger,
		holds:          deps.holds,
	}

	app.coordinator = booking.NewCoordinator(app.ledger, app.holds, nil, app.logger, booking.WithClock(testClock))
	app.projector = booking.NewProjector(app.ledger, app.holds, app.logger)

	for _, opt := range opts {
		opt(app)
	}

	return app, deps
}

// seedShow creates a single-row show A1..A<seats> with every seat at 10 and
// the popcorn and recliner add-ons.
func (d *testDeps) seedShow(seats int) *domain.Show {
	prices := domain.TierPrices{
		Standard: decimal.NewFromInt(10),
		Premium:  decimal.NewFromInt(10),
		VIP:      decimal.NewFromInt(10),
	}

	show := domain.NewShow("Heat", "Hall 1", testNow.Add(2*time.Hour), 1, seats, prices)
	show.ID = testShowID
	show.CreatedAt = testNow

	if err := d.ledger.CreateShow(context.Background(), show); err != nil {
		panic(err)
	}

	d.ledger.AddAddOn(domain.AddOn{
		ID:          popcornID,
		Name:        "Popcorn",
		Description: "Large salted popcorn",
		Category:    domain.AddOnCategoryFood,
		Price:       decimal.NewFromInt(5),
		Available:   true,
	})
	d.ledger.AddAddOn(domain.AddOn{
		ID:       reclinerID,
		Name:     "Recliner Upgrade",
		Category: domain.AddOnCategoryUpgrade,
		Price:    decimal.NewFromInt(8),
	})

	return show
}

func setupTestSession(t *testing.T, app *application, r *http.Request, userId string) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "session")
	if err != nil {
		t.Errorf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyUserId.String(), userId)

	return r.WithContext(ctx)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader

	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// serve runs the request through the full router, as requesterID when set.
func serve(app *application, w *httptest.ResponseRecorder, r *http.Request, requesterID string) {
	if requesterID != "" {
		r.Header.Set(requesterIDHeader, requesterID)
	}

	app.routes().ServeHTTP(w, r)
}

type errorCase struct {
	wantStatus     int
	wantErrMessage string
}

// checkErrorResponse decodes a validation body when wantErrMessage is a field
// issue and a plain error body otherwise.
func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt errorCase) {
	t.Helper()

	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	body := w.Body.Bytes()

	var errorResp api.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if errorResp.Message == ErrFailedValidation {
		var validationResp api.ValidationErrorResponse
		if err := json.Unmarshal(body, &validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if tt.wantErrMessage != "" && !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

		return
	}

	if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
		t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
	}
}

func ptr[T any](v T) *T {
	return &v
}
