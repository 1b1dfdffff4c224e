package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/localsight/localsight-platform/internal/appointments"
	"github.com/localsight/localsight-platform/internal/availability"
	"github.com/localsight/localsight-platform/internal/schedule"
	"github.com/localsight/localsight-platform/pkg/logging"
)

type emptySources struct{}

func (emptySources) ActiveSettings(context.Context) (*schedule.Settings, error) {
	return nil, nil
}

func (emptySources) ListOverlapping(context.Context, time.Time, time.Time) ([]appointments.Appointment, error) {
	return nil, nil
}

func (emptySources) ListBlockedDates(context.Context, time.Time, time.Time) ([]schedule.BlockedDate, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, secret string) http.Handler {
	t.Helper()
	src := emptySources{}
	engine, err := availability.NewEngine(availability.EngineConfig{
		Settings:     src,
		Appointments: src,
		BlockedDates: src,
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return New(&Config{
		Logger:              logging.Default(),
		AvailabilityHandler: availability.NewHandler(engine, logging.Default()),
		AdminAuthSecret:     secret,
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAvailabilityIsPublic(t *testing.T) {
	r := newTestRouter(t, "secret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability?start=2026-09-07&end=2026-09-08", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, "secret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/availability/invalidate", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminRoutesAcceptSignedToken(t *testing.T) {
	r := newTestRouter(t, "secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/availability/invalidate", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAdminRoutesDisabledWithoutSecret(t *testing.T) {
	r := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/availability/invalidate", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
