package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
)

type rejectAll struct{}

func (rejectAll) Verify(string) (uuid.UUID, error) { return uuid.Nil, models.ErrNotAuthenticated }

func testHandlers() Handlers {
	return Handlers{
		Herd:      handlers.NewHerdHandler(nil, nil),
		Alerts:    handlers.NewAlertHandler(nil, nil),
		Milk:      handlers.NewMilkHandler(nil, nil, nil),
		Finance:   handlers.NewFinanceHandler(nil, nil, nil),
		Dashboard: handlers.NewDashboardHandler(nil, nil),
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	r := New(testHandlers(), rejectAll{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_APIRequiresToken(t *testing.T) {
	r := New(testHandlers(), rejectAll{}, nil)

	for _, path := range []string{"/api/animals", "/api/alerts", "/api/milk", "/api/finance", "/api/dashboard"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_WebhookOnlyWhenConfigured(t *testing.T) {
	r := New(testHandlers(), rejectAll{}, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
