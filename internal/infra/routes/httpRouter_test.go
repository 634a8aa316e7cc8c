package routes

import (
	"clinic-connector/internal/domain/entities"
	"clinic-connector/internal/infra/handlers"
	"clinic-connector/internal/infra/logger"
	"clinic-connector/internal/infra/worker"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type noopRouter struct{}

func (noopRouter) HandleMessage(ctx context.Context, msg entities.InboundMessage) {}

type noopQueue struct{}

func (noopQueue) Enqueue(job worker.Job) bool { return true }

func newTestMux() *mux.Router {
	m := mux.NewRouter()
	NewRoutes(m,
		handlers.NewHttpHandlers(logger.Discard(), "secret", noopRouter{}, noopQueue{}),
		handlers.NewHealthHandler(true, false),
	).Init()
	return m
}

func TestRoutesServeWebhookOnBothPaths(t *testing.T) {
	m := newTestMux()

	for _, path := range []string{"/webhook", "/"} {
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path+"?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=abc", nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "abc", rec.Body.String(), path)

		rec = httptest.NewRecorder()
		m.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`)))
		assert.Equal(t, "EVENT_RECEIVED", rec.Body.String(), path)
	}
}

func TestRoutesHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "DEGRADED: directory=true ai=false", rec.Body.String())
}
