package routes

import (
	"clinic-connector/internal/infra/handlers"
	"net/http"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux           *mux.Router
	HttpHandler   *handlers.HttpHandlers
	HealthHandler *handlers.HealthHandler
}

func NewRoutes(mux *mux.Router, httpHandler *handlers.HttpHandlers, healthHandler *handlers.HealthHandler) *Routes {
	return &Routes{mux, httpHandler, healthHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/healthCheck", r.HealthHandler.HealthCheck).Methods(http.MethodGet)

	for _, path := range []string{"/webhook", "/"} {
		r.Mux.HandleFunc(path, r.HttpHandler.MetaWebhook).Methods(http.MethodGet, http.MethodPost)
	}
}
