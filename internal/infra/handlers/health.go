package handlers

import (
	"fmt"
	"net/http"
)

type HealthHandler struct {
	DirectoryReady bool
	AIReady        bool
}

func NewHealthHandler(directoryReady, aiReady bool) *HealthHandler {
	return &HealthHandler{DirectoryReady: directoryReady, AIReady: aiReady}
}

func (th *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if th.DirectoryReady && th.AIReady {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "DEGRADED: directory=%t ai=%t", th.DirectoryReady, th.AIReady)
}
