package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthResponse is the healthz payload.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// Healthz reports liveness. The pipeline holds no external dependencies, so
// a running process is a healthy one.
func Healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{Status: "ok", Time: time.Now().UTC()})
}
