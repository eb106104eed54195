// File: internal/handlers/health_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/lexisg/go-lexi/internal/services/engine"
)

type HealthHandler struct {
	db     *gorm.DB
	engine engine.Provider
}

func NewHealthHandler(db *gorm.DB, provider engine.Provider) *HealthHandler {
	return &HealthHandler{db: db, engine: provider}
}

// Check reports storage and engine health. A degraded engine still returns
// 200: conversations remain readable even when asks would fail.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{
		"status":  "ok",
		"storage": "ok",
		"engine":  "ok",
	}
	code := http.StatusOK

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		status["status"] = "degraded"
		status["storage"] = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if err := h.engine.HealthCheck(ctx); err != nil {
		status["status"] = "degraded"
		status["engine"] = "unavailable"
	}

	writeJSON(w, code, status)
}
