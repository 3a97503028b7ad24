package routing

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 5 * time.Second

type HealthHandler struct {
	db    Pinger
	cache Pinger
	log   *logrus.Logger
}

func NewHealthHandler(db, cache Pinger, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
		log:   log,
	}
}

func (h *HealthHandler) writeStatus(w http.ResponseWriter, service string, err error) {
	if err != nil {
		h.log.WithField("service", service).WithError(err).Error("health check failed")
		writeError(w, http.StatusInternalServerError, "Service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "service": service})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	err := h.db.Ping(ctx)
	if err == nil {
		err = h.cache.Ping(ctx)
	}
	h.writeStatus(w, "All", err)
}

func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	h.writeStatus(w, "PostgresSQL", h.db.Ping(ctx))
}

func (h *HealthHandler) Redis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	h.writeStatus(w, "REDIS", h.cache.Ping(ctx))
}
