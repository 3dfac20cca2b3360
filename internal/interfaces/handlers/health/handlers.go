package health

import (
	"github.com/jamesdamant/overTheHedge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Pinger abstracts the DB connection check so tests can stub it.
type Pinger interface {
	Ping() error
}

type Handlers struct {
	DB  Pinger
	Rdb *redis.Client
}

// GET /health/json — liveness plus dependency status.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	db := "not configured"
	if h.DB != nil {
		db = "connected"
		if err := h.DB.Ping(); err != nil {
			db = "error: " + err.Error()
		}
	}
	cache := "not configured"
	if h.Rdb != nil {
		cache = "connected"
		if err := h.Rdb.Ping(c.Context()).Err(); err != nil {
			cache = "error: " + err.Error()
		}
	}
	return response.Success(c, "ok", fiber.Map{
		"database": db,
		"cache":    cache,
	}, nil)
}
