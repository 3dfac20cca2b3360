package holdings

import (
	"strings"

	holdsvc "github.com/jamesdamant/overTheHedge/internal/application/holdings"
	"github.com/jamesdamant/overTheHedge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *holdsvc.Service
}

// GET /api/v1/holdings — every stored holding.
func (h *Handlers) All(c *fiber.Ctx) error {
	rows, err := h.Service.SelectAll(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Holdings", rows, fiber.Map{"count": len(rows)})
}

// GET /api/v1/holdings/filter?column=&value= — equality filter on one
// allow-listed column.
func (h *Handlers) Filter(c *fiber.Ctx) error {
	column := strings.TrimSpace(c.Query("column"))
	if column == "" {
		return response.Error(c, "Missing required query parameter: column", fiber.StatusBadRequest, nil)
	}
	if !c.Context().QueryArgs().Has("value") {
		return response.Error(c, "Missing required query parameter: value", fiber.StatusBadRequest, nil)
	}
	rows, err := h.Service.SelectWhere(c.Context(), column, c.Query("value"))
	if err != nil {
		return err
	}
	return response.Success(c, "Holdings", rows, fiber.Map{"count": len(rows)})
}

// GET /api/v1/holdings/count — total stored rows.
func (h *Handlers) Count(c *fiber.Ctx) error {
	n, err := h.Service.Count(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Holdings count", fiber.Map{"count": n}, nil)
}
