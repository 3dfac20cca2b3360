package filings

import (
	"encoding/json"
	"strings"

	ingestsvc "github.com/jamesdamant/overTheHedge/internal/application/ingest"
	"github.com/jamesdamant/overTheHedge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *ingestsvc.Service
}

// GET /api/v1/filings/latest?cik=&form= — resolve the most recent filing.
func (h *Handlers) Latest(c *fiber.Ctx) error {
	cik := strings.TrimSpace(c.Query("cik"))
	if cik == "" {
		return response.Error(c, "Missing required query parameter: cik", fiber.StatusBadRequest, nil)
	}
	meta, err := h.Service.LatestFiling(c.Context(), cik, c.Query("form"))
	if err != nil {
		return err
	}
	return response.Success(c, "Latest filing located", meta, nil)
}

// GET /api/v1/filings/preview?cik=&form= — fetch and extract the latest
// filing's holdings without storing them.
func (h *Handlers) Preview(c *fiber.Ctx) error {
	cik := strings.TrimSpace(c.Query("cik"))
	if cik == "" {
		return response.Error(c, "Missing required query parameter: cik", fiber.StatusBadRequest, nil)
	}
	meta, err := h.Service.LatestFiling(c.Context(), cik, c.Query("form"))
	if err != nil {
		return err
	}
	rows, err := h.Service.FetchAndExtract(c.Context(), cik, meta)
	if err != nil {
		return err
	}
	return response.Success(c, "Holdings extracted", rows, fiber.Map{
		"metadata": meta,
		"count":    len(rows),
	})
}

// POST /api/v1/ingest — run the full pipeline for a filer.
// Body: { "cik": "1000045", "form": "13F-HR", "mode": "append"|"skip" }.
func (h *Handlers) Ingest(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	cik, _ := body["cik"].(string)
	if strings.TrimSpace(cik) == "" {
		return response.Error(c, "Missing required field: cik", fiber.StatusBadRequest, nil)
	}
	form, _ := body["form"].(string)
	modeStr, _ := body["mode"].(string)
	mode := ingestsvc.Mode(modeStr)
	switch mode {
	case "", ingestsvc.ModeAppend, ingestsvc.ModeSkip:
	default:
		return response.Error(c, "Invalid mode: "+modeStr, fiber.StatusBadRequest, nil)
	}

	summary, err := h.Service.Ingest(c.Context(), strings.TrimSpace(cik), form, mode)
	if err != nil {
		return err
	}
	msg := "Filing ingested"
	if summary.Skipped {
		msg = "Accession already stored, skipped"
	}
	return response.Success(c, msg, summary, nil)
}

// GET /api/v1/runs — the ingestion audit log, newest first.
func (h *Handlers) Runs(c *fiber.Ctx) error {
	runs, err := h.Service.ListRuns(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, "Ingestion runs", runs, fiber.Map{"count": len(runs)})
}
