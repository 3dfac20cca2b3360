package middleware

import (
	"errors"

	"github.com/jamesdamant/overTheHedge/internal/application/holdings"
	"github.com/jamesdamant/overTheHedge/internal/application/ingest"
	"github.com/jamesdamant/overTheHedge/internal/edgar"
	"github.com/jamesdamant/overTheHedge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Pipeline errors map to statuses
// by their sentinel, and the failing stage (when known) goes into details so
// callers always learn which step broke and why.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	details := map[string]interface{}{}

	switch {
	case errors.Is(err, edgar.ErrInvalidCIK), errors.Is(err, holdings.ErrInvalidColumn):
		code = fiber.StatusBadRequest
	case errors.Is(err, edgar.ErrNoFiling):
		code = fiber.StatusNotFound
	case errors.Is(err, edgar.ErrMalformedDocument), errors.Is(err, edgar.ErrSourceUnavailable):
		code = fiber.StatusBadGateway
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			message = "Internal Server Error"
		}
	}

	var se *ingest.StageError
	if errors.As(err, &se) {
		details["stage"] = se.Stage
	}

	return response.Error(c, message, code, details)
}
