package compare

import (
	"errors"

	"tablecompare/core/logger"
	"tablecompare/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/compare", h.HandleCompare)
}

// HandleCompare runs a comparison.
// @Summary Compare Two Sources
// @Description Compares two tabular sources (s3 objects, queries, tables and, when enabled, local files) and returns the reconciliation report. Both sources must be sorted by the key columns.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body Request true "Comparison request"
// @Success 200 {object} Result "Comparison result"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Source not allowed"
// @Failure 422 {object} map[string]string "Source unavailable or not sorted"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare [post]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "details": err.Error()})
	}

	res, err := h.service.Run(c.UserContext(), req)
	if err != nil {
		status := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			l.Error("Comparison failed", zap.Error(err))
		} else {
			l.Warn("Comparison rejected", zap.Int("status", status), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Comparison completed",
		zap.String("run_id", res.RunID),
		zap.Int64("failures", res.Report.FailureCount()))
	return c.JSON(res)
}

func statusFor(err error) int {
	var (
		invalid  *InvalidRequestError
		unsorted *reconcile.UnsortedInputError
		keyCol   *reconcile.KeyColumnError
	)
	switch {
	case errors.Is(err, ErrUntrustedSource):
		return fiber.StatusForbidden
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrSourceUnavailable),
		errors.As(err, &unsorted),
		errors.As(err, &keyCol):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
