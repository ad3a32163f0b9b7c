package handler

import (
	"net/http"

	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// MaintenanceHandler exposes the idempotent data-repair operations
type MaintenanceHandler struct {
	paymentService *service.PaymentService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(paymentService *service.PaymentService) *MaintenanceHandler {
	return &MaintenanceHandler{paymentService: paymentService}
}

// MaintenanceResult reports how many records a pass touched
type MaintenanceResult struct {
	Affected int `json:"affected"`
}

// RepairTransactions handles POST /api/v1/maintenance/repair-transactions
func (h *MaintenanceHandler) RepairTransactions(c echo.Context) error {
	repaired, err := h.paymentService.RepairMissingTransactions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to repair missing transactions")
		return NewInternalError(c, "failed to repair missing transactions")
	}
	log.Info().Int("repaired", repaired).Msg("Transaction repair pass finished")
	return c.JSON(http.StatusOK, MaintenanceResult{Affected: repaired})
}

// ReconcileTransactions handles POST /api/v1/maintenance/reconcile-transactions
func (h *MaintenanceHandler) ReconcileTransactions(c echo.Context) error {
	corrected, err := h.paymentService.ReconcileTransactions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to reconcile transactions")
		return NewInternalError(c, "failed to reconcile transactions")
	}
	log.Info().Int("corrected", corrected).Msg("Transaction reconcile pass finished")
	return c.JSON(http.StatusOK, MaintenanceResult{Affected: corrected})
}

// RecalculateContributions handles POST /api/v1/maintenance/recalculate-contributions
func (h *MaintenanceHandler) RecalculateContributions(c echo.Context) error {
	corrected, err := h.paymentService.RecalculateContributions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to recalculate contributions")
		return NewInternalError(c, "failed to recalculate contributions")
	}
	log.Info().Int("corrected", corrected).Msg("Contribution recalculation pass finished")
	return c.JSON(http.StatusOK, MaintenanceResult{Affected: corrected})
}
