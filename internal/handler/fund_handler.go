package handler

import (
	"net/http"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// FundHandler handles fund-level HTTP requests: summary, ledger and the
// annual interest application
type FundHandler struct {
	fundService     *service.FundService
	interestService *service.InterestService
	reportService   *service.ReportService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(fundService *service.FundService, interestService *service.InterestService, reportService *service.ReportService) *FundHandler {
	return &FundHandler{
		fundService:     fundService,
		interestService: interestService,
		reportService:   reportService,
	}
}

// InterestPreviewResponse carries the interest that an application right now
// would add, plus any validation warnings
type InterestPreviewResponse struct {
	Interest string                 `json:"interest"`
	Warnings []domain.RuleViolation `json:"warnings"`
	Errors   []domain.RuleViolation `json:"errors"`
}

// GetSummary handles GET /api/v1/fund/summary
func (h *FundHandler) GetSummary(c echo.Context) error {
	summary, err := h.fundService.Summary()
	if err != nil {
		log.Error().Err(err).Msg("Failed to build fund summary")
		return NewInternalError(c, "failed to build fund summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// GetSnapshot handles GET /api/v1/fund/snapshot
func (h *FundHandler) GetSnapshot(c echo.Context) error {
	snapshot, err := h.fundService.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read fund snapshot")
		return NewInternalError(c, "failed to read fund snapshot")
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetTransactions handles GET /api/v1/fund/transactions
func (h *FundHandler) GetTransactions(c echo.Context) error {
	transactions, err := h.reportService.Transactions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list transactions")
		return NewInternalError(c, "failed to list transactions")
	}
	return c.JSON(http.StatusOK, transactions)
}

// PreviewInterest handles GET /api/v1/fund/interest/preview
func (h *FundHandler) PreviewInterest(c echo.Context) error {
	interest, result, err := h.interestService.PreviewInterest()
	if err != nil {
		log.Error().Err(err).Msg("Failed to preview interest")
		return NewInternalError(c, "failed to preview interest")
	}
	return c.JSON(http.StatusOK, InterestPreviewResponse{
		Interest: interest.StringFixed(2),
		Warnings: result.Warnings,
		Errors:   result.Errors,
	})
}

// ApplyInterest handles POST /api/v1/fund/interest/apply
func (h *FundHandler) ApplyInterest(c echo.Context) error {
	entry, result, err := h.interestService.ApplyAnnualInterest()
	if err != nil {
		log.Error().Err(err).Msg("Failed to apply annual interest")
		return NewInternalError(c, "failed to apply annual interest")
	}
	if !result.IsValid {
		return NewValidationFailed(c, result)
	}
	return c.JSON(http.StatusCreated, entry)
}
