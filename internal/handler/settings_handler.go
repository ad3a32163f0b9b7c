package handler

import (
	"net/http"

	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SettingsHandler handles fund settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the partial settings update body. Decimals
// travel as strings.
type UpdateSettingsRequest struct {
	MonthlyContribution         *string `json:"monthlyContribution,omitempty"`
	AnnualInterestRate          *string `json:"annualInterestRate,omitempty"`
	UtilizationWarningThreshold *string `json:"utilizationWarningThreshold,omitempty"`
	MinimumFundBalance          *string `json:"minimumFundBalance,omitempty"`
	ExternalInvestmentRemaining *string `json:"externalInvestmentRemaining,omitempty"`
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings := h.settingsService.Current()
	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError(c, "invalid request body")
	}

	var input service.UpdateSettingsInput
	fields := []struct {
		raw    *string
		target **decimal.Decimal
		name   string
	}{
		{req.MonthlyContribution, &input.MonthlyContribution, "monthlyContribution"},
		{req.AnnualInterestRate, &input.AnnualInterestRate, "annualInterestRate"},
		{req.UtilizationWarningThreshold, &input.UtilizationWarningThreshold, "utilizationWarningThreshold"},
		{req.MinimumFundBalance, &input.MinimumFundBalance, "minimumFundBalance"},
		{req.ExternalInvestmentRemaining, &input.ExternalInvestmentRemaining, "externalInvestmentRemaining"},
	}
	for _, f := range fields {
		if f.raw == nil {
			continue
		}
		value, err := decimal.NewFromString(*f.raw)
		if err != nil || value.IsNegative() {
			return NewBadRequestError(c, f.name+" must be a non-negative decimal string")
		}
		*f.target = &value
	}

	settings, err := h.settingsService.Update(input)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update settings")
		return NewInternalError(c, "failed to update settings")
	}
	return c.JSON(http.StatusOK, settings)
}
