package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrSettingsNotFound = errors.New("fund settings not found")

// FundSettings is the singleton configuration row every business constant
// flows from. It is fetched-or-created once at startup.
type FundSettings struct {
	ID                          int32           `json:"id"`
	MonthlyContribution         decimal.Decimal `json:"monthlyContribution"`
	AnnualInterestRate          decimal.Decimal `json:"annualInterestRate"`
	UtilizationWarningThreshold decimal.Decimal `json:"utilizationWarningThreshold"`
	MinimumFundBalance          decimal.Decimal `json:"minimumFundBalance"`
	ExternalInvestmentRemaining decimal.Decimal `json:"externalInvestmentRemaining"`
	TotalInterestApplied        decimal.Decimal `json:"totalInterestApplied"`
	LastInterestAppliedDate     *time.Time      `json:"lastInterestAppliedDate,omitempty"`
	UpdatedAt                   time.Time       `json:"updatedAt"`
}

// DefaultFundSettings returns the safe defaults used when no settings row exists yet
func DefaultFundSettings() *FundSettings {
	return &FundSettings{
		MonthlyContribution:         decimal.NewFromInt(200),
		AnnualInterestRate:          decimal.NewFromFloat(0.13),
		UtilizationWarningThreshold: decimal.NewFromFloat(0.60),
		MinimumFundBalance:          decimal.Zero,
		ExternalInvestmentRemaining: decimal.Zero,
		TotalInterestApplied:        decimal.Zero,
	}
}

type SettingsRepository interface {
	GetOrCreate() (*FundSettings, error)
	Update(settings *FundSettings) (*FundSettings, error)
	UpdateTx(tx interface{}, settings *FundSettings) (*FundSettings, error)
}
