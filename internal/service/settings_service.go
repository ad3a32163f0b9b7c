package service

import (
	"sync"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SettingsService owns the FundSettings singleton. The row is
// fetched-or-created once at startup and cached; every business constant
// flows from here, never from literals in rule logic.
type SettingsService struct {
	repo    domain.SettingsRepository
	mu      sync.RWMutex
	current *domain.FundSettings
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo domain.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Load fetches or creates the settings row and primes the cache
func (s *SettingsService) Load() error {
	settings, err := s.repo.GetOrCreate()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the cached settings
func (s *SettingsService) Current() domain.FundSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.current
}

// UpdateSettingsInput contains the updatable settings fields
type UpdateSettingsInput struct {
	MonthlyContribution         *decimal.Decimal
	AnnualInterestRate          *decimal.Decimal
	UtilizationWarningThreshold *decimal.Decimal
	MinimumFundBalance          *decimal.Decimal
	ExternalInvestmentRemaining *decimal.Decimal
}

// Update applies partial changes to the settings row and refreshes the cache
func (s *SettingsService) Update(input UpdateSettingsInput) (*domain.FundSettings, error) {
	settings := s.Current()

	if input.MonthlyContribution != nil {
		settings.MonthlyContribution = *input.MonthlyContribution
	}
	if input.AnnualInterestRate != nil {
		settings.AnnualInterestRate = *input.AnnualInterestRate
	}
	if input.UtilizationWarningThreshold != nil {
		settings.UtilizationWarningThreshold = *input.UtilizationWarningThreshold
	}
	if input.MinimumFundBalance != nil {
		settings.MinimumFundBalance = *input.MinimumFundBalance
	}
	if input.ExternalInvestmentRemaining != nil {
		settings.ExternalInvestmentRemaining = *input.ExternalInvestmentRemaining
	}

	updated, err := s.repo.Update(&settings)
	if err != nil {
		return nil, err
	}
	s.setCurrent(updated)
	return updated, nil
}

// setCurrent replaces the cached settings after a committed write
func (s *SettingsService) setCurrent(settings *domain.FundSettings) {
	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
}
