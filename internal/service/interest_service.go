package service

import (
	"fmt"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/events"
	"github.com/shopspring/decimal"
)

// InterestService applies the external investment's annual return to the
// fund, layered on the fund ledger
type InterestService struct {
	settings        *SettingsService
	settingsRepo    domain.SettingsRepository
	fund            *FundService
	rules           *RuleService
	transactionRepo domain.TransactionRepository
	txm             domain.TxManager
	guard           *WriteGuard
	eventPublisher  events.Publisher
}

// NewInterestService creates a new InterestService
func NewInterestService(settings *SettingsService, settingsRepo domain.SettingsRepository, fund *FundService, rules *RuleService, transactionRepo domain.TransactionRepository, txm domain.TxManager, guard *WriteGuard) *InterestService {
	return &InterestService{
		settings:        settings,
		settingsRepo:    settingsRepo,
		fund:            fund,
		rules:           rules,
		transactionRepo: transactionRepo,
		txm:             txm,
		guard:           guard,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *InterestService) SetEventPublisher(publisher events.Publisher) {
	s.eventPublisher = publisher
}

func (s *InterestService) publishEvent(event events.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// PreviewInterest returns the interest that would be applied right now
func (s *InterestService) PreviewInterest() (decimal.Decimal, domain.ValidationResult, error) {
	balance, err := s.fund.CalculateFundBalance()
	if err != nil {
		return decimal.Zero, domain.ValidationResult{}, err
	}

	settings := s.settings.Current()
	result := s.rules.ValidateInterestApplication(&settings, balance)
	return balance.Mul(settings.AnnualInterestRate).Round(2), result, nil
}

// ApplyAnnualInterest applies fundBalance × annualInterestRate to the fund:
// it bumps the applied-interest total, stamps the application date and
// appends a fund-level ledger entry, all in one unit of work.
func (s *InterestService) ApplyAnnualInterest() (*domain.Transaction, domain.ValidationResult, error) {
	s.guard.Lock()
	defer s.guard.Unlock()

	balance, err := s.fund.CalculateFundBalance()
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	settings := s.settings.Current()
	result := s.rules.ValidateInterestApplication(&settings, balance)
	if !result.IsValid {
		return nil, result, nil
	}

	interest := balance.Mul(settings.AnnualInterestRate).Round(2)
	now := time.Now()

	settings.TotalInterestApplied = settings.TotalInterestApplied.Add(interest)
	settings.LastInterestAppliedDate = &now

	var entry *domain.Transaction
	var updated *domain.FundSettings
	err = s.txm.WithinTx(func(tx interface{}) error {
		var txErr error
		updated, txErr = s.settingsRepo.UpdateTx(tx, &settings)
		if txErr != nil {
			return txErr
		}

		entry, txErr = s.transactionRepo.CreateTx(tx, &domain.Transaction{
			Amount:          interest,
			Type:            domain.TransactionTypeInterestApplied,
			BalanceSnapshot: balance.Add(interest),
			Description:     fmt.Sprintf("Annual interest of %s applied at %s%%", interest.StringFixed(2), settings.AnnualInterestRate.Mul(hundred).StringFixed(2)),
			OccurredAt:      now,
		})
		return txErr
	})
	if err != nil {
		return nil, result, err
	}

	s.settings.setCurrent(updated)
	s.publishEvent(events.InterestApplied(entry))

	return entry, result, nil
}

// InterestDue reports whether a full year has passed since the last
// application (or none was ever applied) while the fund holds a positive
// balance. The scheduler polls this; application itself stays a manual
// admin action.
func (s *InterestService) InterestDue() (bool, error) {
	balance, err := s.fund.CalculateFundBalance()
	if err != nil {
		return false, err
	}
	if balance.LessThanOrEqual(decimal.Zero) {
		return false, nil
	}

	settings := s.settings.Current()
	if settings.LastInterestAppliedDate == nil {
		return true, nil
	}
	return time.Since(*settings.LastInterestAppliedDate) >= 365*24*time.Hour, nil
}
