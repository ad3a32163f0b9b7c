package service

import (
	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FundService is the fund ledger: it derives the fund balance and
// utilization from current entity state and exposes the aggregate summary
// reporting collaborators consume.
type FundService struct {
	memberRepo domain.MemberRepository
	loanRepo   domain.LoanRepository
	settings   *SettingsService
}

// NewFundService creates a new FundService
func NewFundService(memberRepo domain.MemberRepository, loanRepo domain.LoanRepository, settings *SettingsService) *FundService {
	return &FundService{
		memberRepo: memberRepo,
		loanRepo:   loanRepo,
		settings:   settings,
	}
}

// CalculateFundBalance computes
// contributions + external investment + applied interest − active loan balances − cash-outs
func (s *FundService) CalculateFundBalance() (decimal.Decimal, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return decimal.Zero, err
	}
	return snapshot.FundBalance, nil
}

// Snapshot reads the aggregates validation depends on in one pass
func (s *FundService) Snapshot() (domain.FundSnapshot, error) {
	contributions, err := s.memberRepo.SumContributions()
	if err != nil {
		return domain.FundSnapshot{}, err
	}
	cashOuts, err := s.memberRepo.SumCashOuts()
	if err != nil {
		return domain.FundSnapshot{}, err
	}
	activeLoans, err := s.loanRepo.SumActiveBalances()
	if err != nil {
		return domain.FundSnapshot{}, err
	}

	settings := s.settings.Current()
	balance := contributions.
		Add(settings.ExternalInvestmentRemaining).
		Add(settings.TotalInterestApplied).
		Sub(activeLoans).
		Sub(cashOuts)

	return domain.FundSnapshot{
		FundBalance:      balance,
		TotalActiveLoans: activeLoans,
	}, nil
}

// CalculateUtilizationPercentage returns the share of the fund currently out
// on active loans, as a percentage. The denominator is the current fund
// balance, used uniformly for every utilization figure; a non-positive
// balance yields 0 rather than a division error.
func (s *FundService) CalculateUtilizationPercentage() (decimal.Decimal, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return decimal.Zero, err
	}
	return utilization(snapshot.TotalActiveLoans, snapshot.FundBalance), nil
}

// CalculateUtilizationAfterLoan forecasts utilization as if amount were
// added to the outstanding loans, under the same zero-balance guard
func (s *FundService) CalculateUtilizationAfterLoan(amount decimal.Decimal) (decimal.Decimal, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return decimal.Zero, err
	}
	return utilization(snapshot.TotalActiveLoans.Add(amount), snapshot.FundBalance), nil
}

// Summary builds the full aggregate view of the fund
func (s *FundService) Summary() (*domain.FundSummary, error) {
	contributions, err := s.memberRepo.SumContributions()
	if err != nil {
		return nil, err
	}
	cashOuts, err := s.memberRepo.SumCashOuts()
	if err != nil {
		return nil, err
	}
	activeLoans, err := s.loanRepo.SumActiveBalances()
	if err != nil {
		return nil, err
	}
	activeMembers, err := s.memberRepo.CountByStatus(domain.MemberStatusActive)
	if err != nil {
		return nil, err
	}
	totalMembers, err := s.memberRepo.CountAll()
	if err != nil {
		return nil, err
	}
	activeLoanCount, err := s.loanRepo.CountActive()
	if err != nil {
		return nil, err
	}

	settings := s.settings.Current()
	balance := contributions.
		Add(settings.ExternalInvestmentRemaining).
		Add(settings.TotalInterestApplied).
		Sub(activeLoans).
		Sub(cashOuts)

	return &domain.FundSummary{
		TotalContributions:          contributions,
		ExternalInvestmentRemaining: settings.ExternalInvestmentRemaining,
		TotalInterestApplied:        settings.TotalInterestApplied,
		TotalActiveLoans:            activeLoans,
		TotalCashedOut:              cashOuts,
		FundBalance:                 balance,
		UtilizationPercentage:       utilization(activeLoans, balance),
		ActiveMemberCount:           activeMembers,
		TotalMemberCount:            totalMembers,
		ActiveLoanCount:             activeLoanCount,
	}, nil
}

// utilization computes outstanding/balance as a percentage rounded to two
// decimals, returning 0 when the balance is not positive
func utilization(outstanding, balance decimal.Decimal) decimal.Decimal {
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return outstanding.Div(balance).Mul(hundred).Round(2)
}
