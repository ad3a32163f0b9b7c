package service

import (
	"testing"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCalculateFundBalance_Formula(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(30000)
	member.CashOutAmount = decimal.NewFromInt(2000)

	f.loanRepo.AddLoan(&domain.Loan{
		MemberID: member.ID,
		Amount:   decimal.NewFromInt(8000),
		Balance:  decimal.NewFromInt(8000),
		Status:   domain.LoanStatusActive,
	})
	// Completed loans do not reduce the balance
	f.loanRepo.AddLoan(&domain.Loan{
		MemberID: member.ID,
		Amount:   decimal.NewFromInt(5000),
		Balance:  decimal.Zero,
		Status:   domain.LoanStatusCompleted,
	})

	settings := f.settings.Current()
	settings.ExternalInvestmentRemaining = decimal.NewFromInt(10000)
	settings.TotalInterestApplied = decimal.NewFromInt(1300)
	f.settings.setCurrent(&settings)

	balance, err := f.fund.CalculateFundBalance()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 30000 + 10000 + 1300 - 8000 - 2000
	expected := decimal.NewFromInt(31300)
	if !balance.Equal(expected) {
		t.Errorf("Expected balance %s, got %s", expected.String(), balance.String())
	}
}

func TestCalculateUtilizationPercentage(t *testing.T) {
	f := newFixture(t)
	member := f.seedFounder(20000)

	f.loanRepo.AddLoan(&domain.Loan{
		MemberID: member.ID,
		Amount:   decimal.NewFromInt(5000),
		Balance:  decimal.NewFromInt(5000),
		Status:   domain.LoanStatusActive,
	})

	utilization, err := f.fund.CalculateUtilizationPercentage()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 5000 / (20000 - 5000) = 33.33%
	if !utilization.Equal(dec("33.33")) {
		t.Errorf("Expected utilization 33.33, got %s", utilization.String())
	}
}

func TestCalculateUtilizationPercentage_ZeroWhenFundEmpty(t *testing.T) {
	f := newFixture(t)

	utilization, err := f.fund.CalculateUtilizationPercentage()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !utilization.IsZero() {
		t.Errorf("Expected utilization 0 on an empty fund, got %s", utilization.String())
	}
}

func TestCalculateUtilizationAfterLoan(t *testing.T) {
	f := newFixture(t)
	f.seedFounder(10000)

	utilization, err := f.fund.CalculateUtilizationAfterLoan(decimal.NewFromInt(4000))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// (0 + 4000) / 10000 = 40%
	if !utilization.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected forecast utilization 40, got %s", utilization.String())
	}
}

func TestCalculateUtilizationAfterLoan_ZeroWhenFundEmpty(t *testing.T) {
	f := newFixture(t)

	utilization, err := f.fund.CalculateUtilizationAfterLoan(decimal.NewFromInt(4000))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !utilization.IsZero() {
		t.Errorf("Expected forecast utilization 0 on an empty fund, got %s", utilization.String())
	}
}

func TestSummary_Aggregates(t *testing.T) {
	f := newFixture(t)
	founder := f.seedFounder(20000)
	regular := f.seedRegular(4000, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	regular.Status = domain.MemberStatusInactive

	f.loanRepo.AddLoan(&domain.Loan{
		MemberID: founder.ID,
		Amount:   decimal.NewFromInt(6000),
		Balance:  decimal.NewFromInt(6000),
		Status:   domain.LoanStatusActive,
	})

	summary, err := f.fund.Summary()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.TotalContributions.Equal(decimal.NewFromInt(24000)) {
		t.Errorf("Expected contributions 24000, got %s", summary.TotalContributions.String())
	}
	if !summary.TotalActiveLoans.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("Expected active loans 6000, got %s", summary.TotalActiveLoans.String())
	}
	if !summary.FundBalance.Equal(decimal.NewFromInt(18000)) {
		t.Errorf("Expected balance 18000, got %s", summary.FundBalance.String())
	}
	if summary.ActiveMemberCount != 1 {
		t.Errorf("Expected 1 active member, got %d", summary.ActiveMemberCount)
	}
	if summary.TotalMemberCount != 2 {
		t.Errorf("Expected 2 members, got %d", summary.TotalMemberCount)
	}
	if summary.ActiveLoanCount != 1 {
		t.Errorf("Expected 1 active loan, got %d", summary.ActiveLoanCount)
	}
	// 6000 / 18000 = 33.33%
	if !summary.UtilizationPercentage.Equal(dec("33.33")) {
		t.Errorf("Expected utilization 33.33, got %s", summary.UtilizationPercentage.String())
	}
}
