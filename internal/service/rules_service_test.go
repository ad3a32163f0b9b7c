package service

import (
	"testing"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func activeFounder() *domain.Member {
	return &domain.Member{
		ID:                 1,
		Name:               "Hassan",
		Role:               domain.RoleFounder,
		Status:             domain.MemberStatusActive,
		JoinDate:           time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalContributions: decimal.NewFromInt(20000),
	}
}

func healthySnapshot() domain.FundSnapshot {
	return domain.FundSnapshot{
		FundBalance:      decimal.NewFromInt(50000),
		TotalActiveLoans: decimal.NewFromInt(10000),
	}
}

func hasRule(violations []domain.RuleViolation, ruleID string) bool {
	for _, v := range violations {
		if v.RuleID == ruleID {
			return true
		}
	}
	return false
}

func TestValidateNewMember_Valid(t *testing.T) {
	rules := NewRuleService()

	result := rules.ValidateNewMember("Hassan", domain.RoleFounder, strPtr("hassan@example.com"), strPtr("+212 600-123456"))

	if !result.IsValid {
		t.Errorf("Expected valid result, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateNewMember_NameTooShort(t *testing.T) {
	rules := NewRuleService()

	result := rules.ValidateNewMember(" H ", domain.RoleRegular, nil, nil)

	if result.IsValid {
		t.Error("Expected short name to fail validation")
	}
	if !hasRule(result.Errors, domain.RuleMemberNameLength) {
		t.Errorf("Expected %s error, got %v", domain.RuleMemberNameLength, result.Errors)
	}
}

func TestValidateNewMember_UnknownRole(t *testing.T) {
	rules := NewRuleService()

	result := rules.ValidateNewMember("Hassan", domain.MemberRole("guest"), nil, nil)

	if result.IsValid {
		t.Error("Expected unknown role to fail validation")
	}
	if !hasRule(result.Errors, domain.RuleMemberRoleInvalid) {
		t.Errorf("Expected %s error, got %v", domain.RuleMemberRoleInvalid, result.Errors)
	}
}

func TestValidateNewMember_BadEmail(t *testing.T) {
	rules := NewRuleService()

	result := rules.ValidateNewMember("Hassan", domain.RoleRegular, strPtr("not-an-email"), nil)

	if result.IsValid {
		t.Error("Expected invalid email to fail validation")
	}
	if !hasRule(result.Errors, domain.RuleMemberEmailInvalid) {
		t.Errorf("Expected %s error, got %v", domain.RuleMemberEmailInvalid, result.Errors)
	}
}

func TestValidateNewMember_OddPhoneOnlyWarns(t *testing.T) {
	rules := NewRuleService()

	result := rules.ValidateNewMember("Hassan", domain.RoleRegular, nil, strPtr("call me"))

	if !result.IsValid {
		t.Errorf("Expected phone issue to warn, not block; got errors %v", result.Errors)
	}
	if !hasRule(result.Warnings, domain.RuleMemberPhoneInvalid) {
		t.Errorf("Expected %s warning, got %v", domain.RuleMemberPhoneInvalid, result.Warnings)
	}
}

func TestValidateLoanRequest_Valid(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()

	result := rules.ValidateLoanRequest(activeFounder(), decimal.NewFromInt(5000), 12, healthySnapshot(), settings, false)

	if !result.IsValid {
		t.Errorf("Expected valid result, got errors %v", result.Errors)
	}
}

func TestValidateLoanRequest_InactiveMemberNeverOverridable(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()
	member := activeFounder()
	member.Status = domain.MemberStatusSuspended

	result := rules.ValidateLoanRequest(member, decimal.NewFromInt(5000), 12, healthySnapshot(), settings, true)

	if result.IsValid {
		t.Error("Expected suspended member to be blocked even with override")
	}
	if !hasRule(result.Errors, domain.RuleMemberNotActive) {
		t.Errorf("Expected %s error, got %v", domain.RuleMemberNotActive, result.Errors)
	}
}

func TestValidateLoanRequest_AmountLimitBlocksWithoutOverride(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()
	member := activeFounder()

	result := rules.ValidateLoanRequest(member, decimal.NewFromInt(45000), 12, healthySnapshot(), settings, false)

	if result.IsValid {
		t.Error("Expected amount over the founder ceiling to block")
	}
	if !hasRule(result.Errors, domain.RuleLoanAmountLimit) {
		t.Errorf("Expected %s error, got %v", domain.RuleLoanAmountLimit, result.Errors)
	}
}

func TestValidateLoanRequest_OverrideMovesRulesToWarnings(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()
	member := activeFounder()

	result := rules.ValidateLoanRequest(member, decimal.NewFromInt(45000), 9, healthySnapshot(), settings, true)

	if !result.IsValid {
		t.Fatalf("Expected override to pass, got errors %v", result.Errors)
	}
	if !hasRule(result.Warnings, domain.RuleLoanAmountLimit) {
		t.Errorf("Expected overridden %s in warnings, got %v", domain.RuleLoanAmountLimit, result.Warnings)
	}

	expected := map[string]bool{domain.RuleLoanAmountLimit: false, domain.RuleRepaymentMonths: false}
	for _, rule := range result.OverriddenRules {
		expected[rule] = true
	}
	for rule, seen := range expected {
		if !seen {
			t.Errorf("Expected %s in overridden rules, got %v", rule, result.OverriddenRules)
		}
	}
}

func TestValidateLoanRequest_NegativeAmountBlocks(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()

	result := rules.ValidateLoanRequest(activeFounder(), decimal.NewFromInt(-100), 12, healthySnapshot(), settings, false)

	if result.IsValid {
		t.Error("Expected negative amount to block")
	}
	if !hasRule(result.Errors, domain.RuleLoanAmountPositive) {
		t.Errorf("Expected %s error, got %v", domain.RuleLoanAmountPositive, result.Errors)
	}
}

func TestValidateLoanRequest_UtilizationWarning(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()
	snapshot := domain.FundSnapshot{
		FundBalance:      decimal.NewFromInt(10000),
		TotalActiveLoans: decimal.NewFromInt(4000),
	}

	// (4000 + 3000) / 10000 = 70% crosses the 60% threshold
	result := rules.ValidateLoanRequest(activeFounder(), decimal.NewFromInt(3000), 12, snapshot, settings, false)

	if !result.IsValid {
		t.Fatalf("Expected warning not to block, got errors %v", result.Errors)
	}
	if !hasRule(result.Warnings, domain.RuleUtilizationThreshold) {
		t.Errorf("Expected %s warning, got %v", domain.RuleUtilizationThreshold, result.Warnings)
	}
}

func TestValidateLoanRequest_ForecastsSkippedWhenFundEmpty(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()
	snapshot := domain.FundSnapshot{
		FundBalance:      decimal.Zero,
		TotalActiveLoans: decimal.Zero,
	}

	result := rules.ValidateLoanRequest(activeFounder(), decimal.NewFromInt(3000), 12, snapshot, settings, false)

	if hasRule(result.Warnings, domain.RuleUtilizationThreshold) || hasRule(result.Warnings, domain.RuleMinimumFundBalance) {
		t.Errorf("Expected no forecast warnings on an empty fund, got %v", result.Warnings)
	}
}

func TestValidatePayment_NonPositiveAmount(t *testing.T) {
	rules := NewRuleService()

	result := rules.ValidatePayment(activeFounder(), decimal.Zero, nil, domain.PaymentTypeContribution)

	if result.IsValid {
		t.Error("Expected zero amount to block")
	}
	if !hasRule(result.Errors, domain.RulePaymentAmount) {
		t.Errorf("Expected %s error, got %v", domain.RulePaymentAmount, result.Errors)
	}
}

func TestValidatePayment_LoanMustBelongToPayer(t *testing.T) {
	rules := NewRuleService()
	member := activeFounder()
	loan := &domain.Loan{ID: 7, MemberID: 99, Status: domain.LoanStatusActive, Balance: decimal.NewFromInt(1000)}

	result := rules.ValidatePayment(member, decimal.NewFromInt(100), loan, domain.PaymentTypeLoanRepayment)

	if result.IsValid {
		t.Error("Expected foreign loan to block")
	}
	if !hasRule(result.Errors, domain.RuleLoanOwnership) {
		t.Errorf("Expected %s error, got %v", domain.RuleLoanOwnership, result.Errors)
	}
}

func TestValidatePayment_InactiveLoanBlocks(t *testing.T) {
	rules := NewRuleService()
	member := activeFounder()
	loan := &domain.Loan{ID: 7, MemberID: member.ID, Status: domain.LoanStatusCompleted, Balance: decimal.Zero}

	result := rules.ValidatePayment(member, decimal.NewFromInt(100), loan, domain.PaymentTypeLoanRepayment)

	if result.IsValid {
		t.Error("Expected completed loan to block repayment")
	}
	if !hasRule(result.Errors, domain.RuleLoanNotActive) {
		t.Errorf("Expected %s error, got %v", domain.RuleLoanNotActive, result.Errors)
	}
}

func TestValidatePayment_OverpaymentOnlyWarns(t *testing.T) {
	rules := NewRuleService()
	member := activeFounder()
	loan := &domain.Loan{ID: 7, MemberID: member.ID, Status: domain.LoanStatusActive, Balance: decimal.NewFromInt(500)}

	result := rules.ValidatePayment(member, decimal.NewFromInt(700), loan, domain.PaymentTypeLoanRepayment)

	if !result.IsValid {
		t.Fatalf("Expected overpayment to warn, not block; got errors %v", result.Errors)
	}
	if !hasRule(result.Warnings, domain.RuleAmountExceedsBalance) {
		t.Errorf("Expected %s warning, got %v", domain.RuleAmountExceedsBalance, result.Warnings)
	}
}

func TestValidateCashOut_ActiveMemberBlocked(t *testing.T) {
	rules := NewRuleService()

	result := rules.ValidateCashOut(activeFounder(), 0)

	if result.IsValid {
		t.Error("Expected active member cash-out to block")
	}
	if !hasRule(result.Errors, domain.RuleMemberStillActive) {
		t.Errorf("Expected %s error, got %v", domain.RuleMemberStillActive, result.Errors)
	}
}

func TestValidateCashOut_ActiveLoansBlock(t *testing.T) {
	rules := NewRuleService()
	member := activeFounder()
	member.Status = domain.MemberStatusInactive

	result := rules.ValidateCashOut(member, 2)

	if result.IsValid {
		t.Error("Expected active loans to block cash-out")
	}
	if !hasRule(result.Errors, domain.RuleActiveLoansRemain) {
		t.Errorf("Expected %s error, got %v", domain.RuleActiveLoansRemain, result.Errors)
	}
}

func TestValidateCashOut_Passes(t *testing.T) {
	rules := NewRuleService()
	member := activeFounder()
	member.Status = domain.MemberStatusInactive

	result := rules.ValidateCashOut(member, 0)

	if !result.IsValid {
		t.Errorf("Expected cash-out to pass, got errors %v", result.Errors)
	}
}

func TestValidateInterestApplication_EmptyFundBlocks(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()

	result := rules.ValidateInterestApplication(settings, decimal.Zero)

	if result.IsValid {
		t.Error("Expected zero balance to block interest application")
	}
	if !hasRule(result.Errors, domain.RuleFundBalanceEmpty) {
		t.Errorf("Expected %s error, got %v", domain.RuleFundBalanceEmpty, result.Errors)
	}
}

func TestValidateInterestApplication_RecentApplicationWarns(t *testing.T) {
	rules := NewRuleService()
	settings := domain.DefaultFundSettings()
	recent := time.Now().AddDate(0, -2, 0)
	settings.LastInterestAppliedDate = &recent

	result := rules.ValidateInterestApplication(settings, decimal.NewFromInt(10000))

	if !result.IsValid {
		t.Fatalf("Expected recent application to warn, not block; got errors %v", result.Errors)
	}
	if !hasRule(result.Warnings, domain.RuleInterestTooSoon) {
		t.Errorf("Expected %s warning, got %v", domain.RuleInterestTooSoon, result.Warnings)
	}
}
