package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// RuleService is the business rule validator. Every method is read-only,
// returns a structured result and never fails: blocking rules land in
// Errors, informative ones in Warnings, and relaxed blocking rules in
// Warnings plus OverriddenRules.
type RuleService struct{}

// NewRuleService creates a new RuleService
func NewRuleService() *RuleService {
	return &RuleService{}
}

// ValidateNewMember checks a member registration request
func (s *RuleService) ValidateNewMember(name string, role domain.MemberRole, email, phone *string) domain.ValidationResult {
	result := domain.NewValidationResult()

	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		result.AddError(domain.RuleMemberNameLength, "member name must be at least 2 characters")
	}

	if !role.Valid() {
		result.AddError(domain.RuleMemberRoleInvalid, fmt.Sprintf("unknown member role %q", role))
	}

	if email != nil && *email != "" {
		if _, err := mail.ParseAddress(*email); err != nil {
			result.AddError(domain.RuleMemberEmailInvalid, fmt.Sprintf("email %q is not a valid address", *email))
		}
	}

	if phone != nil && *phone != "" && !plausiblePhone(*phone) {
		result.AddWarning(domain.RuleMemberPhoneInvalid, fmt.Sprintf("phone %q does not look like a phone number", *phone))
	}

	return result
}

// ValidateLoanRequest checks a loan request against role policy and fund
// health. The member-active rule is hard and never overridable; tenure,
// amount limit and repayment period are policy rules an admin may relax
// with adminOverride, which records them in OverriddenRules. Utilization
// and minimum-balance forecasts are always non-blocking warnings.
func (s *RuleService) ValidateLoanRequest(member *domain.Member, amount decimal.Decimal, repaymentMonths int32, snapshot domain.FundSnapshot, settings *domain.FundSettings, adminOverride bool) domain.ValidationResult {
	result := domain.NewValidationResult()

	if member.Status != domain.MemberStatusActive {
		result.AddError(domain.RuleMemberNotActive, fmt.Sprintf("member %s is %s; only active members can receive loans", member.Name, member.Status))
	}

	minTenure := MinimumTenureMonths(member.Role)
	if member.TenureMonths(time.Now()) < minTenure {
		result.AddOverridable(domain.RuleMinimumTenure,
			fmt.Sprintf("member has not reached the %d month minimum tenure for role %s", minTenure, member.Role),
			adminOverride)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		result.AddError(domain.RuleLoanAmountPositive, "loan amount must be positive")
	} else {
		maxAmount := MaximumLoanAmount(member)
		if amount.GreaterThan(maxAmount) {
			result.AddOverridable(domain.RuleLoanAmountLimit,
				fmt.Sprintf("requested amount %s exceeds the member limit of %s", amount.StringFixed(2), maxAmount.StringFixed(2)),
				adminOverride)
		}
	}

	if !containsMonths(AllowedRepaymentMonths(member), repaymentMonths) {
		result.AddOverridable(domain.RuleRepaymentMonths,
			fmt.Sprintf("%d months is not an allowed repayment period for this member", repaymentMonths),
			adminOverride)
	}

	// Forecast warnings only make sense when there is capital to lend
	if snapshot.FundBalance.LessThanOrEqual(decimal.Zero) {
		return result
	}

	forecast := snapshot.TotalActiveLoans.Add(amount).Div(snapshot.FundBalance)
	if forecast.GreaterThanOrEqual(settings.UtilizationWarningThreshold) {
		result.AddWarning(domain.RuleUtilizationThreshold,
			fmt.Sprintf("utilization would reach %s%% of the fund", forecast.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}
	if snapshot.FundBalance.Sub(amount).LessThan(settings.MinimumFundBalance) {
		result.AddWarning(domain.RuleMinimumFundBalance,
			fmt.Sprintf("fund balance would drop below the %s minimum", settings.MinimumFundBalance.StringFixed(2)))
	}

	return result
}

// ValidatePayment checks a payment before it is processed
func (s *RuleService) ValidatePayment(member *domain.Member, amount decimal.Decimal, loan *domain.Loan, paymentType domain.PaymentType) domain.ValidationResult {
	result := domain.NewValidationResult()

	if amount.LessThanOrEqual(decimal.Zero) {
		result.AddError(domain.RulePaymentAmount, "payment amount must be positive")
	}

	if paymentType == domain.PaymentTypeLoanRepayment && loan == nil {
		result.AddError(domain.RuleLoanRequired, "a loan repayment requires a loan to repay")
	}

	if loan != nil {
		if loan.Status != domain.LoanStatusActive {
			result.AddError(domain.RuleLoanNotActive, "cannot record a repayment against a loan that is not active")
		}
		if loan.MemberID != member.ID {
			result.AddError(domain.RuleLoanOwnership, "loan does not belong to the paying member")
		}
		if loan.Status == domain.LoanStatusActive && amount.GreaterThan(loan.Balance) {
			result.AddWarning(domain.RuleAmountExceedsBalance,
				fmt.Sprintf("amount %s exceeds the remaining loan balance of %s", amount.StringFixed(2), loan.Balance.StringFixed(2)))
		}
	}

	if member.Status == domain.MemberStatusSuspended {
		result.AddWarning(domain.RuleMemberSuspended, "member is suspended; payment will still be recorded")
	}

	return result
}

// ValidateCashOut checks whether a member may withdraw their contributions
func (s *RuleService) ValidateCashOut(member *domain.Member, activeLoanCount int64) domain.ValidationResult {
	result := domain.NewValidationResult()

	if member.Status == domain.MemberStatusActive {
		result.AddError(domain.RuleMemberStillActive, "active members cannot cash out; suspend or deactivate the member first")
	}
	if activeLoanCount > 0 {
		result.AddError(domain.RuleActiveLoansRemain, fmt.Sprintf("member still has %d active loan(s)", activeLoanCount))
	}
	if member.TotalContributions.LessThanOrEqual(decimal.Zero) {
		result.AddError(domain.RuleNoContributions, "member has no contributions to cash out")
	}
	if member.CashOutAmount.GreaterThan(decimal.Zero) {
		result.AddWarning(domain.RuleCashOutRecorded,
			fmt.Sprintf("a cash-out of %s is already recorded for this member", member.CashOutAmount.StringFixed(2)))
	}

	return result
}

// ValidateInterestApplication checks whether annual interest may be applied
func (s *RuleService) ValidateInterestApplication(settings *domain.FundSettings, fundBalance decimal.Decimal) domain.ValidationResult {
	result := domain.NewValidationResult()

	if fundBalance.LessThanOrEqual(decimal.Zero) {
		result.AddError(domain.RuleFundBalanceEmpty, "fund balance must be positive to apply interest")
	}

	if settings.LastInterestAppliedDate != nil {
		elapsed := time.Since(*settings.LastInterestAppliedDate)
		if elapsed < 365*24*time.Hour {
			days := int(elapsed.Hours() / 24)
			result.AddWarning(domain.RuleInterestTooSoon,
				fmt.Sprintf("interest was applied %d days ago; a full year has not passed", days))
		}
	}

	return result
}

// plausiblePhone accepts digits with common separators and at least 7 digits
func plausiblePhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7
}

func containsMonths(allowed []int32, months int32) bool {
	for _, m := range allowed {
		if m == months {
			return true
		}
	}
	return false
}
