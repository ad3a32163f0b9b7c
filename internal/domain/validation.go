package domain

// RuleSeverity classifies a rule violation. Errors block the action, warnings
// inform without blocking, and overridden marks a blocking rule an admin
// consciously relaxed.
type RuleSeverity string

const (
	SeverityError      RuleSeverity = "error"
	SeverityWarning    RuleSeverity = "warning"
	SeverityOverridden RuleSeverity = "overridden"
)

// Rule identifiers. Callers branch on these instead of parsing messages.
const (
	RuleMemberNameLength     = "member_name_length"
	RuleMemberRoleInvalid    = "member_role_invalid"
	RuleMemberEmailInvalid   = "member_email_invalid"
	RuleMemberPhoneInvalid   = "member_phone_invalid"
	RuleMemberNotActive      = "member_not_active"
	RuleMemberSuspended      = "member_suspended"
	RuleMinimumTenure        = "minimum_tenure"
	RuleLoanAmountPositive   = "loan_amount_positive"
	RuleLoanAmountLimit      = "loan_amount_limit"
	RuleRepaymentMonths      = "repayment_months_not_allowed"
	RuleUtilizationThreshold = "utilization_threshold"
	RuleMinimumFundBalance   = "minimum_fund_balance"
	RulePaymentAmount        = "payment_amount_positive"
	RuleLoanRequired         = "loan_required"
	RuleLoanNotActive        = "loan_not_active"
	RuleLoanOwnership        = "loan_ownership"
	RuleAmountExceedsBalance = "amount_exceeds_loan_balance"
	RuleMemberStillActive    = "member_still_active"
	RuleActiveLoansRemain    = "active_loans_remain"
	RuleNoContributions      = "no_contributions"
	RuleCashOutRecorded      = "cash_out_already_recorded"
	RuleFundBalanceEmpty     = "fund_balance_not_positive"
	RuleInterestTooSoon      = "interest_applied_recently"
)

// RuleViolation is one tagged outcome of a business rule check
type RuleViolation struct {
	RuleID   string       `json:"ruleId"`
	Severity RuleSeverity `json:"severity"`
	Message  string       `json:"message"`
}

// ValidationResult is the structured outcome of a validation call. The
// validator never mutates state and never fails; callers decide whether to
// block, warn, or prompt for an override.
type ValidationResult struct {
	IsValid         bool            `json:"isValid"`
	Errors          []RuleViolation `json:"errors"`
	Warnings        []RuleViolation `json:"warnings"`
	OverriddenRules []string        `json:"overriddenRules"`
}

// NewValidationResult returns a passing result with empty slices so JSON
// consumers always see arrays, never null
func NewValidationResult() ValidationResult {
	return ValidationResult{
		IsValid:         true,
		Errors:          []RuleViolation{},
		Warnings:        []RuleViolation{},
		OverriddenRules: []string{},
	}
}

// AddError records a blocking violation
func (r *ValidationResult) AddError(ruleID, message string) {
	r.Errors = append(r.Errors, RuleViolation{RuleID: ruleID, Severity: SeverityError, Message: message})
	r.IsValid = false
}

// AddWarning records a non-blocking violation
func (r *ValidationResult) AddWarning(ruleID, message string) {
	r.Warnings = append(r.Warnings, RuleViolation{RuleID: ruleID, Severity: SeverityWarning, Message: message})
}

// AddOverridable records a blocking violation that an admin may relax. With
// override set, the violation lands in Warnings and the rule is recorded in
// OverriddenRules for the audit trail.
func (r *ValidationResult) AddOverridable(ruleID, message string, override bool) {
	if !override {
		r.AddError(ruleID, message)
		return
	}
	r.Warnings = append(r.Warnings, RuleViolation{RuleID: ruleID, Severity: SeverityOverridden, Message: message})
	r.OverriddenRules = append(r.OverriddenRules, ruleID)
}
