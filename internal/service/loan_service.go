package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/events"
	"github.com/shopspring/decimal"
)

// Role policy constants. Loans are interest-free; limits and terms are the
// only levers a role controls.
var (
	founderLoanCeiling   = decimal.NewFromInt(40000)
	regularLoanCap       = decimal.NewFromInt(25000)
	associateLoanCap     = decimal.NewFromInt(10000)
	regularLoanMultiple  = decimal.NewFromInt(2)
	founderLoanMonths    = []int32{6, 12, 18, 24}
	regularLoanMonths    = []int32{6, 12}
	associateLoanMonths  = []int32{3, 6}
	founderTenureMonths  = 0
	regularTenureMonths  = 6
	associateTenureMonth = 12
)

// LoanService handles loan lifecycle: limits, schedules, creation,
// repayment application and edits
type LoanService struct {
	loanRepo        domain.LoanRepository
	memberRepo      domain.MemberRepository
	transactionRepo domain.TransactionRepository
	fund            *FundService
	rules           *RuleService
	txm             domain.TxManager
	guard           *WriteGuard
	eventPublisher  events.Publisher
}

// NewLoanService creates a new LoanService
func NewLoanService(loanRepo domain.LoanRepository, memberRepo domain.MemberRepository, transactionRepo domain.TransactionRepository, fund *FundService, rules *RuleService, txm domain.TxManager, guard *WriteGuard) *LoanService {
	return &LoanService{
		loanRepo:        loanRepo,
		memberRepo:      memberRepo,
		transactionRepo: transactionRepo,
		fund:            fund,
		rules:           rules,
		txm:             txm,
		guard:           guard,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *LoanService) SetEventPublisher(publisher events.Publisher) {
	s.eventPublisher = publisher
}

func (s *LoanService) publishEvent(event events.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// MaximumLoanAmount returns the role-based loan ceiling for a member.
// Founders have a fixed ceiling; other roles borrow in proportion to their
// contributions, capped.
func MaximumLoanAmount(member *domain.Member) decimal.Decimal {
	switch member.Role {
	case domain.RoleFounder:
		return founderLoanCeiling
	case domain.RoleRegular:
		limit := member.TotalContributions.Mul(regularLoanMultiple)
		if limit.GreaterThan(regularLoanCap) {
			return regularLoanCap
		}
		return limit
	default:
		limit := member.TotalContributions
		if limit.GreaterThan(associateLoanCap) {
			return associateLoanCap
		}
		return limit
	}
}

// AllowedRepaymentMonths returns the permitted repayment periods for a
// member: the per-member override when present, otherwise the role default
func AllowedRepaymentMonths(member *domain.Member) []int32 {
	if len(member.CustomRepaymentMonths) > 0 {
		return member.CustomRepaymentMonths
	}
	switch member.Role {
	case domain.RoleFounder:
		return founderLoanMonths
	case domain.RoleRegular:
		return regularLoanMonths
	default:
		return associateLoanMonths
	}
}

// MinimumTenureMonths returns the months of membership required before a
// role may borrow
func MinimumTenureMonths(role domain.MemberRole) int {
	switch role {
	case domain.RoleFounder:
		return founderTenureMonths
	case domain.RoleRegular:
		return regularTenureMonths
	default:
		return associateTenureMonth
	}
}

// CalculateMonthlyPayment returns the equal installment amount, rounded to
// two decimals. The final installment of the schedule absorbs any rounding
// remainder.
func CalculateMonthlyPayment(amount decimal.Decimal, months int32) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt32(months)).Round(2)
}

// CalculateLoanSchedule produces the ordered installment sequence for an
// interest-free loan: equal installments, each due one month after the
// previous, remaining balance never negative and reaching exactly zero. The
// last installment absorbs the rounding remainder so the principal sum equals
// the amount exactly; an installment never exceeds what remains.
func CalculateLoanSchedule(amount decimal.Decimal, months int32, startDate time.Time) []domain.LoanInstallment {
	if months <= 0 || amount.LessThanOrEqual(decimal.Zero) {
		return []domain.LoanInstallment{}
	}

	base := CalculateMonthlyPayment(amount, months)
	schedule := make([]domain.LoanInstallment, 0, months)
	remaining := amount

	for n := int32(1); n <= months; n++ {
		principal := base
		// The final installment absorbs the remainder; rounding up on tiny
		// amounts must not overdraw the principal mid-schedule either.
		if n == months || principal.GreaterThan(remaining) {
			principal = remaining
		}
		remaining = remaining.Sub(principal)
		schedule = append(schedule, domain.LoanInstallment{
			Number:           n,
			DueDate:          startDate.AddDate(0, int(n), 0),
			PrincipalPayment: principal,
			RemainingBalance: remaining,
		})
	}
	return schedule
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	MemberID        int32
	Amount          decimal.Decimal
	RepaymentMonths int32
	IssueDate       time.Time
	Notes           *string
	AdminOverride   bool
}

// CreateLoan validates the request and, when it passes, creates the loan and
// its disbursement ledger entry in one atomic unit of work. A failed
// validation is returned in the result with no mutation.
func (s *LoanService) CreateLoan(input CreateLoanInput) (*domain.Loan, domain.ValidationResult, error) {
	member, err := s.memberRepo.GetByID(input.MemberID)
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}

	snapshot, err := s.fund.Snapshot()
	if err != nil {
		return nil, domain.ValidationResult{}, err
	}
	settings := s.fund.settings.Current()

	result := s.rules.ValidateLoanRequest(member, input.Amount, input.RepaymentMonths, snapshot, &settings, input.AdminOverride)
	if !result.IsValid {
		return nil, result, nil
	}

	var notes *string
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed != "" {
			notes = &trimmed
		}
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	balanceBefore, err := s.fund.CalculateFundBalance()
	if err != nil {
		return nil, result, err
	}

	var loan *domain.Loan
	err = s.txm.WithinTx(func(tx interface{}) error {
		loan, err = s.loanRepo.CreateTx(tx, &domain.Loan{
			MemberID:        member.ID,
			Amount:          input.Amount,
			Balance:         input.Amount,
			RepaymentMonths: input.RepaymentMonths,
			MonthlyPayment:  CalculateMonthlyPayment(input.Amount, input.RepaymentMonths),
			IssueDate:       input.IssueDate,
			DueDate:         input.IssueDate.AddDate(0, int(input.RepaymentMonths), 0),
			Status:          domain.LoanStatusActive,
			Notes:           notes,
		})
		if err != nil {
			return err
		}

		_, err = s.transactionRepo.CreateTx(tx, &domain.Transaction{
			MemberID:        &member.ID,
			LoanID:          &loan.ID,
			Amount:          input.Amount.Neg(),
			Type:            domain.TransactionTypeLoanDisbursement,
			BalanceSnapshot: balanceBefore.Sub(input.Amount),
			Description:     fmt.Sprintf("Loan of %s disbursed to %s", input.Amount.StringFixed(2), member.Name),
			OccurredAt:      input.IssueDate,
		})
		return err
	})
	if err != nil {
		return nil, result, err
	}

	payload := map[string]interface{}{"loan": loan}
	if len(result.OverriddenRules) > 0 {
		payload["overriddenRules"] = result.OverriddenRules
	}
	s.publishEvent(events.LoanCreated(payload))

	return loan, result, nil
}

// applyRepaymentTx reduces the loan balance inside an open transaction,
// flooring at zero and completing the loan when it reaches zero. Returns the
// updated loan and the principal actually applied.
func (s *LoanService) applyRepaymentTx(tx interface{}, loan *domain.Loan, amount decimal.Decimal, when time.Time) (*domain.Loan, decimal.Decimal, error) {
	if loan.Status != domain.LoanStatusActive {
		return nil, decimal.Zero, domain.ErrLoanNotActive
	}

	applied := amount
	if applied.GreaterThan(loan.Balance) {
		applied = loan.Balance
	}

	loan.Balance = loan.Balance.Sub(applied)
	if loan.Balance.IsZero() {
		loan.Status = domain.LoanStatusCompleted
		completed := when
		loan.CompletedDate = &completed
	}

	updated, err := s.loanRepo.UpdateTx(tx, loan)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return updated, applied, nil
}

// EditLoanInput contains input for editing a loan
type EditLoanInput struct {
	Amount          decimal.Decimal
	RepaymentMonths int32
	IssueDate       time.Time
	Notes           *string
}

// EditLoan rewrites a loan's terms. The new amount may not undercut what has
// already been repaid; the balance, schedule and due date are recomputed
// atomically. Editing can reactivate a completed loan when the new amount
// exceeds the amount paid.
func (s *LoanService) EditLoan(id int32, input EditLoanInput) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrLoanAmountInvalid
	}
	if input.RepaymentMonths < 1 {
		return nil, domain.ErrLoanMonthsInvalid
	}

	amountPaid := loan.AmountPaid()
	if input.Amount.LessThan(amountPaid) {
		return nil, domain.ErrLoanAmountBelowPaid
	}

	s.guard.Lock()
	defer s.guard.Unlock()

	loan.Amount = input.Amount
	loan.Balance = input.Amount.Sub(amountPaid)
	loan.RepaymentMonths = input.RepaymentMonths
	loan.MonthlyPayment = CalculateMonthlyPayment(input.Amount, input.RepaymentMonths)
	loan.IssueDate = input.IssueDate
	loan.DueDate = input.IssueDate.AddDate(0, int(input.RepaymentMonths), 0)
	if input.Notes != nil {
		loan.Notes = input.Notes
	}

	if loan.Balance.IsZero() {
		if loan.Status != domain.LoanStatusCompleted {
			loan.Status = domain.LoanStatusCompleted
			now := time.Now()
			loan.CompletedDate = &now
		}
	} else if loan.Status == domain.LoanStatusCompleted {
		loan.Status = domain.LoanStatusActive
		loan.CompletedDate = nil
	}

	updated, err := s.loanRepo.Update(loan)
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.LoanUpdated(updated))
	return updated, nil
}

// GetLoans retrieves all loans
func (s *LoanService) GetLoans() ([]*domain.Loan, error) {
	return s.loanRepo.GetAll()
}

// GetActiveLoans retrieves loans with an outstanding balance
func (s *LoanService) GetActiveLoans() ([]*domain.Loan, error) {
	return s.loanRepo.GetActive()
}

// GetLoanByID retrieves a loan by ID
func (s *LoanService) GetLoanByID(id int32) (*domain.Loan, error) {
	return s.loanRepo.GetByID(id)
}

// GetLoanSchedule returns the repayment schedule projected from the loan's
// current terms
func (s *LoanService) GetLoanSchedule(id int32) ([]domain.LoanInstallment, error) {
	loan, err := s.loanRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return CalculateLoanSchedule(loan.Amount, loan.RepaymentMonths, loan.IssueDate), nil
}
