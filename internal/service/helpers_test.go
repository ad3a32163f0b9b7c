package service

import (
	"testing"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

// fixture wires the full service graph over in-memory repositories
type fixture struct {
	members      *testutil.MockMemberRepository
	loanRepo     *testutil.MockLoanRepository
	payments     *testutil.MockPaymentRepository
	transactions *testutil.MockTransactionRepository
	settingsRepo *testutil.MockSettingsRepository
	txm          *testutil.MockTxManager

	settings *SettingsService
	rules    *RuleService
	fund     *FundService
	loans    *LoanService
	payment  *PaymentService
	member   *MemberService
	interest *InterestService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		members:      testutil.NewMockMemberRepository(),
		loanRepo:     testutil.NewMockLoanRepository(),
		payments:     testutil.NewMockPaymentRepository(),
		transactions: testutil.NewMockTransactionRepository(),
		settingsRepo: testutil.NewMockSettingsRepository(),
		txm:          testutil.NewMockTxManager(),
	}

	f.settings = NewSettingsService(f.settingsRepo)
	if err := f.settings.Load(); err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	guard := NewWriteGuard()
	f.rules = NewRuleService()
	f.fund = NewFundService(f.members, f.loanRepo, f.settings)
	f.loans = NewLoanService(f.loanRepo, f.members, f.transactions, f.fund, f.rules, f.txm, guard)
	f.payment = NewPaymentService(f.payments, f.transactions, f.members, f.loanRepo, f.loans, f.fund, f.rules, f.txm, guard)
	f.member = NewMemberService(f.members, f.loanRepo, f.transactions, f.fund, f.rules, f.txm, guard)
	f.interest = NewInterestService(f.settings, f.settingsRepo, f.fund, f.rules, f.transactions, f.txm, guard)

	return f
}

// seedFounder adds an active founder who joined years ago with the given
// cached contribution total
func (f *fixture) seedFounder(contributions int64) *domain.Member {
	return f.members.AddMember(&domain.Member{
		Name:               "Hassan",
		Role:               domain.RoleFounder,
		Status:             domain.MemberStatusActive,
		JoinDate:           time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalContributions: decimal.NewFromInt(contributions),
		CashOutAmount:      decimal.Zero,
	})
}

// seedRegular adds an active regular member with the given tenure and
// contributions
func (f *fixture) seedRegular(contributions int64, joinDate time.Time) *domain.Member {
	return f.members.AddMember(&domain.Member{
		Name:               "Amina",
		Role:               domain.RoleRegular,
		Status:             domain.MemberStatusActive,
		JoinDate:           joinDate,
		TotalContributions: decimal.NewFromInt(contributions),
		CashOutAmount:      decimal.Zero,
	})
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}
