package handler

import (
	"testing"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/hbenali/sunduq-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

// testEnv wires the service graph over in-memory repositories for handler tests
type testEnv struct {
	members      *testutil.MockMemberRepository
	loanRepo     *testutil.MockLoanRepository
	paymentRepo  *testutil.MockPaymentRepository
	transactions *testutil.MockTransactionRepository

	memberService  *service.MemberService
	loanService    *service.LoanService
	paymentService *service.PaymentService
	fundService    *service.FundService
	settings       *service.SettingsService
	interest       *service.InterestService
	reports        *service.ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		members:      testutil.NewMockMemberRepository(),
		loanRepo:     testutil.NewMockLoanRepository(),
		paymentRepo:  testutil.NewMockPaymentRepository(),
		transactions: testutil.NewMockTransactionRepository(),
	}

	settingsRepo := testutil.NewMockSettingsRepository()
	env.settings = service.NewSettingsService(settingsRepo)
	if err := env.settings.Load(); err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	guard := service.NewWriteGuard()
	txm := testutil.NewMockTxManager()
	rules := service.NewRuleService()

	env.fundService = service.NewFundService(env.members, env.loanRepo, env.settings)
	env.loanService = service.NewLoanService(env.loanRepo, env.members, env.transactions, env.fundService, rules, txm, guard)
	env.paymentService = service.NewPaymentService(env.paymentRepo, env.transactions, env.members, env.loanRepo, env.loanService, env.fundService, rules, txm, guard)
	env.memberService = service.NewMemberService(env.members, env.loanRepo, env.transactions, env.fundService, rules, txm, guard)
	env.interest = service.NewInterestService(env.settings, settingsRepo, env.fundService, rules, env.transactions, txm, guard)
	env.reports = service.NewReportService(env.members, env.paymentRepo, env.transactions, env.loanRepo)

	return env
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("Bad decimal literal %q: %v", value, err)
	}
	return d
}

func (env *testEnv) seedFounder(contributions int64) *domain.Member {
	return env.members.AddMember(&domain.Member{
		Name:               "Hassan",
		Role:               domain.RoleFounder,
		Status:             domain.MemberStatusActive,
		JoinDate:           time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		TotalContributions: decimal.NewFromInt(contributions),
		CashOutAmount:      decimal.Zero,
	})
}
