package testutil

import (
	"sort"
	"time"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockTxManager runs the unit of work inline with no real transaction
type MockTxManager struct {
	// FailWith, when set, is returned before the function runs so tests can
	// exercise rollback paths
	FailWith error
}

// NewMockTxManager creates a new MockTxManager
func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

// WithinTx runs fn immediately
func (m *MockTxManager) WithinTx(fn func(tx interface{}) error) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	return fn(nil)
}

// MockMemberRepository is a map-backed domain.MemberRepository
type MockMemberRepository struct {
	Members map[int32]*domain.Member
	nextID  int32
}

// NewMockMemberRepository creates a new MockMemberRepository
func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{Members: make(map[int32]*domain.Member)}
}

// AddMember seeds a member, assigning an ID when missing
func (m *MockMemberRepository) AddMember(member *domain.Member) *domain.Member {
	if member.ID == 0 {
		m.nextID++
		member.ID = m.nextID
	} else if member.ID > m.nextID {
		m.nextID = member.ID
	}
	m.Members[member.ID] = member
	return member
}

// Create creates a new member
func (m *MockMemberRepository) Create(member *domain.Member) (*domain.Member, error) {
	m.nextID++
	member.ID = m.nextID
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	m.Members[member.ID] = member
	return member, nil
}

// GetByID retrieves a member by ID
func (m *MockMemberRepository) GetByID(id int32) (*domain.Member, error) {
	if member, ok := m.Members[id]; ok {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

// GetAll retrieves all members ordered by ID
func (m *MockMemberRepository) GetAll() ([]*domain.Member, error) {
	members := make([]*domain.Member, 0, len(m.Members))
	for _, member := range m.Members {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

// Update updates an existing member
func (m *MockMemberRepository) Update(member *domain.Member) (*domain.Member, error) {
	if _, ok := m.Members[member.ID]; !ok {
		return nil, domain.ErrMemberNotFound
	}
	member.UpdatedAt = time.Now()
	m.Members[member.ID] = member
	return member, nil
}

// UpdateTx updates an existing member, ignoring the transaction handle
func (m *MockMemberRepository) UpdateTx(tx interface{}, member *domain.Member) (*domain.Member, error) {
	return m.Update(member)
}

// SoftDelete removes a member
func (m *MockMemberRepository) SoftDelete(id int32) error {
	if _, ok := m.Members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(m.Members, id)
	return nil
}

// SumContributions sums cached contribution totals
func (m *MockMemberRepository) SumContributions() (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, member := range m.Members {
		sum = sum.Add(member.TotalContributions)
	}
	return sum, nil
}

// SumCashOuts sums recorded cash-out amounts
func (m *MockMemberRepository) SumCashOuts() (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, member := range m.Members {
		sum = sum.Add(member.CashOutAmount)
	}
	return sum, nil
}

// CountByStatus counts members in a status
func (m *MockMemberRepository) CountByStatus(status domain.MemberStatus) (int64, error) {
	var count int64
	for _, member := range m.Members {
		if member.Status == status {
			count++
		}
	}
	return count, nil
}

// CountAll counts all members
func (m *MockMemberRepository) CountAll() (int64, error) {
	return int64(len(m.Members)), nil
}

// MockLoanRepository is a map-backed domain.LoanRepository
type MockLoanRepository struct {
	Loans  map[int32]*domain.Loan
	nextID int32
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{Loans: make(map[int32]*domain.Loan)}
}

// AddLoan seeds a loan, assigning an ID when missing
func (m *MockLoanRepository) AddLoan(loan *domain.Loan) *domain.Loan {
	if loan.ID == 0 {
		m.nextID++
		loan.ID = m.nextID
	} else if loan.ID > m.nextID {
		m.nextID = loan.ID
	}
	m.Loans[loan.ID] = loan
	return loan
}

// Create creates a new loan
func (m *MockLoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	m.nextID++
	loan.ID = m.nextID
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	m.Loans[loan.ID] = loan
	return loan, nil
}

// CreateTx creates a new loan, ignoring the transaction handle
func (m *MockLoanRepository) CreateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	return m.Create(loan)
}

// GetByID retrieves a loan by ID
func (m *MockLoanRepository) GetByID(id int32) (*domain.Loan, error) {
	if loan, ok := m.Loans[id]; ok {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

// GetAll retrieves all loans ordered by ID
func (m *MockLoanRepository) GetAll() ([]*domain.Loan, error) {
	loans := make([]*domain.Loan, 0, len(m.Loans))
	for _, loan := range m.Loans {
		loans = append(loans, loan)
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

// GetByMember retrieves a member's loans ordered by ID
func (m *MockLoanRepository) GetByMember(memberID int32) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	for _, loan := range m.Loans {
		if loan.MemberID == memberID {
			loans = append(loans, loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

// GetActive retrieves active loans ordered by ID
func (m *MockLoanRepository) GetActive() ([]*domain.Loan, error) {
	var loans []*domain.Loan
	for _, loan := range m.Loans {
		if loan.Status == domain.LoanStatusActive {
			loans = append(loans, loan)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

// Update updates an existing loan
func (m *MockLoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	if _, ok := m.Loans[loan.ID]; !ok {
		return nil, domain.ErrLoanNotFound
	}
	loan.UpdatedAt = time.Now()
	m.Loans[loan.ID] = loan
	return loan, nil
}

// UpdateTx updates an existing loan, ignoring the transaction handle
func (m *MockLoanRepository) UpdateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	return m.Update(loan)
}

// SumActiveBalances sums outstanding balances of active loans
func (m *MockLoanRepository) SumActiveBalances() (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, loan := range m.Loans {
		if loan.Status == domain.LoanStatusActive {
			sum = sum.Add(loan.Balance)
		}
	}
	return sum, nil
}

// CountActive counts active loans
func (m *MockLoanRepository) CountActive() (int64, error) {
	var count int64
	for _, loan := range m.Loans {
		if loan.Status == domain.LoanStatusActive {
			count++
		}
	}
	return count, nil
}

// CountActiveByMember counts a member's active loans
func (m *MockLoanRepository) CountActiveByMember(memberID int32) (int64, error) {
	var count int64
	for _, loan := range m.Loans {
		if loan.MemberID == memberID && loan.Status == domain.LoanStatusActive {
			count++
		}
	}
	return count, nil
}

// MockPaymentRepository is a map-backed domain.PaymentRepository
type MockPaymentRepository struct {
	Payments map[int32]*domain.Payment
	nextID   int32
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{Payments: make(map[int32]*domain.Payment)}
}

// AddPayment seeds a payment, assigning an ID when missing
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) *domain.Payment {
	if payment.ID == 0 {
		m.nextID++
		payment.ID = m.nextID
	} else if payment.ID > m.nextID {
		m.nextID = payment.ID
	}
	m.Payments[payment.ID] = payment
	return payment
}

// Create creates a new payment
func (m *MockPaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	m.nextID++
	payment.ID = m.nextID
	payment.CreatedAt = time.Now()
	m.Payments[payment.ID] = payment
	return payment, nil
}

// CreateTx creates a new payment, ignoring the transaction handle
func (m *MockPaymentRepository) CreateTx(tx interface{}, payment *domain.Payment) (*domain.Payment, error) {
	return m.Create(payment)
}

// GetByID retrieves a payment by ID
func (m *MockPaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	if payment, ok := m.Payments[id]; ok {
		return payment, nil
	}
	return nil, domain.ErrPaymentNotFound
}

// GetAll retrieves all payments ordered by ID
func (m *MockPaymentRepository) GetAll() ([]*domain.Payment, error) {
	payments := make([]*domain.Payment, 0, len(m.Payments))
	for _, payment := range m.Payments {
		payments = append(payments, payment)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

// GetByMember retrieves a member's payments ordered by ID
func (m *MockPaymentRepository) GetByMember(memberID int32) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for _, payment := range m.Payments {
		if payment.MemberID == memberID {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID < payments[j].ID })
	return payments, nil
}

// SumContributionsByMember recomputes a member's contribution total
func (m *MockPaymentRepository) SumContributionsByMember(memberID int32) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, payment := range m.Payments {
		if payment.MemberID == memberID {
			sum = sum.Add(payment.ContributionAmount)
		}
	}
	return sum, nil
}

// MockTransactionRepository is a map-backed domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	nextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{Transactions: make(map[int32]*domain.Transaction)}
}

// AddTransaction seeds a ledger entry, assigning an ID when missing
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) *domain.Transaction {
	if transaction.ID == 0 {
		m.nextID++
		transaction.ID = m.nextID
	} else if transaction.ID > m.nextID {
		m.nextID = transaction.ID
	}
	m.Transactions[transaction.ID] = transaction
	return transaction
}

// Create appends a ledger entry
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	m.nextID++
	transaction.ID = m.nextID
	transaction.CreatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// CreateTx appends a ledger entry, ignoring the transaction handle
func (m *MockTransactionRepository) CreateTx(tx interface{}, transaction *domain.Transaction) (*domain.Transaction, error) {
	return m.Create(transaction)
}

// GetByID retrieves a ledger entry by ID
func (m *MockTransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	if transaction, ok := m.Transactions[id]; ok {
		return transaction, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetAll retrieves the full ledger ordered by ID
func (m *MockTransactionRepository) GetAll() ([]*domain.Transaction, error) {
	transactions := make([]*domain.Transaction, 0, len(m.Transactions))
	for _, transaction := range m.Transactions {
		transactions = append(transactions, transaction)
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID < transactions[j].ID })
	return transactions, nil
}

// GetByMember retrieves a member's ledger entries ordered by ID
func (m *MockTransactionRepository) GetByMember(memberID int32) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.MemberID != nil && *transaction.MemberID == memberID {
			transactions = append(transactions, transaction)
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID < transactions[j].ID })
	return transactions, nil
}

// GetByPaymentID retrieves the ledger entry linked to a payment
func (m *MockTransactionRepository) GetByPaymentID(paymentID int32) (*domain.Transaction, error) {
	for _, transaction := range m.Transactions {
		if transaction.PaymentID != nil && *transaction.PaymentID == paymentID {
			return transaction, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// Update corrects a ledger entry
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := m.Transactions[transaction.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// MockSettingsRepository is an in-memory domain.SettingsRepository
type MockSettingsRepository struct {
	Settings *domain.FundSettings
}

// NewMockSettingsRepository creates a MockSettingsRepository holding the defaults
func NewMockSettingsRepository() *MockSettingsRepository {
	settings := domain.DefaultFundSettings()
	settings.ID = 1
	return &MockSettingsRepository{Settings: settings}
}

// GetOrCreate returns the held settings
func (m *MockSettingsRepository) GetOrCreate() (*domain.FundSettings, error) {
	return m.Settings, nil
}

// Update replaces the held settings
func (m *MockSettingsRepository) Update(settings *domain.FundSettings) (*domain.FundSettings, error) {
	settings.UpdatedAt = time.Now()
	m.Settings = settings
	return settings, nil
}

// UpdateTx replaces the held settings, ignoring the transaction handle
func (m *MockSettingsRepository) UpdateTx(tx interface{}, settings *domain.FundSettings) (*domain.FundSettings, error) {
	return m.Update(settings)
}
