package postgres

import (
	"context"
	"errors"

	"github.com/hbenali/sunduq-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LoanRepository implements domain.LoanRepository using PostgreSQL
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, member_id, amount, balance, repayment_months, monthly_payment,
	issue_date, due_date, status, completed_date, notes, created_at, updated_at`

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var l domain.Loan
	var status string
	var amount, balance, monthly pgtype.Numeric

	err := row.Scan(
		&l.ID, &l.MemberID, &amount, &balance, &l.RepaymentMonths, &monthly,
		&l.IssueDate, &l.DueDate, &status, &l.CompletedDate, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Status = domain.LoanStatus(status)
	if l.Amount, err = numericToDecimal(amount); err != nil {
		return nil, err
	}
	if l.Balance, err = numericToDecimal(balance); err != nil {
		return nil, err
	}
	if l.MonthlyPayment, err = numericToDecimal(monthly); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a new loan
func (r *LoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	return r.create(r.pool, loan)
}

// CreateTx inserts a new loan within a transaction
func (r *LoanRepository) CreateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.create(pgxTx, loan)
}

func (r *LoanRepository) create(q querier, loan *domain.Loan) (*domain.Loan, error) {
	amount, err := decimalToNumeric(loan.Amount)
	if err != nil {
		return nil, err
	}
	balance, err := decimalToNumeric(loan.Balance)
	if err != nil {
		return nil, err
	}
	monthly, err := decimalToNumeric(loan.MonthlyPayment)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(context.Background(), `
		INSERT INTO loans (member_id, amount, balance, repayment_months, monthly_payment,
			issue_date, due_date, status, completed_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+loanColumns,
		loan.MemberID, amount, balance, loan.RepaymentMonths, monthly,
		loan.IssueDate, loan.DueDate, string(loan.Status), loan.CompletedDate, loan.Notes,
	)
	return scanLoan(row)
}

// GetByID retrieves a loan by ID
func (r *LoanRepository) GetByID(id int32) (*domain.Loan, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	loan, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	return loan, err
}

// GetAll retrieves all loans, newest first
func (r *LoanRepository) GetAll() ([]*domain.Loan, error) {
	return r.list(`SELECT ` + loanColumns + ` FROM loans ORDER BY issue_date DESC, id DESC`)
}

// GetByMember retrieves a member's loans, newest first
func (r *LoanRepository) GetByMember(memberID int32) ([]*domain.Loan, error) {
	return r.list(`SELECT `+loanColumns+` FROM loans WHERE member_id = $1 ORDER BY issue_date DESC, id DESC`, memberID)
}

// GetActive retrieves loans with an outstanding balance
func (r *LoanRepository) GetActive() ([]*domain.Loan, error) {
	return r.list(`SELECT `+loanColumns+` FROM loans WHERE status = $1 ORDER BY issue_date, id`, string(domain.LoanStatusActive))
}

func (r *LoanRepository) list(sql string, args ...any) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// Update persists loan changes
func (r *LoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	return r.update(r.pool, loan)
}

// UpdateTx persists loan changes within a transaction
func (r *LoanRepository) UpdateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.update(pgxTx, loan)
}

func (r *LoanRepository) update(q querier, loan *domain.Loan) (*domain.Loan, error) {
	amount, err := decimalToNumeric(loan.Amount)
	if err != nil {
		return nil, err
	}
	balance, err := decimalToNumeric(loan.Balance)
	if err != nil {
		return nil, err
	}
	monthly, err := decimalToNumeric(loan.MonthlyPayment)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(context.Background(), `
		UPDATE loans
		SET amount = $2, balance = $3, repayment_months = $4, monthly_payment = $5,
			issue_date = $6, due_date = $7, status = $8, completed_date = $9, notes = $10,
			updated_at = now()
		WHERE id = $1
		RETURNING `+loanColumns,
		loan.ID, amount, balance, loan.RepaymentMonths, monthly,
		loan.IssueDate, loan.DueDate, string(loan.Status), loan.CompletedDate, loan.Notes,
	)
	updated, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	return updated, err
}

// SumActiveBalances sums the outstanding balances of active loans
func (r *LoanRepository) SumActiveBalances() (decimal.Decimal, error) {
	var n pgtype.Numeric
	err := r.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(balance), 0) FROM loans WHERE status = $1`,
		string(domain.LoanStatusActive)).Scan(&n)
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(n)
}

// CountActive counts active loans
func (r *LoanRepository) CountActive() (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM loans WHERE status = $1`,
		string(domain.LoanStatusActive)).Scan(&count)
	return count, err
}

// CountActiveByMember counts a member's active loans
func (r *LoanRepository) CountActiveByMember(memberID int32) (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM loans WHERE member_id = $1 AND status = $2`,
		memberID, string(domain.LoanStatusActive)).Scan(&count)
	return count, err
}
