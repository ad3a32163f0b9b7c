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

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, member_id, loan_id, amount, contribution_amount,
	loan_repayment_amount, type, method, payment_date, notes, created_at`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	var paymentType string
	var amount, contribution, repayment pgtype.Numeric

	err := row.Scan(
		&p.ID, &p.MemberID, &p.LoanID, &amount, &contribution, &repayment,
		&paymentType, &p.Method, &p.PaymentDate, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = domain.PaymentType(paymentType)
	if p.Amount, err = numericToDecimal(amount); err != nil {
		return nil, err
	}
	if p.ContributionAmount, err = numericToDecimal(contribution); err != nil {
		return nil, err
	}
	if p.LoanRepaymentAmount, err = numericToDecimal(repayment); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new payment
func (r *PaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	return r.create(r.pool, payment)
}

// CreateTx inserts a new payment within a transaction
func (r *PaymentRepository) CreateTx(tx interface{}, payment *domain.Payment) (*domain.Payment, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.create(pgxTx, payment)
}

func (r *PaymentRepository) create(q querier, payment *domain.Payment) (*domain.Payment, error) {
	amount, err := decimalToNumeric(payment.Amount)
	if err != nil {
		return nil, err
	}
	contribution, err := decimalToNumeric(payment.ContributionAmount)
	if err != nil {
		return nil, err
	}
	repayment, err := decimalToNumeric(payment.LoanRepaymentAmount)
	if err != nil {
		return nil, err
	}

	row := q.QueryRow(context.Background(), `
		INSERT INTO payments (member_id, loan_id, amount, contribution_amount,
			loan_repayment_amount, type, method, payment_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+paymentColumns,
		payment.MemberID, payment.LoanID, amount, contribution, repayment,
		string(payment.Type), payment.Method, payment.PaymentDate, payment.Notes,
	)
	return scanPayment(row)
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(id int32) (*domain.Payment, error) {
	row := r.pool.QueryRow(context.Background(), `
		SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	payment, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	return payment, err
}

// GetAll retrieves all payments, newest first
func (r *PaymentRepository) GetAll() ([]*domain.Payment, error) {
	return r.list(`SELECT ` + paymentColumns + ` FROM payments ORDER BY payment_date DESC, id DESC`)
}

// GetByMember retrieves a member's payments, newest first
func (r *PaymentRepository) GetByMember(memberID int32) ([]*domain.Payment, error) {
	return r.list(`SELECT `+paymentColumns+` FROM payments WHERE member_id = $1 ORDER BY payment_date DESC, id DESC`, memberID)
}

func (r *PaymentRepository) list(sql string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// SumContributionsByMember recomputes a member's contribution total from
// their payments; the source of truth behind the cached member field
func (r *PaymentRepository) SumContributionsByMember(memberID int32) (decimal.Decimal, error) {
	var n pgtype.Numeric
	err := r.pool.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(contribution_amount), 0) FROM payments WHERE member_id = $1`,
		memberID).Scan(&n)
	if err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(n)
}
