package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/vihangaNethsara/telegram-bot/internal/domain"
)

type Payments struct{ pool *pgxpool.Pool }

func NewPayments(p *pgxpool.Pool) *Payments { return &Payments{pool: p} }

const paymentColumns = `id, member_name, amount::text, recorded_by, payment_date`

// payment_date is wall clock and can tie across records, so every listing
// query also orders by id to keep "newest first" deterministic.
const (
	listRecentSQL = `
		SELECT ` + paymentColumns + `
		FROM society_payments
		ORDER BY payment_date DESC, id DESC
		LIMIT $1
	`
	listAllSQL = `
		SELECT ` + paymentColumns + `
		FROM society_payments
		ORDER BY payment_date DESC, id DESC
	`
	byMemberSQL = `
		SELECT ` + paymentColumns + `
		FROM society_payments
		WHERE lower(member_name) = lower($1)
		ORDER BY payment_date DESC, id DESC
	`
)

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var p domain.Payment
	var amount string
	if err := row.Scan(&p.ID, &p.MemberName, &amount, &p.RecordedBy, &p.PaymentDate); err != nil {
		return domain.Payment{}, err
	}
	var err error
	p.Amount, err = decimal.NewFromString(amount)
	return p, err
}

// Insert stores a new payment and returns the full row, including the
// store-assigned id and payment_date.
func (r *Payments) Insert(ctx context.Context, memberName string, amount decimal.Decimal, recordedBy int64) (domain.Payment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO society_payments(member_name, amount, recorded_by)
		VALUES($1, $2, $3)
		RETURNING `+paymentColumns+`
	`, memberName, amount, recordedBy)
	return scanPayment(row)
}

// ListRecent returns the last n payments, newest first.
func (r *Payments) ListRecent(ctx context.Context, n int) ([]domain.Payment, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := r.pool.Query(ctx, listRecentSQL, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListAll returns every payment, newest first.
func (r *Payments) ListAll(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, listAllSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Payments) TodayTotal(ctx context.Context) (domain.DayTotal, error) {
	var t domain.DayTotal
	var total string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text,
		       COUNT(*),
		       to_char(CURRENT_DATE, 'YYYY-MM-DD')
		FROM society_payments
		WHERE payment_date::date = CURRENT_DATE
	`).Scan(&total, &t.Count, &t.Date)
	if err != nil {
		return domain.DayTotal{}, err
	}
	t.Total, err = decimal.NewFromString(total)
	return t, err
}

func (r *Payments) MonthTotal(ctx context.Context) (domain.MonthTotal, error) {
	var t domain.MonthTotal
	var total string
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text,
		       COUNT(*),
		       to_char(CURRENT_DATE, 'FMMonth'),
		       EXTRACT(YEAR FROM CURRENT_DATE)::int
		FROM society_payments
		WHERE date_trunc('month', payment_date) = date_trunc('month', now())
	`).Scan(&total, &t.Count, &t.MonthName, &t.Year)
	if err != nil {
		return domain.MonthTotal{}, err
	}
	t.Total, err = decimal.NewFromString(total)
	return t, err
}

// ByMember returns all payments for a member, matched case-insensitively
// on the full name, newest first.
func (r *Payments) ByMember(ctx context.Context, memberName string) (domain.MemberSummary, error) {
	rows, err := r.pool.Query(ctx, byMemberSQL, memberName)
	if err != nil {
		return domain.MemberSummary{}, err
	}
	defer rows.Close()

	payments, err := collectPayments(rows)
	if err != nil {
		return domain.MemberSummary{}, err
	}

	s := domain.MemberSummary{
		MemberName: memberName,
		Payments:   payments,
		Count:      len(payments),
		Total:      decimal.Zero,
	}
	for _, p := range payments {
		s.Total = s.Total.Add(p.Amount)
	}
	return s, nil
}

// DeleteAll removes every payment and returns how many rows were deleted.
// The CTE makes the count and the delete a single atomic statement.
func (r *Payments) DeleteAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		WITH deleted AS (
			DELETE FROM society_payments RETURNING 1
		)
		SELECT COUNT(*) FROM deleted
	`).Scan(&n)
	return n, err
}

func (r *Payments) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	var total, avg, max, min string
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(amount), 0)::text,
		       COALESCE(AVG(amount), 0)::text,
		       COALESCE(MAX(amount), 0)::text,
		       COALESCE(MIN(amount), 0)::text,
		       COUNT(DISTINCT lower(member_name))
		FROM society_payments
	`).Scan(&s.Count, &total, &avg, &max, &min, &s.UniqueMembers)
	if err != nil {
		return domain.Stats{}, err
	}

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&s.Total, total},
		{&s.Average, avg},
		{&s.Max, max},
		{&s.Min, min},
	} {
		*f.dst, err = decimal.NewFromString(f.src)
		if err != nil {
			return domain.Stats{}, err
		}
	}
	return s, nil
}
