package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single recorded member payment. Rows are never updated;
// they are only inserted and, on /reset, deleted all at once.
type Payment struct {
	ID          int64
	MemberName  string
	Amount      decimal.Decimal
	RecordedBy  int64
	PaymentDate time.Time
}

type DayTotal struct {
	Total decimal.Decimal
	Count int
	Date  string // YYYY-MM-DD
}

type MonthTotal struct {
	Total     decimal.Decimal
	Count     int
	MonthName string
	Year      int
}

type MemberSummary struct {
	MemberName string
	Payments   []Payment
	Count      int
	Total      decimal.Decimal
}

// Stats is all zero-valued when the table is empty, never an error.
type Stats struct {
	Count         int
	Total         decimal.Decimal
	Average       decimal.Decimal
	Max           decimal.Decimal
	Min           decimal.Decimal
	UniqueMembers int
}
