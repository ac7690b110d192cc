package models

import "time"

// InvoiceStatus is the settlement outcome recorded on an invoice.
type InvoiceStatus string

// Possible settlement outcomes.
const (
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusBadDebt InvoiceStatus = "BAD_DEBT"
)

// SettlementInvoice closes out a student's session debt, either by payment or
// by write-off. Records are append-only and never mutated after creation.
type SettlementInvoice struct {
	ID               string        `db:"id" json:"id"`
	Code             string        `db:"code" json:"code"`
	StudentID        string        `db:"student_id" json:"student_id"`
	StudentName      string        `db:"student_name" json:"student_name"`
	ClassName        string        `db:"class_name" json:"class_name"`
	TotalSessions    int           `db:"total_sessions" json:"total_sessions"`
	AttendedSessions int           `db:"attended_sessions" json:"attended_sessions"`
	DebtSessions     int           `db:"debt_sessions" json:"debt_sessions"`
	PricePerSession  int64         `db:"price_per_session" json:"price_per_session"`
	TotalAmount      int64         `db:"total_amount" json:"total_amount"`
	PaidAmount       int64         `db:"paid_amount" json:"paid_amount"`
	RemainingAmount  int64         `db:"remaining_amount" json:"remaining_amount"`
	Status           InvoiceStatus `db:"status" json:"status"`
	Note             *string       `db:"note" json:"note,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

// InvoiceFilter captures filtering criteria for listing settlement invoices.
type InvoiceFilter struct {
	StudentID string
	Status    InvoiceStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// InvoiceHistory summarises which settlement outcomes exist for a student.
type InvoiceHistory struct {
	HasBadDebt bool
	HasPaid    bool
}
