package models

import "time"

// Contract records a tuition purchase for a student. Line items are immutable
// once the contract is persisted.
type Contract struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	StudentID     string    `db:"student_id" json:"student_id"`
	TotalSessions int       `db:"total_sessions" json:"total_sessions"`
	TotalAmount   int64     `db:"total_amount" json:"total_amount"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// LineItem is a priced entry of a contract.
type LineItem struct {
	ID            string            `db:"id" json:"id"`
	ContractID    string            `db:"contract_id" json:"contract_id"`
	Description   string            `db:"description" json:"description"`
	Sessions      int               `db:"sessions" json:"sessions"`
	Subtotal      int64             `db:"subtotal" json:"subtotal"`
	DiscountRatio float64           `db:"discount_ratio" json:"discount_ratio"`
	FinalPrice    int64             `db:"final_price" json:"final_price"`
	Discounts     []AppliedDiscount `db:"-" json:"discounts"`
}

// ContractDetail bundles a contract with its line items.
type ContractDetail struct {
	Contract
	Items []LineItem `json:"items"`
}
