package models

import "time"

// StudentStatus represents the lifecycle of a student's enrollment.
type StudentStatus string

// Possible student statuses.
const (
	StudentStatusStudying  StudentStatus = "STUDYING"
	StudentStatusTrial     StudentStatus = "TRIAL"
	StudentStatusReserved  StudentStatus = "RESERVED"
	StudentStatusWithdrawn StudentStatus = "WITHDRAWN"
	StudentStatusDebt      StudentStatus = "DEBT"
)

// Student represents a learner together with their enrollment counters.
// Session counters are maintained by contract creation (registered) and the
// external attendance recorder (attended); bad-debt fields are owned by the
// settlement and reconciliation flows.
type Student struct {
	ID                 string        `db:"id" json:"id"`
	Code               string        `db:"code" json:"code"`
	FullName           string        `db:"full_name" json:"full_name"`
	Phone              string        `db:"phone" json:"phone"`
	Status             StudentStatus `db:"status" json:"status"`
	ClassID            *string       `db:"class_id" json:"class_id,omitempty"`
	RegisteredSessions int           `db:"registered_sessions" json:"registered_sessions"`
	AttendedSessions   int           `db:"attended_sessions" json:"attended_sessions"`
	BadDebt            bool          `db:"bad_debt" json:"bad_debt"`
	BadDebtSessions    *int          `db:"bad_debt_sessions" json:"bad_debt_sessions,omitempty"`
	BadDebtAmount      *int64        `db:"bad_debt_amount" json:"bad_debt_amount,omitempty"`
	BadDebtDate        *time.Time    `db:"bad_debt_date" json:"bad_debt_date,omitempty"`
	BadDebtNote        *string       `db:"bad_debt_note" json:"bad_debt_note,omitempty"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentDetail enriches Student with class context.
type StudentDetail struct {
	Student
	ClassName *string `db:"class_name" json:"class_name,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Status    StudentStatus
	ClassID   string
	InDebt    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
