package models

import (
	"time"

	"github.com/lib/pq"
)

// Class represents a tutoring class a student can be enrolled in.
// ScheduleDays holds explicit weekday indices (0=Sunday..6=Saturday);
// Schedule is the legacy compact day-code string kept for records imported
// from the old system. Either may be absent.
type Class struct {
	ID              string        `db:"id" json:"id"`
	Name            string        `db:"name" json:"name"`
	Subject         string        `db:"subject" json:"subject"`
	PricePerSession int64         `db:"price_per_session" json:"price_per_session"`
	ScheduleDays    pq.Int64Array `db:"schedule_days" json:"schedule_days,omitempty"`
	Schedule        *string       `db:"schedule" json:"schedule,omitempty"`
	Active          bool          `db:"active" json:"active"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}
