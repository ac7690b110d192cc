package billing

import "github.com/noah-isme/tutor-adp-api/internal/models"

// DefaultExpiringThreshold is the remaining-session count at which a studying
// student is surfaced for renewal follow-up.
const DefaultExpiringThreshold = 5

// Remaining returns the sessions a student has paid for but not yet attended.
func Remaining(s *models.Student) int {
	r := s.RegisteredSessions - s.AttendedSessions
	if r < 0 {
		return 0
	}
	return r
}

// DebtSessions returns the sessions attended in excess of those paid for.
func DebtSessions(s *models.Student) int {
	d := s.AttendedSessions - s.RegisteredSessions
	if d < 0 {
		return 0
	}
	return d
}

// IsExpiringSoon reports whether an actively studying student is within
// threshold sessions of running out. A threshold of 0 or less uses the
// default.
func IsExpiringSoon(s *models.Student, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultExpiringThreshold
	}
	if s.Status != models.StudentStatusStudying {
		return false
	}
	r := Remaining(s)
	return r > 0 && r <= threshold
}

// IsInDebt reports whether the student owes sessions, either by explicit
// status or by counter drift.
func IsInDebt(s *models.Student) bool {
	return s.Status == models.StudentStatusDebt || s.AttendedSessions > s.RegisteredSessions
}
