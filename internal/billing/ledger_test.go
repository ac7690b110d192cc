package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

func TestRemainingAndDebtSessions(t *testing.T) {
	tests := []struct {
		name       string
		registered int
		attended   int
		remaining  int
		debt       int
	}{
		{"unused sessions", 10, 4, 6, 0},
		{"exact", 10, 10, 0, 0},
		{"over-attended", 10, 12, 0, 2},
		{"fresh", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &models.Student{RegisteredSessions: tt.registered, AttendedSessions: tt.attended}
			assert.Equal(t, tt.remaining, Remaining(s))
			assert.Equal(t, tt.debt, DebtSessions(s))
		})
	}
}

func TestIsExpiringSoon(t *testing.T) {
	studying := func(registered, attended int) *models.Student {
		return &models.Student{Status: models.StudentStatusStudying, RegisteredSessions: registered, AttendedSessions: attended}
	}

	assert.True(t, IsExpiringSoon(studying(10, 6), 5))
	assert.True(t, IsExpiringSoon(studying(10, 9), 0)) // default threshold
	assert.False(t, IsExpiringSoon(studying(20, 5), 5))
	assert.False(t, IsExpiringSoon(studying(10, 10), 5)) // zero remaining is not "expiring"

	reserved := studying(10, 6)
	reserved.Status = models.StudentStatusReserved
	assert.False(t, IsExpiringSoon(reserved, 5))
}

func TestIsInDebt(t *testing.T) {
	assert.True(t, IsInDebt(&models.Student{Status: models.StudentStatusDebt}))
	assert.True(t, IsInDebt(&models.Student{Status: models.StudentStatusStudying, RegisteredSessions: 10, AttendedSessions: 12}))
	assert.False(t, IsInDebt(&models.Student{Status: models.StudentStatusStudying, RegisteredSessions: 10, AttendedSessions: 10}))
}
