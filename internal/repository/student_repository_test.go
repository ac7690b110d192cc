package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

func studentColumnsList() []string {
	return []string{
		"id", "code", "full_name", "phone", "status", "class_id",
		"registered_sessions", "attended_sessions", "bad_debt", "bad_debt_sessions",
		"bad_debt_amount", "bad_debt_date", "bad_debt_note", "created_at", "updated_at",
	}
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows(studentColumnsList())
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	classID := "class-1"
	rows := studentRows().AddRow("stu-1", "HS001", "Nguyen Van A", "0901", models.StudentStatusStudying,
		classID, 10, 4, false, nil, nil, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .* FROM students s WHERE s.id").
		WithArgs("stu-1").
		WillReturnRows(rows)

	student, err := repo.FindByID(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "HS001", student.Code)
	assert.Equal(t, 10, student.RegisteredSessions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateBadDebtSet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET bad_debt = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateBadDebt(context.Background(), "stu-1", BadDebtUpdate{
		Set:      true,
		Sessions: 3,
		Amount:   450_000,
		Date:     time.Now().UTC(),
		Note:     "Nợ 3 buổi",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateBadDebtClear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET bad_debt = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateBadDebt(context.Background(), "stu-1", BadDebtUpdate{Set: false})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCountExpiringSoon(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WithArgs(models.StudentStatusStudying, 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountExpiringSoon(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListFiltersInDebt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	columns := append(studentColumnsList(), "class_name")
	listRows := sqlmock.NewRows(columns).
		AddRow("stu-1", "HS001", "Nguyen Van A", "0901", models.StudentStatusDebt,
			nil, 10, 12, false, nil, nil, nil, nil, time.Now(), time.Now(), nil)
	mock.ExpectQuery("SELECT .* FROM students s").
		WillReturnRows(listRows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students s").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	inDebt := true
	students, total, err := repo.List(context.Background(), models.StudentFilter{InDebt: &inDebt})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
