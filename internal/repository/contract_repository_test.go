package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

func TestContractRepositoryCreateCommitsAllInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contracts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO line_items").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO applied_discounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE students SET registered_sessions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	contract := &models.Contract{Code: "HD-001", StudentID: "stu-1", TotalSessions: 20, TotalAmount: 2_700_000}
	items := []models.LineItem{{
		Description:   "Khóa Toán 20 buổi",
		Sessions:      20,
		Subtotal:      3_000_000,
		DiscountRatio: 0.1,
		FinalPrice:    2_700_000,
		Discounts: []models.AppliedDiscount{{
			DiscountID: "early-bird",
			Name:       "Early bird",
			Type:       models.DiscountTypePercent,
			Value:      10,
			Amount:     300_000,
		}},
	}}

	err := repo.Create(context.Background(), contract, items)
	require.NoError(t, err)
	require.NotEmpty(t, contract.ID)
	require.Equal(t, contract.ID, items[0].ContractID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractRepositoryCreateRollsBackOnItemFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewContractRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contracts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO line_items").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	contract := &models.Contract{Code: "HD-002", StudentID: "stu-1", TotalSessions: 10, TotalAmount: 1_500_000}
	items := []models.LineItem{{Description: "Khóa Lý 10 buổi", Sessions: 10, Subtotal: 1_500_000, FinalPrice: 1_500_000}}

	err := repo.Create(context.Background(), contract, items)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
