package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

type mockDashboardStudentRepo struct {
	counts    []repository.StatusCount
	expiring  int
	countCall int
}

func (m *mockDashboardStudentRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	m.countCall++
	return m.counts, nil
}

func (m *mockDashboardStudentRepo) CountExpiringSoon(ctx context.Context, threshold int) (int, error) {
	return m.expiring, nil
}

type mockDashboardInvoiceRepo struct {
	total       int
	badDebt     int
	outstanding int64
}

func (m *mockDashboardInvoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]models.SettlementInvoice, int, error) {
	if filter.Status == models.InvoiceStatusBadDebt {
		return nil, m.badDebt, nil
	}
	return nil, m.total, nil
}

func (m *mockDashboardInvoiceRepo) OutstandingBadDebt(ctx context.Context) (int64, error) {
	return m.outstanding, nil
}

func newDashboardFixture() (*DashboardService, *mockDashboardStudentRepo) {
	students := &mockDashboardStudentRepo{
		counts: []repository.StatusCount{
			{Status: models.StudentStatusStudying, Count: 40},
			{Status: models.StudentStatusDebt, Count: 3},
		},
		expiring: 7,
	}
	invoices := &mockDashboardInvoiceRepo{total: 12, badDebt: 4, outstanding: 1_800_000}
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	return NewDashboardService(students, invoices, cacheSvc, nil, time.Minute, 5), students
}

func TestDashboardSummaryComposesCounters(t *testing.T) {
	svc, _ := newDashboardFixture()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, summary.StudentsByStatus[models.StudentStatusStudying])
	assert.Equal(t, 3, summary.StudentsByStatus[models.StudentStatusDebt])
	assert.Equal(t, 7, summary.ExpiringSoon)
	assert.Equal(t, 12, summary.SettlementCount)
	assert.Equal(t, 4, summary.BadDebtCount)
	assert.Equal(t, int64(1_800_000), summary.OutstandingBadDebt)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestDashboardSummaryServedFromCache(t *testing.T) {
	svc, students := newDashboardFixture()

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, students.countCall)
}

func TestDashboardInvalidateForcesRecompute(t *testing.T) {
	svc, students := newDashboardFixture()

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, students.countCall)
}
