// internal/services/dashboard_service_test.go
package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/incorpora/onboarding-backend/internal/models"
)

func newDashboardWithMock(t *testing.T) (*DashboardService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	mock.MatchExpectationsInOrder(false)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewDashboardService(gdb), mock
}

func TestGetAdminDashboard(t *testing.T) {
	service, mock := newDashboardWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) as count FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(string(models.ApplicationStatusInProgress), 7).
			AddRow(string(models.ApplicationStatusCompleted), 5))

	dashboard, err := service.GetAdminDashboard()
	require.NoError(t, err)

	assert.Equal(t, int64(4), dashboard.TotalAgents)
	assert.Equal(t, int64(12), dashboard.TotalCustomers)
	assert.Equal(t, int64(12), dashboard.TotalApplications)
	assert.Equal(t, int64(7), dashboard.ApplicationStatusCounts[models.ApplicationStatusInProgress])
	assert.Equal(t, int64(5), dashboard.ApplicationStatusCounts[models.ApplicationStatusCompleted])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerDashboardWithoutApplication(t *testing.T) {
	service, mock := newDashboardWithMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := service.GetCustomerDashboard(uuid.New())
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
