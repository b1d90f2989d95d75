// internal/services/application_service_test.go
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

	"github.com/incorpora/onboarding-backend/internal/config"
	"github.com/incorpora/onboarding-backend/internal/models"
	"github.com/incorpora/onboarding-backend/internal/workflow"
)

func newServiceWithMock(t *testing.T) (*ApplicationService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	// Preload order inside a transaction is an implementation detail, so
	// expectations are matched out of order.
	mock.MatchExpectationsInOrder(false)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	auditService := NewAuditService(gdb)
	notificationService := NewNotificationService(&config.Config{})
	return NewApplicationService(gdb, auditService, notificationService), mock
}

func TestGetApplicationNotFound(t *testing.T) {
	service, mock := newServiceWithMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := service.GetApplication(uuid.New())
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRejectedWhenApplicationLocked(t *testing.T) {
	service, mock := newServiceWithMock(t)

	appID := uuid.New()
	customerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "applications" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "status", "is_locked"}).
			AddRow(appID.String(), customerID.String(), string(models.ApplicationStatusCompleted), true))
	mock.ExpectQuery(`SELECT (.+) FROM "steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "name", "status"}))
	mock.ExpectQuery(`SELECT (.+) FROM "visa_sub_steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "member_id", "status"}))
	mock.ExpectQuery(`SELECT (.+) FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "message"}))
	mock.ExpectRollback()

	_, err := service.SetStepStatus(appID, &SetStepStatusRequest{
		StepName: "Banking Setup",
		Status:   models.StepStatusStarted,
	}, uuid.New())
	assert.ErrorIs(t, err, workflow.ErrApplicationLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationUnknownJurisdiction(t *testing.T) {
	service, mock := newServiceWithMock(t)

	customerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "jurisdiction"}).
			AddRow(customerID.String(), "atlantis"))
	mock.ExpectRollback()

	_, err := service.CreateApplication(&CreateApplicationRequest{CustomerID: customerID}, uuid.New())
	assert.ErrorIs(t, err, workflow.ErrUnknownJurisdiction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationRejectsDuplicate(t *testing.T) {
	service, mock := newServiceWithMock(t)

	customerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id"}).
			AddRow(uuid.New().String(), customerID.String()))
	mock.ExpectRollback()

	_, err := service.CreateApplication(&CreateApplicationRequest{CustomerID: customerID}, uuid.New())
	assert.ErrorIs(t, err, ErrDuplicateApplication)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewApplicationInvalidDecision(t *testing.T) {
	service, mock := newServiceWithMock(t)

	appID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "applications" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "status", "is_locked"}).
			AddRow(appID.String(), uuid.New().String(), string(models.ApplicationStatusWaitingForAgentReview), false))
	mock.ExpectQuery(`SELECT (.+) FROM "steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "name", "status"}))
	mock.ExpectQuery(`SELECT (.+) FROM "visa_sub_steps"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "member_id", "status"}))
	mock.ExpectQuery(`SELECT (.+) FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "application_id", "message"}))
	mock.ExpectRollback()

	_, err := service.ReviewApplication(appID, &ReviewApplicationRequest{Decision: "escalate"}, uuid.New())
	assert.ErrorIs(t, err, workflow.ErrInvalidDecision)
	assert.NoError(t, mock.ExpectationsWereMet())
}
