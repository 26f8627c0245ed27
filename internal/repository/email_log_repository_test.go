package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestEmailLogRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEmailLogRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `email_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	entry := &models.EmailLog{
		Recipient: "invitee@example.com",
		Subject:   "You're invited",
		Kind:      models.EmailKindInvitation,
		Status:    models.EmailStatusSent,
	}

	require.NoError(t, repo.Create(entry))
	require.Equal(t, uint64(1), entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailLogRepository_ListByRecipient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewEmailLogRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "recipient", "subject", "kind", "status", "created_at"}).
		AddRow(2, "invitee@example.com", "Reminder", "INVITATION", "SENT", now).
		AddRow(1, "invitee@example.com", "You're invited", "INVITATION", "FAILED", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT \\* FROM `email_logs` WHERE recipient = \\?").
		WithArgs("invitee@example.com").
		WillReturnRows(rows)

	entries, err := repo.ListByRecipient("invitee@example.com")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.EmailStatusSent, entries[0].Status)
	require.Equal(t, models.EmailStatusFailed, entries[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
