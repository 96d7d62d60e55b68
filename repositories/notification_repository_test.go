// File: /repositories/notification_repository_test.go
package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestCreateForFollowersFansOutOneRowPerFollower(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `follows`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}).
			AddRow(10, 2, 1).
			AddRow(11, 3, 1).
			AddRow(12, 4, 1))

	// All three inserts happen in one transaction: partial failure notifies
	// nobody instead of a random subset
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `notifications`").
		WillReturnResult(sqlmock.NewResult(1, 3))
	mock.ExpectCommit()

	notified, err := repo.CreateForFollowers(1, "author published a new post", "Hello", "/posts/abc")

	assert.NoError(t, err)
	assert.Equal(t, 3, notified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateForFollowersWithNoFollowersIsANoOp(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `follows`").
		WithArgs(uint(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}))

	notified, err := repo.CreateForFollowers(5, "title", "desc", "/posts/xyz")

	assert.NoError(t, err)
	assert.Equal(t, 0, notified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateForFollowersRollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `follows`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "follower_id", "followed_id"}).
			AddRow(10, 2, 1))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `notifications`").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	notified, err := repo.CreateForFollowers(1, "title", "desc", "/posts/abc")

	assert.Error(t, err)
	assert.Equal(t, 0, notified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserOrdersNewestFirstWithLimit(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `notifications` WHERE user_id = (.+) ORDER BY created_at DESC LIMIT (.+)").
		WithArgs(uint(2), notificationListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "created_at"}).
			AddRow(2, 2, "newer", now).
			AddRow(1, 2, "older", now.Add(-time.Hour)))

	notifications, err := repo.ListForUser(2)

	assert.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "newer", notifications[0].Title)
	assert.Equal(t, "older", notifications[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteForUserIsIdempotent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	// Deleting zero rows is not an error
	mock.ExpectExec("DELETE FROM `notifications`").
		WithArgs(uint(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteForUser(9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOlderThanReportsPrunedCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec("DELETE FROM `notifications`").
		WillReturnResult(sqlmock.NewResult(0, 7))

	pruned, err := repo.DeleteOlderThan(time.Now().Add(-30 * 24 * time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, int64(7), pruned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
