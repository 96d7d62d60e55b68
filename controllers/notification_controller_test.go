// File: /controllers/notification_controller_test.go
package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dariulone/dariulonePosts/repositories"
	"github.com/dariulone/dariulonePosts/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newNotificationController(db *gorm.DB) (*NotificationController, *services.Broadcaster) {
	broadcaster := services.NewBroadcaster()
	repo := repositories.NewNotificationRepository(db)
	return NewNotificationController(repo, broadcaster), broadcaster
}

func notificationRouter(nc *NotificationController) *gin.Engine {
	r := authedRouter()
	r.GET("/get_notifications", nc.GetNotifications)
	r.DELETE("/clear_notifications", nc.ClearNotifications)
	r.POST("/create_notification", nc.CreateNotification)
	return r
}

func TestGetNotificationsEmptyInboxReturnsEmptyArray(t *testing.T) {
	db, mock := setupMockDB(t)
	nc, _ := newNotificationController(db)
	r := notificationRouter(nc)

	mock.ExpectQuery("SELECT (.+) FROM `notifications`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := performRequest(r, http.MethodGet, "/get_notifications", "")

	assert.Equal(t, http.StatusOK, w.Code)
	// Empty inbox is [], never null
	assert.Equal(t, "[]", w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearNotificationsOnEmptyInboxSucceeds(t *testing.T) {
	db, mock := setupMockDB(t)
	nc, _ := newNotificationController(db)
	r := notificationRouter(nc)

	mock.ExpectExec("DELETE FROM `notifications`").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := performRequest(r, http.MethodDelete, "/clear_notifications", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificationAddressesCallerAndSignals(t *testing.T) {
	db, mock := setupMockDB(t)
	nc, broadcaster := newNotificationController(db)
	sub := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(sub)
	r := notificationRouter(nc)

	mock.ExpectExec("INSERT INTO `notifications`").
		WillReturnResult(sqlmock.NewResult(9, 1))

	body := `{"title":"Hello","description":"World","link":"/posts/abc"}`
	w := performRequest(r, http.MethodPost, "/create_notification", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.NoError(t, mock.ExpectationsWereMet())

	select {
	case signal := <-sub.Messages():
		assert.Equal(t, services.UpdateSignal, signal)
	default:
		t.Fatal("notification creation did not signal connected clients")
	}
}

func TestCreateNotificationRejectsMissingTitle(t *testing.T) {
	db, mock := setupMockDB(t)
	nc, _ := newNotificationController(db)
	r := notificationRouter(nc)

	w := performRequest(r, http.MethodPost, "/create_notification", `{"description":"no title"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
