// File: /controllers/auth_controller_test.go
package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dariulone/dariulonePosts/config"
	"github.com/dariulone/dariulonePosts/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthController(db *gorm.DB) *AuthController {
	// Empty SMTP credentials make the welcome mail a silent no-op
	emailService := services.NewEmailService(&config.Config{})
	return NewAuthController(db, "test-secret", emailService)
}

func authRouter(ac *AuthController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", ac.Register)
	r.POST("/login", ac.Login)
	r.POST("/logout", ac.Logout)
	return r
}

func TestRegisterCreatesUser(t *testing.T) {
	db, mock := setupMockDB(t)
	r := authRouter(newAuthController(db))

	// Username free, email free
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"username":"alice","email":"alice@example.com","password":"Passw0rd"}`
	w := performRequest(r, http.MethodPost, "/register", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "Passw0rd")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	r := authRouter(newAuthController(db))

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "alice"))

	body := `{"username":"alice","email":"other@example.com","password":"Passw0rd"}`
	w := performRequest(r, http.MethodPost, "/register", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Username already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	db, mock := setupMockDB(t)
	r := authRouter(newAuthController(db))

	body := `{"username":"alice","email":"alice@example.com","password":"alllowercase"}`
	w := performRequest(r, http.MethodPost, "/register", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginIssuesBearerToken(t *testing.T) {
	db, mock := setupMockDB(t)
	r := authRouter(newAuthController(db))

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password", "is_active"}).
			AddRow(1, "alice", "alice@example.com", string(hash), true))

	body := `{"username":"alice","password":"Passw0rd"}`
	w := performRequest(r, http.MethodPost, "/login", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token"`)
	assert.Contains(t, w.Body.String(), `"token_type":"bearer"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db, mock := setupMockDB(t)
	r := authRouter(newAuthController(db))

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "is_active"}).
			AddRow(1, "alice", string(hash), true))

	w := performRequest(r, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	db, mock := setupMockDB(t)
	r := authRouter(newAuthController(db))

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := performRequest(r, http.MethodPost, "/login", `{"username":"ghost","password":"Passw0rd"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	db, mock := setupMockDB(t)
	r := authRouter(newAuthController(db))

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "is_active"}).
			AddRow(1, "alice", string(hash), false))

	w := performRequest(r, http.MethodPost, "/login", `{"username":"alice","password":"Passw0rd"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout(t *testing.T) {
	db, _ := setupMockDB(t)
	r := authRouter(newAuthController(db))

	w := performRequest(r, http.MethodPost, "/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
}
