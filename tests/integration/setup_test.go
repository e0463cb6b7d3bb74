package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/server"
	"fintrack/internal/validator"
)

const jwtSecret = "integration-secret"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Transaction{}, &models.AuditLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupApp creates the production router backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	router := server.NewRouter(server.Options{
		DB:          db,
		JWTSecret:   jwtSecret,
		HeaderAuth:  true,
		FrontendURL: "*",
	})
	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request as the given user. A zero userID sends no
// identity.
func (app *testApp) request(method, path, body string, userID uint) *httptest.ResponseRecorder {
	headers := map[string]string{}
	if userID != 0 {
		headers[middleware.UserIDHeader] = fmt.Sprint(userID)
	}
	return app.requestWithHeaders(method, path, body, headers)
}

func (app *testApp) requestWithHeaders(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// createUser inserts a user directly; the API has no sign-up route.
func (app *testApp) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email}
	if err := app.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseJSONArray parses the response body into a slice of objects.
func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// expectStatus fails the test when the response code differs.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

// expectError checks status and the flat error body's code.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	body := parseJSON(t, rec)
	if body["code"] != code {
		t.Errorf("expected code %s, got %v", code, body["code"])
	}
	if msg, _ := body["error"].(string); msg == "" {
		t.Error("expected a non-empty error message")
	}
}

// createCategory creates a category through the API and returns its id.
func (app *testApp) createCategory(t *testing.T, userID uint, name, budget string) float64 {
	t.Helper()
	rec := app.request(http.MethodPost, "/categories", fmt.Sprintf(`{"name":%q,"budget":%s}`, name, budget), userID)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["id"].(float64)
}

// createTransaction creates a transaction through the API and returns its id.
func (app *testApp) createTransaction(t *testing.T, userID uint, categoryID float64, amount, date string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"amount":%s,"date":%q,"category_id":%.0f}`, amount, date, categoryID)
	rec := app.request(http.MethodPost, "/transactions", body, userID)
	expectStatus(t, rec, http.StatusCreated)
	return parseJSON(t, rec)["id"].(float64)
}

func (app *testApp) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := app.DB.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}
