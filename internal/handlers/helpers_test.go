package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- mock audit service ---

type auditCall struct {
	UserID     uint
	Action     string
	ResourceID uint
}

type mockAuditService struct {
	mu    sync.Mutex
	calls []auditCall
}

func (m *mockAuditService) Log(userID uint, action, _ string, resourceID uint, _ string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, auditCall{UserID: userID, Action: action, ResourceID: resourceID})
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- request helpers ---

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	if _, ok := result["error"].(string); !ok {
		t.Fatalf("expected error message in response, got: %v", result)
	}
	if result["code"] != code {
		t.Errorf("expected error code %q, got %q", code, result["code"])
	}
}

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"Name":       "name",
		"CategoryID": "category_id",
		"FromDate":   "from_date",
	}
	for in, want := range tests {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBindJSON(t *testing.T) {
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req TransactionRequest
		if err := bindJSON(c, &req); err != nil {
			respondWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name    string
		body    string
		code    string
		message string
	}{
		{name: "empty body", body: ``, code: "INVALID_INPUT", message: "Missing fields"},
		{name: "malformed", body: `{"amount":`, code: "INVALID_JSON", message: "Invalid JSON"},
		{name: "wrong type", body: `{"category_id":"x"}`, code: "INVALID_INPUT", message: "Invalid value for category_id"},
		{name: "bad decimal", body: `{"amount":"abc"}`, code: "INVALID_INPUT", message: "Invalid value for amount"},
		{name: "bad date", body: `{"amount":5,"date":"28/05/2025"}`, code: "INVALID_INPUT", message: "Invalid value for date"},
		{name: "non-string date", body: `{"date":20250528}`, code: "INVALID_INPUT", message: "Invalid value for date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(r, "POST", "/bind", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			result := parseJSON(t, rec)
			assertErrorCode(t, result, tt.code)
			if result["error"] != tt.message {
				t.Errorf("expected message %q, got %v", tt.message, result["error"])
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		rec := doRequest(r, "POST", "/bind", `{"amount":-4.5,"date":"2025-05-28","category_id":1}`)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestParsePathID(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, err := parsePathID(c, "id", apperrors.ErrCategoryNotFound)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{path: "/things/42", status: http.StatusOK},
		{path: "/things/4294967296", status: http.StatusOK},
		{path: "/things/9223372036854775808", status: http.StatusNotFound, code: "CATEGORY_NOT_FOUND"},
		{path: "/things/0", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{path: "/things/abc", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{path: "/things/-1", status: http.StatusBadRequest, code: "INVALID_INPUT"},
		{path: "/things/18446744073709551616", status: http.StatusBadRequest, code: "INVALID_INPUT"},
	}
	for _, tt := range tests {
		rec := doRequest(r, "GET", tt.path, "")
		if rec.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.status, rec.Code)
			continue
		}
		if tt.code != "" {
			assertErrorCode(t, parseJSON(t, rec), tt.code)
		}
	}
}
