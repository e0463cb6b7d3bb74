package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/uuid"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// stubUsers knows a fixed set of user ids.
type stubUsers struct {
	known map[uint]bool
}

func (s stubUsers) CreateUser(string) (*models.User, error) { return nil, errors.New("not implemented") }

func (s stubUsers) GetUserByEmail(string) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (s stubUsers) GetUserByID(id uint) (*models.User, error) {
	if !s.known[id] {
		return nil, apperrors.ErrUserNotFound
	}
	return &models.User{Base: models.Base{ID: id}, Email: "u@example.com"}, nil
}

func setupAuthRouter(allowHeader bool) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(stubUsers{known: map[uint]bool{1: true}}, testSecret, allowHeader))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet(UserIDKey)})
	})
	return r
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func signed(t *testing.T, id uint, secret string, ttl time.Duration) string {
	t.Helper()
	token, err := GenerateAccessToken(&models.User{Base: models.Base{ID: id}}, secret, ttl)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		allowHeader bool
		headers     map[string]string
		wantStatus  int
		wantCode    string
	}{
		{name: "header_identity", allowHeader: true, headers: map[string]string{"user-id": "1"}, wantStatus: http.StatusOK},
		{name: "missing_identity", allowHeader: true, wantStatus: http.StatusUnauthorized, wantCode: "MISSING_AUTH"},
		{name: "unknown_user", allowHeader: true, headers: map[string]string{"user-id": "42"}, wantStatus: http.StatusNotFound, wantCode: "USER_NOT_FOUND"},
		{name: "non_numeric_user", allowHeader: true, headers: map[string]string{"user-id": "abc"}, wantStatus: http.StatusNotFound, wantCode: "USER_NOT_FOUND"},
		{name: "header_disabled", allowHeader: false, headers: map[string]string{"user-id": "1"}, wantStatus: http.StatusUnauthorized, wantCode: "MISSING_AUTH"},
		{name: "malformed_authorization", allowHeader: true, headers: map[string]string{"Authorization": "Token abc"}, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "garbage_token", allowHeader: true, headers: map[string]string{"Authorization": "Bearer abc.def.ghi"}, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(tt.allowHeader)
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				body := parseBody(t, rec)
				if code, _ := body["code"].(string); code != tt.wantCode {
					t.Errorf("code = %q, want %q", code, tt.wantCode)
				}
				if _, ok := body["error"].(string); !ok {
					t.Errorf("expected string error message, got %v", body["error"])
				}
			}
		})
	}
}

func TestAuthMiddlewareBearer(t *testing.T) {
	router := setupAuthRouter(false)

	t.Run("valid_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+signed(t, 1, testSecret, time.Hour))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if id, _ := parseBody(t, rec)["user_id"].(float64); id != 1 {
			t.Errorf("expected user 1, got %v", id)
		}
	})

	t.Run("expired_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+signed(t, 1, testSecret, -time.Minute))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong_secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+signed(t, 1, "other", time.Hour))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("token_for_deleted_user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+signed(t, 7, testSecret, time.Hour))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "app_error", err: apperrors.ErrCategoryInUse, wantStatus: http.StatusMethodNotAllowed, wantCode: "CATEGORY_IN_USE"},
		{name: "wrapped_app_error", err: apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db gone")), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
		{name: "plain_error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/test", func(c *gin.Context) { _ = c.Error(tt.err) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := parseBody(t, rec)
			if body["code"] != tt.wantCode {
				t.Errorf("code = %v, want %s", body["code"], tt.wantCode)
			}
			if tt.wantCode == "INTERNAL_ERROR" && body["error"] != "Internal server error" {
				t.Errorf("internal details leaked: %v", body["error"])
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("generates_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		if !uuid.IsValid(rec.Header().Get("X-Request-ID")) {
			t.Errorf("expected a UUID request id, got %q", rec.Header().Get("X-Request-ID"))
		}
	})

	t.Run("reuses_valid_inbound_id", func(t *testing.T) {
		inbound := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set("X-Request-ID", inbound)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Header().Get("X-Request-ID") != inbound {
			t.Errorf("expected %s, got %s", inbound, rec.Header().Get("X-Request-ID"))
		}
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:3000"))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/test", http.NoBody))

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("unexpected origin %q", got)
	}
}
