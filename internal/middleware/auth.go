package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

const (
	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "userID"

	// UserIDHeader carries a plain user id when header identity is enabled.
	UserIDHeader = "user-id"

	tokenIssuer = "fintrack-api"
)

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 access token for the user.
func GenerateAccessToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates the signature, expiry and issuer of a token.
func ParseAccessToken(tokenString, secret string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthMiddleware resolves the caller to a stored user. A bearer token is
// preferred; the user-id header is honoured when allowHeader is set. The
// resolved id is stored under UserIDKey.
func AuthMiddleware(users services.UserServicer, jwtSecret string, allowHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint

		switch {
		case c.GetHeader("Authorization") != "":
			parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				RespondWithError(c, apperrors.ErrUnauthorized)
				c.Abort()
				return
			}
			claims, err := ParseAccessToken(parts[1], jwtSecret)
			if err != nil {
				RespondWithError(c, apperrors.ErrUnauthorized)
				c.Abort()
				return
			}
			userID = claims.UserID

		case allowHeader && c.GetHeader(UserIDHeader) != "":
			id, err := strconv.ParseUint(strings.TrimSpace(c.GetHeader(UserIDHeader)), 10, 64)
			if err != nil || id == 0 {
				RespondWithError(c, apperrors.ErrUserNotFound)
				c.Abort()
				return
			}
			userID = uint(id)

		default:
			RespondWithError(c, apperrors.ErrMissingAuth)
			c.Abort()
			return
		}

		user, err := users.GetUserByID(userID)
		if err != nil {
			RespondWithError(c, err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}
