package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

// ClaimsKey is the context key AuthMiddleware stores *helpers.EnhancedClaims under.
const ClaimsKey = "user"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		requestID, _ := c.Get("request_id")
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if claims, ok := ClaimsFrom(c); ok {
			attrs = append(attrs, "account_id", claims.AccountID, "role", claims.GetSafeRole())
		}
		logger.Info("HTTP Request", attrs...)
	}
}

// ErrorHandler logs errors attached with c.Error and answers 500 when the
// handler has not written a response yet.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get("request_id")

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Internal server error"))
		}
	}
}

// CORS allows the portal frontend to call the API with cookies.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Request-ID", "Cache-Control"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

type TokenValidator interface {
	ValidateToken(token string) (*helpers.CustomClaims, error)
}

// SessionAccounts refreshes sessions and maps them to account rows.
type SessionAccounts interface {
	RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	ResolveAccount(ctx context.Context, email, accessToken string) (*models.Account, error)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(msg))
}

// AuthMiddleware accepts a bearer token or the access token cookie. An
// invalid token is refreshed from the refresh token cookie when present.
// The session's email must resolve to an account row.
func AuthMiddleware(verifier TokenValidator, accounts SessionAccounts, logger *slog.Logger, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.TokenFromRequest(c)
		if token == "" {
			unauthorized(c, "no active session")
			return
		}

		claims, err := verifier.ValidateToken(token)
		if err != nil {
			refreshToken, refreshErr := c.Cookie(helpers.RefreshTokenCookie)
			if refreshErr != nil || refreshToken == "" {
				unauthorized(c, err.Error())
				return
			}

			refreshed, refreshErr := accounts.RefreshToken(c.Request.Context(), refreshToken)
			if refreshErr != nil || refreshed == nil || refreshed.AccessToken == "" {
				logger.Error("Token refresh failed", "error", refreshErr)
				unauthorized(c, "session expired and refresh failed")
				return
			}
			helpers.SetSessionCookies(c, refreshed.AccessToken, refreshed.ExpiresIn, refreshed.RefreshToken, secureCookies)
			logger.Info("Token refreshed", "user_id", refreshed.User.ID, "expires_in", refreshed.ExpiresIn)

			token = refreshed.AccessToken
			if claims, err = verifier.ValidateToken(token); err != nil {
				unauthorized(c, "refreshed token validation failed")
				return
			}
		}

		account, err := accounts.ResolveAccount(c.Request.Context(), claims.Email, token)
		if err != nil {
			logger.Info("No account for session", "user_id", claims.Subject, "error", err)
			unauthorized(c, "account not found for this session")
			return
		}

		c.Set(ClaimsKey, &helpers.EnhancedClaims{
			CustomClaims: claims,
			Role:         account.Role,
			UserID:       claims.Subject,
			AccountID:    account.AccountID,
			Email:        account.Email,
			Fullname:     account.FullName,
			OrgID:        account.OrgID,
			SessionID:    claims.SessionID,
			Token:        token,
		})
		c.Next()
	}
}

// RequireStaff must run after AuthMiddleware.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			unauthorized(c, "no active session")
			return
		}
		if !claims.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse("staff access required"))
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*helpers.EnhancedClaims)
	return claims, ok && claims != nil
}

// Account rebuilds the account row carried by the session claims.
func Account(claims *helpers.EnhancedClaims) *models.Account {
	return &models.Account{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		FullName:  claims.Fullname,
		Role:      strings.ToLower(claims.Role),
		OrgID:     claims.OrgID,
	}
}
