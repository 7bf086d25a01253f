package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
	"github.com/supabase-community/gotrue-go/types"
)

// sessionBody is returned by login and refresh alongside the cookies, for
// clients that send bearer tokens instead.
type sessionBody struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"`
	Account      *models.Account `json:"account,omitempty"`
}

func issueSession(c *gin.Context, tokens *types.TokenResponse, account *models.Account, secure bool, msg string) {
	helpers.SetSessionCookies(c, tokens.AccessToken, tokens.ExpiresIn, tokens.RefreshToken, secure)
	c.JSON(http.StatusOK, models.SuccessResponse(sessionBody{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		Account:      account,
	}, msg))
}

func Login(as *services.AccountService, logger *slog.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid request payload"))
			return
		}

		tokens, err := as.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if services.IsValidation(err) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			logger.Info("login failed", "email", req.Email, "error", err)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("invalid email or password"))
			return
		}

		// a login without an account row is not a portal session
		account, err := as.ResolveAccount(c.Request.Context(), req.Email, tokens.AccessToken)
		if err != nil {
			c.JSON(http.StatusForbidden, models.ErrorResponse("no portal account for this email"))
			return
		}
		issueSession(c, tokens, account, secure, "Logged in")
	}
}

func Refresh(as *services.AccountService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.ShouldBindJSON(&req)
		if req.RefreshToken == "" {
			req.RefreshToken, _ = c.Cookie(helpers.RefreshTokenCookie)
		}
		if req.RefreshToken == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("refresh token is required"))
			return
		}

		tokens, err := as.RefreshToken(c.Request.Context(), req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}
		issueSession(c, tokens, nil, secure, "Session refreshed")
	}
}

// Logout revokes the session when a token is present and always clears cookies.
func Logout(as *services.AccountService, logger *slog.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := helpers.TokenFromRequest(c); token != "" {
			if err := as.Logout(c.Request.Context(), token); err != nil {
				logger.Warn("session revoke failed", "error", err)
			}
		}
		helpers.ClearSessionCookies(c, secure)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

// Me returns the account bound to the session.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, account, ok := session(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(account, ""))
	}
}
