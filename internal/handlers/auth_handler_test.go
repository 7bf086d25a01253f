package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

type fakeAccounts struct {
	password string
	accounts map[string]*models.Account
}

func (f *fakeAccounts) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	if password != f.password {
		return nil, errors.New("invalid login credentials")
	}
	resp := &types.TokenResponse{}
	resp.AccessToken = "access-" + email
	resp.RefreshToken = "refresh-" + email
	resp.ExpiresIn = 3600
	return resp, nil
}

func (f *fakeAccounts) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeAccounts) Logout(ctx context.Context, accessToken string) error { return nil }

func (f *fakeAccounts) GetAccountByEmail(ctx context.Context, email string, accessToken string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", email, models.ErrNotFound)
}

func (f *fakeAccounts) GetAccount(ctx context.Context, accountID string, accessToken string) (*models.Account, error) {
	if a, ok := f.accounts[accountID]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("account %s: %w", accountID, models.ErrNotFound)
}

func newAccounts() *services.AccountService {
	return services.NewAccountService(&fakeAccounts{
		password: "secret123",
		accounts: map[string]*models.Account{
			"acc-1": {AccountID: "acc-1", Email: "ana@up.edu.ph", Role: models.RoleStudent},
		},
	})
}

func loginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLogin(t *testing.T) {
	r := gin.New()
	r.POST("/api/auth/login", Login(newAccounts(), slog.Default(), false))

	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{"bad payload", `{"email":"not-an-email"}`, http.StatusBadRequest, "invalid request payload"},
		{"short password", `{"email":"ana@up.edu.ph","password":"abc"}`, http.StatusBadRequest, "password must be at least 6 characters"},
		{"wrong password", `{"email":"ana@up.edu.ph","password":"wrong-pass"}`, http.StatusUnauthorized, "invalid email or password"},
		{"no portal account", `{"email":"ghost@up.edu.ph","password":"secret123"}`, http.StatusForbidden, "no portal account for this email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, loginRequest(tt.body))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.errMsg, decode(t, w).Error)
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, loginRequest(`{"email":"ana@up.edu.ph","password":"secret123"}`))
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "access-ana@up.edu.ph", data["access_token"])
	assert.Equal(t, "acc-1", data["account"].(map[string]interface{})["account_id"])

	var cookies []string
	for _, ck := range w.Result().Cookies() {
		cookies = append(cookies, ck.Name)
	}
	assert.ElementsMatch(t, []string{helpers.AccessTokenCookie, helpers.RefreshTokenCookie}, cookies)
}

func TestRefreshNeedsToken(t *testing.T) {
	r := gin.New()
	r.POST("/api/auth/refresh", Refresh(newAccounts(), false))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "refresh token is required", decode(t, w).Error)
}

func TestActivitiesByAccountUnknownAccountForStaff(t *testing.T) {
	staff := student()
	staff.Role = models.RoleSRO
	staff.AccountID = "acc-staff"

	r := gin.New()
	r.Use(withClaims(staff))
	r.GET("/activities/user/:account_id", ActivitiesByAccount(services.NewActivityService(nil, nil, nil, nil), newAccounts()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activities/user/acc-404", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
