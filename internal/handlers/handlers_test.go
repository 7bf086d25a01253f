package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/middleware"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/joshua-takyi/activityportal/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryReminders struct {
	states map[string]*models.ReminderState
}

func (m *memoryReminders) GetReminderState(ctx context.Context, accountID, sessionID string) (*models.ReminderState, error) {
	return m.states[accountID+"/"+sessionID], nil
}

func (m *memoryReminders) AcknowledgeReminders(ctx context.Context, state *models.ReminderState) error {
	state.AcknowledgedAt = time.Now()
	m.states[state.AccountID+"/"+state.SessionID] = state
	return nil
}

func (m *memoryReminders) EnsureIndexes(ctx context.Context) error { return nil }

// withClaims stands in for AuthMiddleware.
func withClaims(claims *helpers.EnhancedClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ClaimsKey, claims)
		}
		c.Next()
	}
}

func student() *helpers.EnhancedClaims {
	return &helpers.EnhancedClaims{
		CustomClaims: &helpers.CustomClaims{},
		Role:         models.RoleStudent,
		AccountID:    "acc-1",
		SessionID:    "sess-1",
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.ApiResponse {
	t.Helper()
	var res models.ApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/api/health", Health())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestReminderEndpoints(t *testing.T) {
	rs := services.NewReminderService(&memoryReminders{states: map[string]*models.ReminderState{}})
	r := gin.New()
	r.Use(withClaims(student()))
	r.GET("/api/session/reminders", ReminderStatus(rs))
	r.POST("/api/session/reminders/ack", AcknowledgeReminders(rs))

	show := func() bool {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/reminders", nil))
		require.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]interface{})
		return data["show"].(bool)
	}

	assert.True(t, show())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/session/reminders/ack", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, show())
}

func TestHandlersRequireSession(t *testing.T) {
	r := gin.New()
	r.Use(withClaims(nil))
	r.GET("/api/auth/me", Me())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w).Error)
}

func TestActivitiesByAccountOwnership(t *testing.T) {
	r := gin.New()
	r.Use(withClaims(student()))
	r.GET("/activities/user/:account_id", ActivitiesByAccount(services.NewActivityService(nil, nil, nil, nil), services.NewAccountService(nil)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activities/user/acc-2", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/activityRequest", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateActivityRejectsBadUploads(t *testing.T) {
	r := gin.New()
	r.Use(withClaims(student()))
	r.POST("/activityRequest", CreateActivity(services.NewActivityService(nil, nil, nil, nil), activityform.ModeCreate))
	fields := map[string]string{"activity_name": "Tree Planting Drive", "is_off_campus": "false"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, fields, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "exactly one PDF file is required", decode(t, w).Error)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, fields, map[string][]byte{"notes.txt": []byte("hello")}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, helpers.ErrNotPDF.Error(), decode(t, w).Error)
}
