package portalclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req["password"] != "secret123" {
				respond(w, http.StatusUnauthorized, models.ErrorResponse("invalid email or password"))
				return
			}
			respond(w, http.StatusOK, models.SuccessResponse(Session{AccessToken: "tok", RefreshToken: "ref", ExpiresIn: 3600}, "logged in"))
		case "/api/session/reminders":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			respond(w, http.StatusOK, models.SuccessResponse(ReminderState{Show: true}, ""))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := context.Background()

	_, err := c.Login(ctx, "s@up.edu.ph", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.Nil(t, c.Session())

	s, err := c.Login(ctx, "s@up.edu.ph", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)
	assert.Equal(t, "tok", c.Session().AccessToken)

	st, err := c.Reminders(ctx)
	require.NoError(t, err)
	assert.True(t, st.Show)
}

func TestSummarySendsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/activities/summary", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Approved", q.Get("status"))
		assert.Equal(t, "org-1", q.Get("organization"))
		assert.Equal(t, "6", q.Get("month"))
		assert.False(t, q.Has("year"))
		assert.False(t, q.Has("activity_type"))
		respond(w, http.StatusOK, models.ListResponse([]models.ActivitySummary{{ActivityID: "act-1"}}, 1))
	}))
	defer srv.Close()

	rows, err := New(srv.URL).Summary(context.Background(), models.SummaryFilter{Status: "Approved", OrganizationID: "org-1", Month: 6})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "act-1", rows[0].ActivityID)
}

func TestLookupFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Organizations(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Failed to load organizations", apiErr.Message)
}
