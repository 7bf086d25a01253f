package portalclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 5, 26, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o600))
	return path
}

func validForm(t *testing.T) *activityform.FormState {
	return &activityform.FormState{
		OrganizationID:      "org-1",
		StudentPosition:     "President",
		StudentContact:      "09171234567",
		ActivityName:        "Tree Planting Drive",
		ActivityDescription: "A tree planting drive along the river banks.",
		ActivityType:        "Community Outreach",
		SelectedSDGs: activityform.SelectionSet{
			{Key: "noPoverty", Selected: true},
			{Key: "zeroHunger", Selected: false},
			{Key: "goodHealth", Selected: true},
		},
		ChargingFees:         activityform.No,
		Partnering:           activityform.No,
		Recurring:            activityform.OneTime,
		StartDate:            "2025-06-10",
		EndDate:              "2025-07-01",
		StartTime:            "08:00",
		EndTime:              "12:00",
		OffCampus:            activityform.No,
		Venue:                "Main Quadrangle",
		VenueApprover:        "Juan Dela Cruz",
		VenueApproverContact: "09123456789",
		GreenMonitorName:     "Maria Clara",
		GreenMonitorContact:  "mc@up.edu.ph",
		Files:                []activityform.Attachment{{Name: "request.pdf", Path: writePDF(t), ContentType: "application/pdf"}},
	}
}

func respond(w http.ResponseWriter, status int, body models.ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newDispatcher(url string) (*Dispatcher, *Client) {
	c := New(url)
	d := NewDispatcher(c)
	d.now = clock
	return d, c
}

func TestSubmitCreate(t *testing.T) {
	var got map[string]string
	var fileName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/activityRequest", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		got = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got[k] = v[0]
		}
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		fileName = hdr.Filename
		respond(w, http.StatusCreated, models.SuccessResponse(models.Activity{ActivityID: "act-1", FinalStatus: models.StatusForReview}, "created"))
	}))
	defer srv.Close()

	d, _ := newDispatcher(srv.URL)
	w := activityform.NewWizard(validForm(t), activityform.ModeCreate, clock)

	act, err := d.Submit(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, "act-1", act.ActivityID)

	assert.Equal(t, "request.pdf", fileName)
	assert.Equal(t, "For Review", got["final_status"])
	assert.Equal(t, "2025-05-26T10:00:00Z", got["created_at"])
	assert.Equal(t, "noPoverty, goodHealth", got["sdg_goals"])
	assert.Equal(t, "2025-06-10", got["end_date"])
	assert.Equal(t, "false", got["is_off_campus"])
	assert.False(t, d.Submitting())
}

func TestSubmitEditSendsAppealJSON(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/activityEdit/edit/act-9", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		respond(w, http.StatusOK, models.SuccessResponse(models.Activity{ActivityID: "act-9", FinalStatus: models.StatusForAppeal}, "updated"))
	}))
	defer srv.Close()

	form := validForm(t)
	form.ActivityID = "act-9"
	form.AppealReason = "Venue was moved"
	form.Files = nil

	d, _ := newDispatcher(srv.URL)
	act, err := d.Submit(context.Background(), activityform.NewWizard(form, activityform.ModeEdit, clock))
	require.NoError(t, err)
	assert.Equal(t, models.StatusForAppeal, act.FinalStatus)

	assert.Equal(t, "For Appeal", body["final_status"])
	assert.Equal(t, "act-9", body["activity_id"])
	assert.Equal(t, "Venue was moved", body["appeal_reason"])
	for _, key := range []string{"sro_approval_status", "odsa_approval_status", "sro_remarks", "odsa_remarks"} {
		v, ok := body[key]
		assert.True(t, ok, key)
		assert.Nil(t, v, key)
	}
}

func TestSubmitAdminNeedsSession(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/activity", r.URL.Path)
		auth = r.Header.Get("Authorization")
		respond(w, http.StatusCreated, models.SuccessResponse(models.Activity{ActivityID: "act-2"}, "created"))
	}))
	defer srv.Close()

	d, c := newDispatcher(srv.URL)
	w := activityform.NewWizard(validForm(t), activityform.ModeAdmin, clock)

	_, err := d.Submit(context.Background(), w)
	assert.ErrorIs(t, err, ErrNoSession)

	c.SetSession(&Session{AccessToken: "tok-123"})
	act, err := d.Submit(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, "act-2", act.ActivityID)
	assert.Equal(t, "Bearer tok-123", auth)
}

func TestSubmitStopsOnInvalidForm(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	form := validForm(t)
	form.ActivityName = "ab"
	d, _ := newDispatcher(srv.URL)

	_, err := d.Submit(context.Background(), activityform.NewWizard(form, activityform.ModeCreate, clock))
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "activityName", fe.Field)
	assert.False(t, called)
}

func TestSubmitErrorMessages(t *testing.T) {
	status := http.StatusBadRequest
	body := models.ErrorResponse("start date is too early")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, status, body)
	}))
	defer srv.Close()

	d, _ := newDispatcher(srv.URL)
	form := validForm(t)

	_, err := d.Submit(context.Background(), activityform.NewWizard(form, activityform.ModeCreate, clock))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "start date is too early", apiErr.Message)

	status = http.StatusInternalServerError
	body = models.ApiResponse{}
	_, err = d.Submit(context.Background(), activityform.NewWizard(form, activityform.ModeCreate, clock))
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Failed to submit activity request. Please try again.", apiErr.Message)
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(entered) })
		<-release
		respond(w, http.StatusCreated, models.SuccessResponse(models.Activity{ActivityID: "act-1"}, "created"))
	}))
	defer srv.Close()

	d, _ := newDispatcher(srv.URL)
	first := activityform.NewWizard(validForm(t), activityform.ModeCreate, clock)
	done := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background(), first)
		done <- err
	}()

	<-entered
	assert.True(t, d.Submitting())
	_, err := d.Submit(context.Background(), activityform.NewWizard(validForm(t), activityform.ModeCreate, clock))
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, d.Submitting())
}
