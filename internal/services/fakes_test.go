package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/joshua-takyi/activityportal/internal/models"
)

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities map[string]*models.Activity
	updates    []map[string]interface{}
	schedules  []*models.Schedule
	createErr  error
}

func newFakeActivityRepo(rows ...*models.Activity) *fakeActivityRepo {
	r := &fakeActivityRepo{activities: map[string]*models.Activity{}}
	for _, a := range rows {
		r.activities[a.ActivityID] = a
	}
	return r
}

func (r *fakeActivityRepo) CreateActivity(ctx context.Context, activity *models.Activity, schedule *models.Schedule, accessToken string) (*models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	cp := *activity
	if schedule != nil {
		schedule.ActivityID = cp.ActivityID
		cp.Schedule = []models.Schedule{*schedule}
	}
	r.activities[cp.ActivityID] = &cp
	return &cp, nil
}

func (r *fakeActivityRepo) GetActivityByID(ctx context.Context, id string, accessToken string) (*models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", id, models.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (r *fakeActivityRepo) UpdateActivity(ctx context.Context, id string, fields map[string]interface{}, accessToken string) (*models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", id, models.ErrNotFound)
	}
	r.updates = append(r.updates, fields)
	if st, ok := fields["final_status"].(models.Status); ok {
		a.FinalStatus = st
	}
	staff := map[string]**string{
		"sro_approval_status":  &a.SROApprovalStatus,
		"odsa_approval_status": &a.ODSAApprovalStatus,
		"sro_remarks":          &a.SRORemarks,
		"odsa_remarks":         &a.ODSARemarks,
	}
	for key, dst := range staff {
		v, ok := fields[key]
		if !ok {
			continue
		}
		p, _ := v.(*string)
		*dst = p
	}
	cp := *a
	return &cp, nil
}

func (r *fakeActivityRepo) SaveSchedule(ctx context.Context, schedule *models.Schedule, accessToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules = append(r.schedules, schedule)
	return nil
}

func (r *fakeActivityRepo) ListActivities(ctx context.Context, q models.ActivityQuery, accessToken string) ([]*models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Activity{}
	for _, a := range r.activities {
		if q.Status != "" && string(a.FinalStatus) != q.Status {
			continue
		}
		if q.ActivityType != "" && a.ActivityType != q.ActivityType {
			continue
		}
		if q.OrganizationID != "" && a.OrganizationID != q.OrganizationID {
			continue
		}
		if q.AccountID != "" && a.AccountID != q.AccountID {
			continue
		}
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, a.FinalStatus) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func containsStatus(list []models.Status, s models.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	changes []*models.StatusChange
}

func (h *fakeHistoryRepo) RecordStatusChange(ctx context.Context, change *models.StatusChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.changes = append(h.changes, change)
	return nil
}

func (h *fakeHistoryRepo) GetStatusHistory(ctx context.Context, activityID string) ([]*models.StatusChange, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := []*models.StatusChange{}
	for _, c := range h.changes {
		if c.ActivityID == activityID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeFileStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	types   map[string]string
	err     error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{uploads: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeFileStore) Upload(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := folder + "/" + name
	f.uploads[key] = data
	f.types[key] = contentType
	return "https://files.test/" + key, nil
}

type fakeOrgRepo struct {
	orgs    map[string]*models.Organization
	reports []*models.AnnualReport
	recs    []*models.Recognition
}

func (o *fakeOrgRepo) ListOrganizations(ctx context.Context) ([]*models.Organization, error) {
	out := []*models.Organization{}
	for _, org := range o.orgs {
		out = append(out, org)
	}
	return out, nil
}

func (o *fakeOrgRepo) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	org, ok := o.orgs[orgID]
	if !ok {
		return nil, fmt.Errorf("organization %s: %w", orgID, models.ErrNotFound)
	}
	return org, nil
}

func (o *fakeOrgRepo) CreateAnnualReport(ctx context.Context, report *models.AnnualReport, accessToken string) (*models.AnnualReport, error) {
	o.reports = append(o.reports, report)
	return report, nil
}

func (o *fakeOrgRepo) ListAnnualReports(ctx context.Context, orgID string, accessToken string) ([]*models.AnnualReport, error) {
	return o.reports, nil
}

func (o *fakeOrgRepo) CreateRecognition(ctx context.Context, rec *models.Recognition, accessToken string) (*models.Recognition, error) {
	o.recs = append(o.recs, rec)
	return rec, nil
}

func (o *fakeOrgRepo) ListRecognitions(ctx context.Context, orgID string, accessToken string) ([]*models.Recognition, error) {
	return o.recs, nil
}

type fakeReminderRepo struct {
	states map[string]*models.ReminderState
}

func (f *fakeReminderRepo) GetReminderState(ctx context.Context, accountID, sessionID string) (*models.ReminderState, error) {
	return f.states[accountID+"/"+sessionID], nil
}

func (f *fakeReminderRepo) AcknowledgeReminders(ctx context.Context, state *models.ReminderState) error {
	key := state.AccountID + "/" + state.SessionID
	if existing, ok := f.states[key]; ok {
		*state = *existing
		return nil
	}
	state.AcknowledgedAt = time.Now()
	state.ExpiresAt = state.AcknowledgedAt.Add(models.ReminderStateTTL)
	f.states[key] = state
	return nil
}

func (f *fakeReminderRepo) EnsureIndexes(ctx context.Context) error { return nil }
