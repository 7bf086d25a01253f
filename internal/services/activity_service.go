package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/activityportal/internal/activityform"
	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
)

type ActivityService struct {
	activityRepo models.ActivityRepo
	historyRepo  models.StatusHistoryRepo
	files        helpers.FileStore
	logger       *slog.Logger
	now          func() time.Time
}

func NewActivityService(activityRepo models.ActivityRepo, historyRepo models.StatusHistoryRepo, files helpers.FileStore, logger *slog.Logger) *ActivityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityService{
		activityRepo: activityRepo,
		historyRepo:  historyRepo,
		files:        files,
		logger:       logger,
		now:          time.Now,
	}
}

// Submission is an assembled create or admin-create request with its document.
type Submission struct {
	Mode     activityform.Mode
	Activity models.ActivityAttributes
	Schedule models.ScheduleAttributes
	Document []byte
}

// CreateActivity validates the payload, stores the request document and
// writes the activity and its schedule with status "For Review".
func (as *ActivityService) CreateActivity(ctx context.Context, sub Submission, account *models.Account, accessToken string) (*models.Activity, error) {
	if account == nil {
		return nil, fmt.Errorf("no account for session: %w", models.ErrNotFound)
	}
	if sub.Mode == activityform.ModeAdmin && !account.IsStaff() {
		return nil, fmt.Errorf("admin submissions require a staff account: %w", models.ErrForbidden)
	}

	activityform.Normalize(&sub.Activity, &sub.Schedule)
	if res := activityform.CheckPayload(sub.Mode, sub.Activity, sub.Schedule, as.now()); !res.Valid {
		return nil, &ValidationError{Field: res.Field, Message: res.Message}
	}
	if len(sub.Document) == 0 {
		return nil, &ValidationError{Field: "file", Message: "exactly one PDF file is required"}
	}
	if !helpers.IsPDF(sub.Document) {
		return nil, &ValidationError{Field: "file", Message: helpers.ErrNotPDF.Error()}
	}

	now := as.now()
	activity := &models.Activity{
		ActivityID:         uuid.NewString(),
		AccountID:          account.AccountID,
		ActivityAttributes: sub.Activity,
		FinalStatus:        models.StatusForReview,
		CreatedAt:          now,
	}

	url, err := uploadDocument(ctx, as.files, helpers.ActivityFolder,
		helpers.StoredName(activity.ActivityID, "pdf"), helpers.PDFContentType, sub.Document)
	if err != nil {
		return nil, err
	}
	activity.DocumentURL = url

	schedule := &models.Schedule{
		ScheduleID:         uuid.NewString(),
		ScheduleAttributes: sub.Schedule,
	}

	created, err := as.activityRepo.CreateActivity(ctx, activity, schedule, accessToken)
	if err != nil {
		// the upload already happened; leave a trail to the orphaned file
		as.logger.Warn("document stored for unsaved activity",
			"activity_id", activity.ActivityID,
			"document_url", url,
			"error", err,
		)
		return nil, err
	}

	actor := models.ActorOwner
	if sub.Mode == activityform.ModeAdmin {
		actor = models.ActorStaff
	}
	as.recordChange(ctx, created.ActivityID, "", models.StatusForReview, account.AccountID, actor, "")
	return created, nil
}

// AppealActivity applies an owner's edit. The activity returns to staff
// with status "For Appeal" and both staff decisions cleared.
func (as *ActivityService) AppealActivity(ctx context.Context, activityID string, payload activityform.AppealPayload, account *models.Account, accessToken string) (*models.Activity, error) {
	if account == nil {
		return nil, fmt.Errorf("no account for session: %w", models.ErrNotFound)
	}
	reason := strings.TrimSpace(payload.AppealReason)
	if !activityform.ValidAppealReason(reason) {
		return nil, &ValidationError{Field: "appeal_reason", Message: "appeal reason must be at least 5 characters"}
	}

	existing, err := as.activityRepo.GetActivityByID(ctx, activityID, accessToken)
	if err != nil {
		return nil, err
	}
	if existing.AccountID != account.AccountID {
		return nil, fmt.Errorf("activity %s belongs to another account: %w", activityID, models.ErrForbidden)
	}
	if !models.CanTransition(models.ActorOwner, existing.FinalStatus, models.StatusForAppeal) {
		return nil, fmt.Errorf("cannot appeal an activity that is %s: %w", existing.FinalStatus, models.ErrInvalidTransition)
	}

	act, sched := payload.ActivityAttributes, payload.ScheduleAttributes
	activityform.Normalize(&act, &sched)
	if res := activityform.CheckPayload(activityform.ModeEdit, act, sched, as.now()); !res.Valid {
		return nil, &ValidationError{Field: res.Field, Message: res.Message}
	}

	fields, err := toFields(act)
	if err != nil {
		return nil, err
	}
	fields["appeal_reason"] = reason
	fields["final_status"] = models.StatusForAppeal
	fields["sro_approval_status"] = nil
	fields["odsa_approval_status"] = nil
	fields["sro_remarks"] = nil
	fields["odsa_remarks"] = nil

	updated, err := as.activityRepo.UpdateActivity(ctx, activityID, fields, accessToken)
	if err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		ScheduleID:         uuid.NewString(),
		ActivityID:         activityID,
		ScheduleAttributes: sched,
	}
	if len(existing.Schedule) > 0 && existing.Schedule[0].ScheduleID != "" {
		schedule.ScheduleID = existing.Schedule[0].ScheduleID
	}
	if err := as.activityRepo.SaveSchedule(ctx, schedule, accessToken); err != nil {
		return nil, err
	}
	updated.Schedule = []models.Schedule{*schedule}

	as.recordChange(ctx, activityID, existing.FinalStatus, models.StatusForAppeal, account.AccountID, models.ActorOwner, reason)
	return updated, nil
}

// ReviewActivity records one staff decision and derives the final status.
func (as *ActivityService) ReviewActivity(ctx context.Context, activityID string, review models.StaffReview, account *models.Account, accessToken string) (*models.Activity, error) {
	if account == nil || !account.IsStaff() {
		return nil, fmt.Errorf("reviews require a staff account: %w", models.ErrForbidden)
	}
	review.Sanitize()
	if err := review.ValidateReview(); err != nil {
		return nil, &ValidationError{Field: "decision", Message: err.Error()}
	}
	if !models.CanReview(account.Role, review.Role) {
		return nil, fmt.Errorf("%s accounts cannot record %s decisions: %w", account.Role, review.Role, models.ErrForbidden)
	}

	existing, err := as.activityRepo.GetActivityByID(ctx, activityID, accessToken)
	if err != nil {
		return nil, err
	}
	from := existing.FinalStatus
	to := review.Apply(existing)
	if !models.CanTransition(models.ActorStaff, from, to) {
		return nil, fmt.Errorf("cannot move activity from %s to %s: %w", from, to, models.ErrInvalidTransition)
	}

	fields := map[string]interface{}{
		"sro_approval_status":  existing.SROApprovalStatus,
		"odsa_approval_status": existing.ODSAApprovalStatus,
		"sro_remarks":          existing.SRORemarks,
		"odsa_remarks":         existing.ODSARemarks,
		"final_status":         to,
	}
	updated, err := as.activityRepo.UpdateActivity(ctx, activityID, fields, accessToken)
	if err != nil {
		return nil, err
	}

	if from != to {
		as.recordChange(ctx, activityID, from, to, account.AccountID, models.ActorStaff, review.Remarks)
	}
	return updated, nil
}

// Summary lists activities for the staff dashboard.
func (as *ActivityService) Summary(ctx context.Context, filter models.SummaryFilter, accessToken string) ([]models.ActivitySummary, error) {
	rows, err := as.activityRepo.ListActivities(ctx, models.ActivityQuery{
		ActivityType:   filter.ActivityType,
		Status:         filter.Status,
		OrganizationID: filter.OrganizationID,
	}, accessToken)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ActivitySummary, 0, len(rows))
	for _, a := range rows {
		sum := a.Summarize()
		if sum.Matches(filter) {
			summaries = append(summaries, sum)
		}
	}
	return summaries, nil
}

// Incoming returns every activity still waiting on staff.
func (as *ActivityService) Incoming(ctx context.Context, accessToken string) ([]*models.Activity, error) {
	return as.activityRepo.ListActivities(ctx, models.ActivityQuery{Statuses: models.OpenStatuses}, accessToken)
}

func (as *ActivityService) ActivitiesByAccount(ctx context.Context, accountID string, accessToken string) ([]*models.Activity, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, &ValidationError{Field: "account_id", Message: "account ID is required"}
	}
	return as.activityRepo.ListActivities(ctx, models.ActivityQuery{AccountID: accountID}, accessToken)
}

// AcademicYears returns the distinct academic years activities are
// scheduled in, newest first.
func (as *ActivityService) AcademicYears(ctx context.Context, accessToken string) ([]string, error) {
	rows, err := as.activityRepo.ListActivities(ctx, models.ActivityQuery{}, accessToken)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	years := []string{}
	for _, a := range rows {
		for _, s := range a.Schedule {
			d, err := time.Parse(models.DateLayout, s.StartDate)
			if err != nil {
				continue
			}
			y := models.AcademicYearOf(d)
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}

// History returns the status changes of an activity the caller may see.
func (as *ActivityService) History(ctx context.Context, activityID string, account *models.Account, accessToken string) ([]*models.StatusChange, error) {
	activity, err := as.activityRepo.GetActivityByID(ctx, activityID, accessToken)
	if err != nil {
		return nil, err
	}
	if account == nil || (!account.IsStaff() && activity.AccountID != account.AccountID) {
		return nil, fmt.Errorf("activity %s: %w", activityID, models.ErrForbidden)
	}
	if as.historyRepo == nil {
		return []*models.StatusChange{}, nil
	}
	return as.historyRepo.GetStatusHistory(ctx, activityID)
}

func (as *ActivityService) recordChange(ctx context.Context, activityID string, from, to models.Status, by string, actor models.Actor, reason string) {
	if as.historyRepo == nil {
		return
	}
	err := as.historyRepo.RecordStatusChange(ctx, &models.StatusChange{
		ActivityID: activityID,
		From:       from,
		To:         to,
		ChangedBy:  by,
		Actor:      actor,
		Reason:     reason,
		ChangedAt:  as.now(),
	})
	if err != nil {
		// the activity row is the source of truth; history is best effort
		as.logger.Warn("failed to record status change",
			"activity_id", activityID,
			"to", to,
			"error", err,
		)
	}
}

func toFields(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %v", err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode update: %v", err)
	}
	return fields, nil
}

// StatusCode maps service errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound), errors.Is(err, ErrNothingToGenerate):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
