package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
)

const activityWithRelations = "*,organization(org_id,org_name,org_email,adviser_name,adviser_contact)," +
	"activity_schedule(*),account(account_id,email,full_name,role)"

// ActivityQuery narrows ListActivities. Empty fields do not filter.
type ActivityQuery struct {
	ActivityType   string
	Status         string
	OrganizationID string
	AccountID      string
	Statuses       []Status
}

type ActivityRepo interface {
	CreateActivity(ctx context.Context, activity *Activity, schedule *Schedule, accessToken string) (*Activity, error)
	GetActivityByID(ctx context.Context, id string, accessToken string) (*Activity, error)
	UpdateActivity(ctx context.Context, id string, fields map[string]interface{}, accessToken string) (*Activity, error)
	SaveSchedule(ctx context.Context, schedule *Schedule, accessToken string) error
	ListActivities(ctx context.Context, query ActivityQuery, accessToken string) ([]*Activity, error)
}

// CreateActivity inserts the activity row and then its schedule row.
// The two writes are not atomic; a failed schedule insert leaves the activity in place.
func (su *SupabaseRepo) CreateActivity(ctx context.Context, activity *Activity, schedule *Schedule, accessToken string) (*Activity, error) {
	client, err := su.client(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	data, _, err := client.From(ActivityTable).
		Insert(activity, false, "", "representation", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert activity: %v", err)
	}

	var created []Activity
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created activity: %v", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("no activity returned after insert")
	}

	if schedule != nil {
		schedule.ActivityID = created[0].ActivityID
		if _, _, err := client.From(ScheduleTable).
			Insert(schedule, false, "", "minimal", "").
			Execute(); err != nil {
			return nil, fmt.Errorf("activity %s created but schedule insert failed: %v", created[0].ActivityID, err)
		}
		created[0].Schedule = []Schedule{*schedule}
	}

	return &created[0], nil
}

func (su *SupabaseRepo) GetActivityByID(ctx context.Context, id string, accessToken string) (*Activity, error) {
	if id == "" {
		return nil, fmt.Errorf("activity ID is required")
	}
	client, err := su.client(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(ActivityTable).
		Select(activityWithRelations, "", false).
		Eq("activity_id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %v", err)
	}

	var rows []Activity
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activity rows: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	return &rows[0], nil
}

func (su *SupabaseRepo) UpdateActivity(ctx context.Context, id string, fields map[string]interface{}, accessToken string) (*Activity, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	client, err := su.client(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ActivityTable).
		Update(fields, "representation", "exact").
		Eq("activity_id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}

	var rows []Activity
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated activity: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no activity data returned after update")
	}
	return &rows[0], nil
}

// SaveSchedule updates the activity's schedule row, inserting it when none exists.
func (su *SupabaseRepo) SaveSchedule(ctx context.Context, schedule *Schedule, accessToken string) error {
	client, err := su.client(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	_, count, err := client.From(ScheduleTable).
		Update(schedule.ScheduleAttributes, "minimal", "exact").
		Eq("activity_id", schedule.ActivityID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update schedule: %v", err)
	}
	if count > 0 {
		return nil
	}

	if _, _, err := client.From(ScheduleTable).
		Insert(schedule, false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("failed to insert schedule: %v", err)
	}
	return nil
}

func (su *SupabaseRepo) ListActivities(ctx context.Context, query ActivityQuery, accessToken string) ([]*Activity, error) {
	client, err := su.client(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	builder := client.From(ActivityTable).Select(activityWithRelations, "exact", false)
	if query.ActivityType != "" {
		builder = builder.Eq("activity_type", query.ActivityType)
	}
	if query.Status != "" {
		builder = builder.Eq("final_status", query.Status)
	}
	if query.OrganizationID != "" {
		builder = builder.Eq("organization_id", query.OrganizationID)
	}
	if query.AccountID != "" {
		builder = builder.Eq("account_id", query.AccountID)
	}
	if len(query.Statuses) > 0 {
		statuses := make([]string, 0, len(query.Statuses))
		for _, s := range query.Statuses {
			statuses = append(statuses, string(s))
		}
		builder = builder.In("final_status", statuses)
	}

	data, _, err := builder.Order("created_at", &postgrest.OrderOpts{Ascending: false}).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %v", err)
	}

	var rows []*Activity
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activities: %v", err)
	}
	if rows == nil {
		rows = []*Activity{}
	}
	return rows, nil
}
