package models

import (
	"strconv"
	"time"
)

type Status string

const (
	StatusForReview       Status = "For Review"
	StatusPending         Status = "Pending"
	StatusApproved        Status = "Approved"
	StatusRejected        Status = "Rejected"
	StatusForAppeal       Status = "For Appeal"
	StatusForCancellation Status = "For Cancellation"
)

// Actor identifies who is moving an activity along its lifecycle.
type Actor string

const (
	ActorOwner Actor = "owner"
	ActorStaff Actor = "staff"
)

var transitions = map[Actor]map[Status][]Status{
	ActorOwner: {
		StatusForReview: {StatusForAppeal, StatusForCancellation},
		StatusPending:   {StatusForAppeal, StatusForCancellation},
		StatusApproved:  {StatusForAppeal, StatusForCancellation},
		StatusForAppeal: {StatusForAppeal},
	},
	ActorStaff: {
		StatusForReview: {StatusApproved, StatusRejected, StatusPending},
		StatusPending:   {StatusApproved, StatusRejected, StatusPending},
		StatusForAppeal: {StatusApproved, StatusRejected, StatusPending},
	},
}

// CanTransition reports whether actor may move an activity from one status to another.
func CanTransition(actor Actor, from, to Status) bool {
	for _, next := range transitions[actor][from] {
		if next == to {
			return true
		}
	}
	return false
}

// Finalized is true for statuses that no longer wait on staff.
func (s Status) Finalized() bool {
	return s == StatusApproved || s == StatusRejected
}

// OpenStatuses are the statuses shown on the staff incoming queue.
var OpenStatuses = []Status{StatusForReview, StatusPending, StatusForAppeal}

// Review decisions recorded per review role.
const (
	DecisionApproved = "Approved"
	DecisionRejected = "Rejected"
	DecisionPending  = "Pending"
)

// DeriveFinalStatus combines the two independent staff decisions.
// Any rejection rejects; both approvals approve; anything else is pending.
func DeriveFinalStatus(sro, odsa *string) Status {
	if (sro != nil && *sro == DecisionRejected) || (odsa != nil && *odsa == DecisionRejected) {
		return StatusRejected
	}
	if sro != nil && odsa != nil && *sro == DecisionApproved && *odsa == DecisionApproved {
		return StatusApproved
	}
	return StatusPending
}

// ActivityAttributes is the activity half of an assembled request payload.
type ActivityAttributes struct {
	OrganizationID       string `json:"organization_id" form:"organization_id"`
	StudentPosition      string `json:"student_position" form:"student_position"`
	StudentContact       string `json:"student_contact" form:"student_contact"`
	ActivityName         string `json:"activity_name" form:"activity_name"`
	ActivityDescription  string `json:"activity_description" form:"activity_description"`
	ActivityType         string `json:"activity_type" form:"activity_type"`
	SDGGoals             string `json:"sdg_goals" form:"sdg_goals"`
	ChargeFee            bool   `json:"charge_fee" form:"charge_fee"`
	UniversityPartner    bool   `json:"university_partner" form:"university_partner"`
	PartnerName          string `json:"partner_name" form:"partner_name"`
	PartnerRole          string `json:"partner_role" form:"partner_role"`
	IsOffCampus          bool   `json:"is_off_campus" form:"is_off_campus"`
	Venue                string `json:"venue" form:"venue"`
	VenueApprover        string `json:"venue_approver" form:"venue_approver"`
	VenueApproverContact string `json:"venue_approver_contact" form:"venue_approver_contact"`
	GreenMonitorName     string `json:"green_monitor_name" form:"green_monitor_name"`
	GreenMonitorContact  string `json:"green_monitor_contact" form:"green_monitor_contact"`
}

// FormFields flattens the attributes into multipart form values.
func (a ActivityAttributes) FormFields() map[string]string {
	return map[string]string{
		"organization_id":        a.OrganizationID,
		"student_position":       a.StudentPosition,
		"student_contact":        a.StudentContact,
		"activity_name":          a.ActivityName,
		"activity_description":   a.ActivityDescription,
		"activity_type":          a.ActivityType,
		"sdg_goals":              a.SDGGoals,
		"charge_fee":             strconv.FormatBool(a.ChargeFee),
		"university_partner":     strconv.FormatBool(a.UniversityPartner),
		"partner_name":           a.PartnerName,
		"partner_role":           a.PartnerRole,
		"is_off_campus":          strconv.FormatBool(a.IsOffCampus),
		"venue":                  a.Venue,
		"venue_approver":         a.VenueApprover,
		"venue_approver_contact": a.VenueApproverContact,
		"green_monitor_name":     a.GreenMonitorName,
		"green_monitor_contact":  a.GreenMonitorContact,
	}
}

// ScheduleAttributes is the schedule half of an assembled request payload.
type ScheduleAttributes struct {
	StartDate     string  `json:"start_date" form:"start_date"` // YYYY-MM-DD
	EndDate       string  `json:"end_date" form:"end_date"`     // YYYY-MM-DD
	StartTime     string  `json:"start_time" form:"start_time"` // HH:MM (24h)
	EndTime       string  `json:"end_time" form:"end_time"`     // HH:MM (24h)
	IsRecurring   bool    `json:"is_recurring" form:"is_recurring"`
	RecurringDays *string `json:"recurring_days" form:"-"` // JSON text, null unless recurring
}

func (s ScheduleAttributes) FormFields() map[string]string {
	fields := map[string]string{
		"start_date":   s.StartDate,
		"end_date":     s.EndDate,
		"start_time":   s.StartTime,
		"end_time":     s.EndTime,
		"is_recurring": strconv.FormatBool(s.IsRecurring),
	}
	if s.RecurringDays != nil {
		fields["recurring_days"] = *s.RecurringDays
	}
	return fields
}

// Activity is a row of the activity table, optionally with embedded relations.
type Activity struct {
	ActivityID string `json:"activity_id"`
	AccountID  string `json:"account_id"`
	ActivityAttributes
	FinalStatus        Status    `json:"final_status"`
	CreatedAt          time.Time `json:"created_at"`
	DocumentURL        string    `json:"document_url,omitempty"`
	AppealReason       *string   `json:"appeal_reason"`
	SROApprovalStatus  *string   `json:"sro_approval_status"`
	ODSAApprovalStatus *string   `json:"odsa_approval_status"`
	SRORemarks         *string   `json:"sro_remarks"`
	ODSARemarks        *string   `json:"odsa_remarks"`

	Organization *Organization `json:"organization,omitempty"`
	Schedule     []Schedule    `json:"activity_schedule,omitempty"`
	Account      *Account      `json:"account,omitempty"`
}

// Schedule is a row of the activity_schedule table.
type Schedule struct {
	ScheduleID string `json:"schedule_id"`
	ActivityID string `json:"activity_id"`
	ScheduleAttributes
}

// ActivitySummary is one row of the staff summary listing.
type ActivitySummary struct {
	ActivityID       string `json:"activity_id"`
	ActivityName     string `json:"activity_name"`
	ActivityType     string `json:"activity_type"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	FinalStatus      Status `json:"final_status"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	AcademicYear     string `json:"academic_year"`
}

// SummaryFilter holds the optional filters of the summary listing.
type SummaryFilter struct {
	ActivityType   string `form:"activity_type"`
	Status         string `form:"status"`
	OrganizationID string `form:"organization"`
	Month          int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year           int    `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// AcademicYearOf returns the academic year ("2024-2025") a date falls in.
// Academic years start in August.
func AcademicYearOf(d time.Time) string {
	start := d.Year()
	if d.Month() < time.August {
		start--
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(start+1)
}

// Summarize flattens an activity with its relations into a summary row.
func (a *Activity) Summarize() ActivitySummary {
	sum := ActivitySummary{
		ActivityID:     a.ActivityID,
		ActivityName:   a.ActivityName,
		ActivityType:   a.ActivityType,
		OrganizationID: a.OrganizationID,
		FinalStatus:    a.FinalStatus,
	}
	if a.Organization != nil {
		sum.OrganizationName = a.Organization.OrgName
	}
	if len(a.Schedule) > 0 {
		sum.StartDate = a.Schedule[0].StartDate
		sum.EndDate = a.Schedule[0].EndDate
		if d, err := time.Parse(DateLayout, sum.StartDate); err == nil {
			sum.AcademicYear = AcademicYearOf(d)
		}
	}
	return sum
}

// Matches reports whether the summary row passes the date part of a filter.
func (s ActivitySummary) Matches(f SummaryFilter) bool {
	if f.Month == 0 && f.Year == 0 {
		return true
	}
	d, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return false
	}
	if f.Month != 0 && int(d.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && d.Year() != f.Year {
		return false
	}
	return true
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
