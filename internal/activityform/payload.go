package activityform

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/joshua-takyi/activityportal/internal/models"
)

const listSeparator = ", "

// Assemble turns the flat form state into the activity and schedule
// records written by the backend.
func Assemble(f *FormState) (models.ActivityAttributes, models.ScheduleAttributes) {
	f.ApplyOffCampus()

	act := models.ActivityAttributes{
		OrganizationID:       strings.TrimSpace(f.OrganizationID),
		StudentPosition:      strings.TrimSpace(f.StudentPosition),
		StudentContact:       strings.TrimSpace(f.StudentContact),
		ActivityName:         strings.TrimSpace(f.ActivityName),
		ActivityDescription:  strings.TrimSpace(f.ActivityDescription),
		ActivityType:         f.ActivityType,
		SDGGoals:             strings.Join(f.SelectedSDGs.Keys(), listSeparator),
		ChargeFee:            f.ChargingFees == Yes,
		UniversityPartner:    f.Partnering == Yes,
		IsOffCampus:          f.OffCampus == Yes,
		Venue:                strings.TrimSpace(f.Venue),
		VenueApprover:        strings.TrimSpace(f.VenueApprover),
		VenueApproverContact: strings.TrimSpace(f.VenueApproverContact),
		GreenMonitorName:     strings.TrimSpace(f.GreenMonitorName),
		GreenMonitorContact:  strings.TrimSpace(f.GreenMonitorContact),
	}
	if act.UniversityPartner {
		act.PartnerName = f.SelectedPartners.Join()
		act.PartnerRole = strings.TrimSpace(f.PartnerRole)
	}

	sched := models.ScheduleAttributes{
		StartDate:   f.StartDate,
		EndDate:     f.EffectiveEndDate(),
		StartTime:   f.StartTime,
		EndTime:     f.EndTime,
		IsRecurring: f.IsRecurring(),
	}
	if sched.IsRecurring {
		days := encodeDays(f.RecurringDays)
		sched.RecurringDays = &days
	}
	return act, sched
}

func encodeDays(d RecurringDays) string {
	b, err := json.Marshal(d)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DecodeDays parses the recurring_days JSON text of a schedule.
func DecodeDays(s *string) (RecurringDays, bool) {
	var d RecurringDays
	if s == nil || strings.TrimSpace(*s) == "" {
		return d, false
	}
	if err := json.Unmarshal([]byte(*s), &d); err != nil {
		return d, false
	}
	return d, true
}

// AppealPayload is the JSON body of an edit (appeal) submission. The staff
// decision fields are always sent as null so the activity is reviewed again.
type AppealPayload struct {
	models.ActivityAttributes
	models.ScheduleAttributes
	ActivityID         string        `json:"activity_id"`
	AppealReason       string        `json:"appeal_reason"`
	FinalStatus        models.Status `json:"final_status"`
	SROApprovalStatus  *string       `json:"sro_approval_status"`
	ODSAApprovalStatus *string       `json:"odsa_approval_status"`
	SRORemarks         *string       `json:"sro_remarks"`
	ODSARemarks        *string       `json:"odsa_remarks"`
}

func BuildAppeal(f *FormState) AppealPayload {
	act, sched := Assemble(f)
	return AppealPayload{
		ActivityAttributes: act,
		ScheduleAttributes: sched,
		ActivityID:         f.ActivityID,
		AppealReason:       strings.TrimSpace(f.AppealReason),
		FinalStatus:        models.StatusForAppeal,
	}
}

// CreateFields is the multipart body of a create submission, without the file.
func CreateFields(f *FormState, now time.Time) map[string]string {
	fields := formFields(f)
	fields["final_status"] = string(models.StatusForReview)
	fields["created_at"] = now.UTC().Format(time.RFC3339)
	return fields
}

// AdminFields is the multipart body of an admin-create submission, without the file.
func AdminFields(f *FormState) map[string]string {
	return formFields(f)
}

func formFields(f *FormState) map[string]string {
	act, sched := Assemble(f)
	fields := act.FormFields()
	for k, v := range sched.FormFields() {
		fields[k] = v
	}
	return fields
}

// Normalize applies the same forcing rules to a payload received by the
// server as Assemble applies to a form.
func Normalize(a *models.ActivityAttributes, s *models.ScheduleAttributes) {
	a.OrganizationID = strings.TrimSpace(a.OrganizationID)
	a.StudentPosition = strings.TrimSpace(a.StudentPosition)
	a.StudentContact = strings.TrimSpace(a.StudentContact)
	a.ActivityName = strings.TrimSpace(a.ActivityName)
	a.ActivityDescription = strings.TrimSpace(a.ActivityDescription)
	a.Venue = strings.TrimSpace(a.Venue)
	a.GreenMonitorName = strings.TrimSpace(a.GreenMonitorName)
	a.GreenMonitorContact = strings.TrimSpace(a.GreenMonitorContact)
	if a.IsOffCampus {
		a.VenueApprover = NotApply
		a.VenueApproverContact = NotApply
	} else {
		a.VenueApprover = strings.TrimSpace(a.VenueApprover)
		a.VenueApproverContact = strings.TrimSpace(a.VenueApproverContact)
	}
	if !a.UniversityPartner {
		a.PartnerName = ""
		a.PartnerRole = ""
	}
	if !s.IsRecurring {
		s.EndDate = s.StartDate
		s.RecurringDays = nil
	}
}

type payloadRule struct {
	field   string
	message string
	valid   func(a *models.ActivityAttributes, s *models.ScheduleAttributes) bool
}

// CheckPayload re-validates an assembled payload on the server. It mirrors
// the section rules, reporting fields by their payload names.
func CheckPayload(mode Mode, a models.ActivityAttributes, s models.ScheduleAttributes, today time.Time) Result {
	r := RulesFor(mode)
	earliest := today.AddDate(0, 0, r.EarliestStartOffset)

	rules := []payloadRule{
		{"organization_id", "organization is required",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool { return ValidOrganization(a.OrganizationID) }},
		{"student_position", "student position must be between 3 and 50 characters",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool { return ValidStudentPosition(a.StudentPosition) }},
		{"student_contact", "student contact is invalid",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool {
				return ValidStudentContact(a.StudentContact, r.StudentContactTag)
			}},
		{"activity_name", "activity name must be between 3 and 100 characters",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool { return ValidActivityName(a.ActivityName) }},
		{"activity_description", "activity description must be at least 20 characters",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool {
				return ValidActivityDescription(a.ActivityDescription)
			}},
		{"activity_type", "activity type is not recognized",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool { return ValidActivityType(a.ActivityType) }},
		{"sdg_goals", "at least one known SDG goal is required",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool { return validGoalList(a.SDGGoals) }},
		{"partner_name", "at least one partner is required",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool {
				return !a.UniversityPartner || strings.TrimSpace(a.PartnerName) != ""
			}},
		{"partner_role", "partner role must be at least 3 characters",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool {
				return !a.UniversityPartner || ValidPartnerRole(a.PartnerRole)
			}},
		{"start_date", "start date is too early",
			func(_ *models.ActivityAttributes, s *models.ScheduleAttributes) bool {
				return ValidStartDate(s.StartDate, earliest)
			}},
		{"end_date", "end date must not be before the start date",
			func(_ *models.ActivityAttributes, s *models.ScheduleAttributes) bool {
				return ValidEndDate(s.StartDate, s.EndDate)
			}},
		{"start_time", "start time is required",
			func(_ *models.ActivityAttributes, s *models.ScheduleAttributes) bool { return ValidTime(s.StartTime) }},
		{"end_time", "end time is required",
			func(_ *models.ActivityAttributes, s *models.ScheduleAttributes) bool { return ValidTime(s.EndTime) }},
		{"recurring_days", "at least one recurring day is required",
			func(_ *models.ActivityAttributes, s *models.ScheduleAttributes) bool {
				if !s.IsRecurring {
					return true
				}
				d, ok := DecodeDays(s.RecurringDays)
				return ok && d.Any()
			}},
		{"venue", "venue is required and must be at most 100 characters",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool { return ValidVenue(a.Venue) }},
		{"venue_approver", "venue approver is required",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool {
				return a.IsOffCampus || ValidPersonName(a.VenueApprover)
			}},
		{"venue_approver_contact", "venue approver contact is invalid",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool {
				return a.IsOffCampus || ValidContactInfo(a.VenueApproverContact)
			}},
		{"green_monitor_name", "green campus monitor is required",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool { return ValidPersonName(a.GreenMonitorName) }},
		{"green_monitor_contact", "green campus monitor contact is invalid",
			func(a *models.ActivityAttributes, _ *models.ScheduleAttributes) bool {
				return ValidContactInfo(a.GreenMonitorContact)
			}},
	}

	for _, rl := range rules {
		if !rl.valid(&a, &s) {
			return Result{Field: rl.field, Message: rl.message}
		}
	}
	return passed
}

func validGoalList(goals string) bool {
	if strings.TrimSpace(goals) == "" {
		return false
	}
	for _, g := range strings.Split(goals, ",") {
		if !slices.Contains(SDGGoals, strings.TrimSpace(g)) {
			return false
		}
	}
	return true
}
