package activityform

import (
	"fmt"
	"time"
)

type Section string

const (
	SectionGeneralInfo    Section = "general-info"
	SectionDateInfo       Section = "date-info"
	SectionSpecifications Section = "specifications"
	SectionSubmission     Section = "submission"
)

// Sections in wizard order.
var Sections = []Section{
	SectionGeneralInfo,
	SectionDateInfo,
	SectionSpecifications,
	SectionSubmission,
}

func (s Section) Index() int {
	for i, sec := range Sections {
		if sec == s {
			return i
		}
	}
	return -1
}

func ParseSection(v string) (Section, error) {
	s := Section(v)
	if s.Index() < 0 {
		return "", fmt.Errorf("unknown section %q", v)
	}
	return s, nil
}

// Result is the outcome of validating a section. Field names the first
// control that failed.
type Result struct {
	Valid   bool    `json:"valid"`
	Section Section `json:"section,omitempty"`
	Field   string  `json:"field,omitempty"`
	Message string  `json:"message,omitempty"`
}

var passed = Result{Valid: true}

func fail(section Section, field, message string) Result {
	return Result{Section: section, Field: field, Message: message}
}

type rule struct {
	field   string
	message string
	valid   func(f *FormState, r Rules, today time.Time) bool
}

var generalInfoRules = []rule{
	{"organizationId", "Please select an organization.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidOrganization(f.OrganizationID) }},
	{"studentPosition", "Student position must be between 3 and 50 characters.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidStudentPosition(f.StudentPosition) }},
	{"studentContact", "", // message depends on the mode
		func(f *FormState, r Rules, _ time.Time) bool { return ValidStudentContact(f.StudentContact, r.StudentContactTag) }},
	{"activityName", "Activity name must be between 3 and 100 characters.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidActivityName(f.ActivityName) }},
	{"activityDescription", "Activity description must be at least 20 characters.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidActivityDescription(f.ActivityDescription) }},
	{"activityType", "Please select an activity type.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidActivityType(f.ActivityType) }},
	{"selectedSDGs", "Please select at least one Sustainable Development Goal.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidSDGs(f.SelectedSDGs) }},
	{"chargingFees", "Please indicate whether the activity charges fees.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidYesNo(f.ChargingFees) }},
	{"partnering", "Please indicate whether the activity has a university partner.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidYesNo(f.Partnering) }},
	{"selectedPartners", "Please select at least one partner unit.",
		func(f *FormState, _ Rules, _ time.Time) bool {
			return f.Partnering != Yes || ValidPartners(f.SelectedPartners)
		}},
	{"partnerRole", "Partner role must be at least 3 characters.",
		func(f *FormState, _ Rules, _ time.Time) bool {
			return f.Partnering != Yes || ValidPartnerRole(f.PartnerRole)
		}},
}

var dateInfoRules = []rule{
	{"recurring", "Please indicate whether the activity is one-time or recurring.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidRecurrence(f.Recurring) }},
	{"startDate", "", // message depends on the mode
		func(f *FormState, r Rules, today time.Time) bool {
			return ValidStartDate(f.StartDate, today.AddDate(0, 0, r.EarliestStartOffset))
		}},
	{"endDate", "End date must not be before the start date.",
		func(f *FormState, _ Rules, _ time.Time) bool {
			return !f.IsRecurring() || ValidEndDate(f.StartDate, f.EndDate)
		}},
	{"startTime", "Please provide a start time.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidTime(f.StartTime) }},
	{"endTime", "Please provide an end time.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidTime(f.EndTime) }},
	{"recurringDays", "Please select at least one day for a recurring activity.",
		func(f *FormState, _ Rules, _ time.Time) bool {
			return !f.IsRecurring() || ValidRecurringDays(f.RecurringDays)
		}},
}

var specificationsRules = []rule{
	{"offCampus", "Please indicate whether the activity is off campus.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidYesNo(f.OffCampus) }},
	{"venue", "Venue is required and must be at most 100 characters.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidVenue(f.Venue) }},
	{"venueApprover", "Venue approver is required.",
		func(f *FormState, _ Rules, _ time.Time) bool {
			return f.OffCampus == Yes || ValidPersonName(f.VenueApprover)
		}},
	{"venueApproverContact", "Venue approver contact must be a 09XXXXXXXXX number or an @up.edu.ph / @gmail.com email.",
		func(f *FormState, _ Rules, _ time.Time) bool {
			return f.OffCampus == Yes || ValidContactInfo(f.VenueApproverContact)
		}},
	{"greenMonitorName", "Green campus monitor is required.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidPersonName(f.GreenMonitorName) }},
	{"greenMonitorContact", "Green campus monitor contact must be a 09XXXXXXXXX number or an @up.edu.ph / @gmail.com email.",
		func(f *FormState, _ Rules, _ time.Time) bool { return ValidContactInfo(f.GreenMonitorContact) }},
}

var submissionRules = []rule{
	{"files", "Please attach exactly one PDF file.",
		func(f *FormState, r Rules, _ time.Time) bool {
			return !r.RequireFile || ValidAttachments(f.Files)
		}},
	{"appealReason", "Appeal reason must be at least 5 characters.",
		func(f *FormState, r Rules, _ time.Time) bool {
			return !r.RequireAppealReason || ValidAppealReason(f.AppealReason)
		}},
}

func rulesOf(section Section) []rule {
	switch section {
	case SectionGeneralInfo:
		return generalInfoRules
	case SectionDateInfo:
		return dateInfoRules
	case SectionSpecifications:
		return specificationsRules
	case SectionSubmission:
		return submissionRules
	}
	return nil
}

// ValidateSection checks the rules of one section in order and reports the
// first one violated. Off-campus forms skip the venue approver rules; the
// approver fields are forced to "N/A" by ApplyOffCampus.
func ValidateSection(section Section, f *FormState, r Rules, today time.Time) Result {
	if section.Index() < 0 {
		return fail(section, "", fmt.Sprintf("unknown section %q", section))
	}
	for _, rl := range rulesOf(section) {
		if rl.valid(f, r, today) {
			continue
		}
		return fail(section, rl.field, messageFor(rl, r))
	}
	return passed
}

func messageFor(rl rule, r Rules) string {
	if rl.message != "" {
		return rl.message
	}
	switch rl.field {
	case "studentContact":
		if r.StudentContactTag == "ph_mobile" {
			return "Student contact must be a mobile number in the format 09XXXXXXXXX."
		}
		return "Student contact must be exactly 11 digits."
	case "startDate":
		if r.EarliestStartOffset > 0 {
			return "Start date must be tomorrow or later."
		}
		return "Start date must not be in the past."
	}
	return "Invalid value."
}

// ValidateAll runs every section in order and returns the first failure.
func ValidateAll(f *FormState, r Rules, today time.Time) Result {
	for _, s := range Sections {
		if res := ValidateSection(s, f, r, today); !res.Valid {
			return res
		}
	}
	return passed
}
