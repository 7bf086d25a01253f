// Package activityform holds the activity-request wizard shared by the
// create, edit (appeal) and admin-create flows: field and section
// validation, required-document computation, section navigation and
// payload assembly.
package activityform

import (
	"path/filepath"
	"strings"
)

// Mode selects which submission flow the wizard is serving.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
	ModeAdmin  Mode = "admin"
)

func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCreate, ModeEdit, ModeAdmin:
		return m, true
	}
	return "", false
}

// Rules are the mode-dependent knobs of the validators.
type Rules struct {
	Mode Mode
	// EarliestStartOffset is the number of days after today the start date may be.
	EarliestStartOffset int
	// StudentContactTag is the validator tag applied to the student contact number.
	StudentContactTag   string
	RequireFile         bool
	RequireAppealReason bool
	BusinessDayAdvisory bool
}

// RulesFor returns the rule set of a mode. The contact-number rule differs
// per flow and is kept that way on purpose.
func RulesFor(mode Mode) Rules {
	switch mode {
	case ModeEdit:
		return Rules{
			Mode:                ModeEdit,
			StudentContactTag:   "digits11",
			RequireAppealReason: true,
		}
	case ModeAdmin:
		return Rules{
			Mode:                ModeAdmin,
			EarliestStartOffset: 1,
			StudentContactTag:   "ph_mobile",
			RequireFile:         true,
			BusinessDayAdvisory: true,
		}
	default:
		return Rules{
			Mode:                ModeCreate,
			StudentContactTag:   "digits11",
			RequireFile:         true,
			BusinessDayAdvisory: true,
		}
	}
}

// Radio values used by the form.
const (
	Yes       = "yes"
	No        = "no"
	OneTime   = "one-time"
	Recurring = "recurring"
	NotApply  = "N/A"
)

// Attachment describes an uploaded file. Path is only set by callers that
// read the file from disk.
type Attachment struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// IsPDF checks the declared content type, or the extension when none is declared.
func (a Attachment) IsPDF() bool {
	if a.ContentType != "" {
		return strings.EqualFold(strings.TrimSpace(strings.Split(a.ContentType, ";")[0]), "application/pdf")
	}
	return strings.EqualFold(filepath.Ext(a.Name), ".pdf")
}

// RecurringDays flags the weekdays a recurring activity is held on.
type RecurringDays struct {
	Monday    bool `json:"monday"`
	Tuesday   bool `json:"tuesday"`
	Wednesday bool `json:"wednesday"`
	Thursday  bool `json:"thursday"`
	Friday    bool `json:"friday"`
	Saturday  bool `json:"saturday"`
	Sunday    bool `json:"sunday"`
}

func (d RecurringDays) Any() bool {
	return d.Monday || d.Tuesday || d.Wednesday || d.Thursday || d.Friday || d.Saturday || d.Sunday
}

// FormState is the flat state of the wizard, keyed the way the form names its controls.
type FormState struct {
	ActivityID string `json:"activityId,omitempty"`

	// general-info
	OrganizationID      string       `json:"organizationId"`
	StudentPosition     string       `json:"studentPosition"`
	StudentContact      string       `json:"studentContact"`
	ActivityName        string       `json:"activityName"`
	ActivityDescription string       `json:"activityDescription"`
	ActivityType        string       `json:"activityType"`
	SelectedSDGs        SelectionSet `json:"selectedSDGs"`
	ChargingFees        string       `json:"chargingFees"`
	Partnering          string       `json:"partnering"`
	SelectedPartners    SelectionSet `json:"selectedPartners"`
	PartnerRole         string       `json:"partnerRole"`

	// date-info
	Recurring     string        `json:"recurring"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
	StartTime     string        `json:"startTime"`
	EndTime       string        `json:"endTime"`
	RecurringDays RecurringDays `json:"recurringDays"`

	// specifications
	OffCampus            string `json:"offCampus"`
	Venue                string `json:"venue"`
	VenueApprover        string `json:"venueApprover"`
	VenueApproverContact string `json:"venueApproverContact"`
	GreenMonitorName     string `json:"greenMonitorName"`
	GreenMonitorContact  string `json:"greenMonitorContact"`

	// submission
	Files        []Attachment `json:"files,omitempty"`
	AppealReason string       `json:"appealReason,omitempty"`
}

// IsRecurring reports whether the recurring radio is set to recurring.
func (f *FormState) IsRecurring() bool {
	return f.Recurring == Recurring
}

// EffectiveEndDate is the end date the schedule will carry.
func (f *FormState) EffectiveEndDate() string {
	if f.IsRecurring() {
		return f.EndDate
	}
	return f.StartDate
}

// ApplyOffCampus forces the venue approver fields to "N/A" for off-campus
// activities, matching what the form displays.
func (f *FormState) ApplyOffCampus() {
	if f.OffCampus == Yes {
		f.VenueApprover = NotApply
		f.VenueApproverContact = NotApply
	}
}
