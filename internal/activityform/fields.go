package activityform

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	digits11Regex = regexp.MustCompile(`^\d{11}$`)
	mobileRegex   = regexp.MustCompile(`^09\d{9}$`)
	emailRegex    = regexp.MustCompile(`^[^@]+@(up\.edu\.ph|gmail\.com)$`)
)

// ActivityTypes is the fixed list offered by the activity type select.
var ActivityTypes = []string{
	"Academic",
	"Cultural",
	"Sports",
	"Community Outreach",
	"Leadership Training",
	"Seminar/Workshop",
	"Fundraising",
	"Recruitment",
	"General Assembly",
	"Social",
	"Competition",
	"Others",
}

// SDGGoals are the seventeen Sustainable Development Goal keys.
var SDGGoals = []string{
	"noPoverty",
	"zeroHunger",
	"goodHealth",
	"qualityEducation",
	"genderEquality",
	"cleanWater",
	"affordableEnergy",
	"decentWork",
	"industryInnovation",
	"reducedInequalities",
	"sustainableCities",
	"responsibleConsumption",
	"climateAction",
	"lifeBelowWater",
	"lifeOnLand",
	"peaceJustice",
	"partnerships",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("digits11", func(fl validator.FieldLevel) bool {
		return digits11Regex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("ph_mobile", func(fl validator.FieldLevel) bool {
		return mobileRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("contact_info", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return mobileRegex.MatchString(s) || emailRegex.MatchString(s)
	})
	v.RegisterValidation("yes_no", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == Yes || s == No
	})
	v.RegisterValidation("recurrence", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == OneTime || s == Recurring
	})
	return v
}

func check(value, tag string) bool {
	return validate.Var(value, tag) == nil
}

func runeLenBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= min && (max < 0 || n <= max)
}

func ValidOrganization(v string) bool {
	return strings.TrimSpace(v) != ""
}

func ValidStudentPosition(v string) bool {
	return runeLenBetween(v, 3, 50)
}

// ValidStudentContact applies the mode's contact tag ("digits11" or "ph_mobile").
func ValidStudentContact(v, tag string) bool {
	if tag == "" {
		tag = "digits11"
	}
	return check(v, tag)
}

func ValidActivityName(v string) bool {
	return runeLenBetween(v, 3, 100)
}

func ValidActivityDescription(v string) bool {
	return runeLenBetween(v, 20, -1)
}

func ValidActivityType(v string) bool {
	return slices.Contains(ActivityTypes, v)
}

// ValidSDGs needs at least one goal selected and every selected key to be
// one of the seventeen goals, the same rule the server applies to sdg_goals.
func ValidSDGs(sel SelectionSet) bool {
	keys := sel.Keys()
	if len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		if !slices.Contains(SDGGoals, key) {
			return false
		}
	}
	return true
}

func ValidYesNo(v string) bool {
	return check(v, "yes_no")
}

func ValidRecurrence(v string) bool {
	return check(v, "recurrence")
}

// ParseDate parses a YYYY-MM-DD value at midnight UTC.
func ParseDate(v string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day truncates t to its calendar date in UTC, keeping t's local date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidStartDate rejects empty values and dates before earliest.
func ValidStartDate(v string, earliest time.Time) bool {
	d, ok := ParseDate(v)
	if !ok {
		return false
	}
	return !d.Before(Day(earliest))
}

func ValidEndDate(start, end string) bool {
	e, ok := ParseDate(end)
	if !ok {
		return false
	}
	s, ok := ParseDate(start)
	if !ok {
		return false
	}
	return !e.Before(s)
}

func ValidTime(v string) bool {
	return strings.TrimSpace(v) != ""
}

func ValidRecurringDays(d RecurringDays) bool {
	return d.Any()
}

func ValidVenue(v string) bool {
	return runeLenBetween(v, 1, 100)
}

func ValidPersonName(v string) bool {
	return runeLenBetween(v, 1, 100)
}

// ValidContactInfo accepts a local mobile number or a campus/gmail address.
func ValidContactInfo(v string) bool {
	return check(strings.TrimSpace(v), "contact_info")
}

func ValidPartners(sel SelectionSet) bool {
	return sel.AnySelected()
}

func ValidPartnerRole(v string) bool {
	return runeLenBetween(v, 3, -1)
}

// ValidAttachments requires exactly one PDF.
func ValidAttachments(files []Attachment) bool {
	return len(files) == 1 && files[0].IsPDF()
}

func ValidAppealReason(v string) bool {
	return runeLenBetween(v, 5, -1)
}

// BusinessDaysUntil counts weekdays after from up to and including to.
// Saturdays and Sundays are skipped; there is no holiday calendar.
func BusinessDaysUntil(from, to time.Time) int {
	from, to = Day(from), Day(to)
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// MinBusinessDays is the lead time below which an advisory is raised.
const MinBusinessDays = 5

// Advisory returns a non-blocking notice when the start date is too close.
func Advisory(startDate string, today time.Time) string {
	start, ok := ParseDate(startDate)
	if !ok {
		return ""
	}
	if BusinessDaysUntil(today, start) < MinBusinessDays {
		return "Activities should be submitted at least 5 business days before the start date. Late requests may not be processed in time."
	}
	return ""
}
