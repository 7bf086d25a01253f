package activityform

import (
	"strconv"
	"strings"
	"time"
)

type Document struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

var (
	DocConceptPaper      = Document{Key: "concept_paper", Name: "Concept Paper"}
	DocSignedRequest     = Document{Key: "signed_request_form", Name: "Signed Activity Request Form"}
	DocOffCampusNotice   = Document{Key: "off_campus_notice", Name: "Off-Campus Activity Notice Form"}
	DocNotarizedWaiver   = Document{Key: "notarized_waiver", Name: "Notarized Parent/Guardian Waiver"}
	DocAfterCurfewPermit = Document{Key: "after_curfew_permit", Name: "After-Curfew Permission Form"}
)

// CurfewHour is the first hour (24h clock) that counts as after curfew.
const CurfewHour = 21

// RequiredDocuments lists what must be attached for an activity. The
// baseline pair is always present; off-campus activities add the notice and
// waiver; weekend dates or times at or after curfew add the permission form.
func RequiredDocuments(offCampus, startDate, endDate, startTime, endTime string) []Document {
	docs := []Document{DocConceptPaper, DocSignedRequest}
	if offCampus == Yes {
		docs = append(docs, DocOffCampusNotice, DocNotarizedWaiver)
	}
	if onWeekend(startDate) || onWeekend(endDate) || afterCurfew(startTime) || afterCurfew(endTime) {
		docs = append(docs, DocAfterCurfewPermit)
	}
	return docs
}

// RequiredDocumentsFor reads the inputs off a form.
func RequiredDocumentsFor(f *FormState) []Document {
	return RequiredDocuments(f.OffCampus, f.StartDate, f.EffectiveEndDate(), f.StartTime, f.EndTime)
}

func onWeekend(date string) bool {
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func afterCurfew(clock string) bool {
	hour, _, found := strings.Cut(strings.TrimSpace(clock), ":")
	if !found {
		return false
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return false
	}
	return h >= CurfewHour
}
