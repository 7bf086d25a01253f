package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/activityportal/internal/helpers"
	"github.com/joshua-takyi/activityportal/internal/models"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

var summaryHeader = []interface{}{
	"Activity ID", "Activity", "Organization", "Type", "Start Date", "End Date",
	"Start Time", "End Time", "Venue", "Off Campus", "SRO", "ODSA", "Status",
}

// ApprovalSlips describes a generated approval-slip workbook.
type ApprovalSlips struct {
	URL         string    `json:"url"`
	FileName    string    `json:"file_name"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerateApprovalSlips builds a workbook with one slip per approved
// activity, stores it and returns where it can be downloaded.
func (as *ActivityService) GenerateApprovalSlips(ctx context.Context, account *models.Account, accessToken string) (*ApprovalSlips, error) {
	if account == nil || !account.IsStaff() {
		return nil, fmt.Errorf("approval slips require a staff account: %w", models.ErrForbidden)
	}
	approved, err := as.activityRepo.ListActivities(ctx, models.ActivityQuery{Status: string(models.StatusApproved)}, accessToken)
	if err != nil {
		return nil, err
	}
	if len(approved) == 0 {
		return nil, ErrNothingToGenerate
	}

	now := as.now()
	buf, err := BuildApprovalSlips(approved, now)
	if err != nil {
		return nil, err
	}

	name := helpers.StoredName("approval-slips-"+now.Format("20060102"), "xlsx")
	url, err := uploadDocument(ctx, as.files, helpers.ApprovalSlipFolder, name, helpers.XLSXContentType, buf.Bytes())
	if err != nil {
		return nil, err
	}

	as.logger.Info("approval slips generated", "count", len(approved), "generated_by", account.AccountID)
	return &ApprovalSlips{URL: url, FileName: name, Count: len(approved), GeneratedAt: now}, nil
}

// BuildApprovalSlips renders a summary sheet followed by one sheet per activity.
func BuildApprovalSlips(activities []*models.Activity, generatedAt time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %v", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %v", err)
	}

	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return nil, fmt.Errorf("failed to write summary header: %v", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(summaryHeader))
	if err := f.SetCellStyle(summarySheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("failed to style summary header: %v", err)
	}

	for i, a := range activities {
		sched := firstSchedule(a)
		row := []interface{}{
			a.ActivityID, a.ActivityName, orgName(a), a.ActivityType,
			sched.StartDate, sched.EndDate, sched.StartTime, sched.EndTime,
			a.Venue, yesNo(a.IsOffCampus), deref(a.SROApprovalStatus), deref(a.ODSAApprovalStatus),
			string(a.FinalStatus),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %v", err)
		}

		if err := writeSlip(f, fmt.Sprintf("Slip %d", i+1), a, sched, generatedAt, bold); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %v", err)
	}
	return buf, nil
}

func writeSlip(f *excelize.File, sheet string, a *models.Activity, sched models.ScheduleAttributes, generatedAt time.Time, bold int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %v", sheet, err)
	}
	rows := [][]interface{}{
		{"ACTIVITY APPROVAL SLIP"},
		{"Activity", a.ActivityName},
		{"Organization", orgName(a)},
		{"Activity Type", a.ActivityType},
		{"Date", dateRange(sched)},
		{"Time", sched.StartTime + " - " + sched.EndTime},
		{"Venue", a.Venue},
		{"Off Campus", yesNo(a.IsOffCampus)},
		{"Green Campus Monitor", a.GreenMonitorName},
		{"SRO Decision", deref(a.SROApprovalStatus)},
		{"SRO Remarks", deref(a.SRORemarks)},
		{"ODSA Decision", deref(a.ODSAApprovalStatus)},
		{"ODSA Remarks", deref(a.ODSARemarks)},
		{"Status", string(a.FinalStatus)},
		{"Generated", generatedAt.Format("2006-01-02 15:04")},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write slip row: %v", err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return fmt.Errorf("failed to style slip: %v", err)
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

func firstSchedule(a *models.Activity) models.ScheduleAttributes {
	if len(a.Schedule) == 0 {
		return models.ScheduleAttributes{}
	}
	return a.Schedule[0].ScheduleAttributes
}

func dateRange(s models.ScheduleAttributes) string {
	if s.EndDate == "" || s.EndDate == s.StartDate {
		return s.StartDate
	}
	return s.StartDate + " to " + s.EndDate
}

func orgName(a *models.Activity) string {
	if a.Organization != nil {
		return a.Organization.OrgName
	}
	return a.OrganizationID
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
