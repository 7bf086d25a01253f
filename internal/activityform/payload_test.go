package activityform

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/activityportal/internal/models"
)

func TestAssembleJoinsSDGsInOrder(t *testing.T) {
	var f FormState
	err := json.Unmarshal([]byte(`{"selectedSDGs":{"noPoverty":true,"zeroHunger":false,"goodHealth":true}}`), &f)
	require.NoError(t, err)

	act, _ := Assemble(&f)
	assert.Equal(t, "noPoverty, goodHealth", act.SDGGoals)
}

func TestAssembleFlattensPartners(t *testing.T) {
	var f FormState
	err := json.Unmarshal([]byte(`{
		"partnering": "yes",
		"partnerRole": " Co-organizer ",
		"selectedPartners": {
			"OSA": true,
			"Library": false,
			"others": ["City Hall", " ", "Red Cross"],
			"alumni": {"selected": true}
		}
	}`), &f)
	require.NoError(t, err)

	act, _ := Assemble(&f)
	assert.True(t, act.UniversityPartner)
	assert.Equal(t, "OSA, City Hall, Red Cross, alumni", act.PartnerName)
	assert.Equal(t, "Co-organizer", act.PartnerRole)
}

func TestAssembleSkipsBlankOthers(t *testing.T) {
	var f FormState
	err := json.Unmarshal([]byte(`{
		"partnering": "yes",
		"selectedPartners": {"OSA": true, "others": [" ", ""]}
	}`), &f)
	require.NoError(t, err)

	act, _ := Assemble(&f)
	assert.Equal(t, "OSA", act.PartnerName)
	assert.NotContains(t, act.PartnerName, "others")
}

// the wizard's SDG rule and the server's payload check agree
func TestSDGRuleMatchesPayloadCheck(t *testing.T) {
	for _, sdgs := range []string{`{"noPoverty":true,"other":true}`, `{"noPoverty":true,"goodHealth":true}`} {
		f := validForm()
		require.NoError(t, json.Unmarshal([]byte(sdgs), &f.SelectedSDGs))
		act, sched := Assemble(f)

		wizard := ValidSDGs(f.SelectedSDGs)
		server := CheckPayload(ModeCreate, act, sched, testToday).Valid
		assert.Equal(t, wizard, server, sdgs)
	}
}

func TestAssembleDropsPartnersWhenNotPartnering(t *testing.T) {
	f := validForm()
	f.SelectedPartners = SelectionSet{{Key: "OSA", Selected: true}}
	f.PartnerRole = "stale"

	act, _ := Assemble(f)
	assert.False(t, act.UniversityPartner)
	assert.Empty(t, act.PartnerName)
	assert.Empty(t, act.PartnerRole)
}

func TestAssembleForcesEndDateForOneTime(t *testing.T) {
	f := validForm()
	f.Recurring = OneTime
	f.StartDate = "2025-06-01"
	f.EndDate = "2025-07-15"
	f.RecurringDays.Monday = true

	_, sched := Assemble(f)
	assert.Equal(t, "2025-06-01", sched.EndDate)
	assert.False(t, sched.IsRecurring)
	assert.Nil(t, sched.RecurringDays)
}

func TestAssembleRecurringDays(t *testing.T) {
	f := validForm()
	f.Recurring = Recurring
	f.EndDate = "2025-07-15"
	f.RecurringDays = RecurringDays{Tuesday: true, Thursday: true}

	_, sched := Assemble(f)
	assert.Equal(t, "2025-07-15", sched.EndDate)
	require.NotNil(t, sched.RecurringDays)

	days, ok := DecodeDays(sched.RecurringDays)
	require.True(t, ok)
	assert.True(t, days.Tuesday)
	assert.True(t, days.Thursday)
	assert.False(t, days.Monday)
}

func TestAssembleBooleansAndOffCampus(t *testing.T) {
	f := validForm()
	f.ChargingFees = Yes
	f.OffCampus = Yes

	act, _ := Assemble(f)
	assert.True(t, act.ChargeFee)
	assert.True(t, act.IsOffCampus)
	assert.Equal(t, NotApply, act.VenueApprover)
	assert.Equal(t, NotApply, act.VenueApproverContact)
}

func TestBuildAppealNullsStaffFields(t *testing.T) {
	f := validForm()
	f.ActivityID = "act-9"
	f.AppealReason = "  Moved to a bigger venue "

	payload := BuildAppeal(f)
	assert.Equal(t, models.StatusForAppeal, payload.FinalStatus)
	assert.Equal(t, "Moved to a bigger venue", payload.AppealReason)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "For Appeal", body["final_status"])
	assert.Equal(t, "act-9", body["activity_id"])
	for _, key := range []string{"sro_approval_status", "odsa_approval_status", "sro_remarks", "odsa_remarks"} {
		v, present := body[key]
		assert.True(t, present, key)
		assert.Nil(t, v, key)
	}
	assert.Equal(t, "Tree Planting Drive", body["activity_name"])
	assert.Equal(t, "2025-06-10", body["end_date"])
}

func TestCreateFields(t *testing.T) {
	now := time.Date(2025, 5, 26, 2, 3, 4, 0, time.UTC)
	fields := CreateFields(validForm(), now)

	assert.Equal(t, "For Review", fields["final_status"])
	assert.Equal(t, "2025-05-26T02:03:04Z", fields["created_at"])
	assert.Equal(t, "climateAction, lifeOnLand", fields["sdg_goals"])
	assert.Equal(t, "false", fields["is_off_campus"])
	assert.Equal(t, "2025-06-10", fields["start_date"])
	_, hasDays := fields["recurring_days"]
	assert.False(t, hasDays)

	admin := AdminFields(validForm())
	_, hasStatus := admin["final_status"]
	assert.False(t, hasStatus)
}

func TestCheckPayload(t *testing.T) {
	act, sched := Assemble(validForm())
	assert.True(t, CheckPayload(ModeCreate, act, sched, testToday).Valid)

	bad := act
	bad.SDGGoals = "noPoverty, madeUp"
	assert.Equal(t, "sdg_goals", CheckPayload(ModeCreate, bad, sched, testToday).Field)

	early := sched
	early.StartDate = "2025-05-26"
	early.EndDate = "2025-05-26"
	assert.True(t, CheckPayload(ModeCreate, act, early, testToday).Valid)
	assert.Equal(t, "start_date", CheckPayload(ModeAdmin, act, early, testToday).Field)

	rec := sched
	rec.IsRecurring = true
	assert.Equal(t, "recurring_days", CheckPayload(ModeCreate, act, rec, testToday).Field)
}

func TestNormalize(t *testing.T) {
	act := models.ActivityAttributes{IsOffCampus: true, VenueApprover: "x", PartnerName: "p", ActivityName: " n "}
	sched := models.ScheduleAttributes{StartDate: "2025-06-01", EndDate: "2025-06-09"}
	days := `{"monday":true}`
	sched.RecurringDays = &days

	Normalize(&act, &sched)
	assert.Equal(t, NotApply, act.VenueApprover)
	assert.Equal(t, NotApply, act.VenueApproverContact)
	assert.Empty(t, act.PartnerName)
	assert.Equal(t, "n", act.ActivityName)
	assert.Equal(t, "2025-06-01", sched.EndDate)
	assert.Nil(t, sched.RecurringDays)
}
