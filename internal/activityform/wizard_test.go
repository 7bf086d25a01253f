package activityform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardStartsAtGeneralInfo(t *testing.T) {
	w := NewWizard(validForm(), ModeCreate, testClock)
	assert.Equal(t, SectionGeneralInfo, w.Current())
	assert.Empty(t, w.ErrorField())
}

func TestWizardNextBlockedByBlankField(t *testing.T) {
	f := validForm()
	f.ActivityName = ""
	f.ActivityDescription = ""
	w := NewWizard(f, ModeCreate, testClock)

	res := w.Next()
	require.False(t, res.Valid)
	assert.Equal(t, SectionGeneralInfo, w.Current())
	assert.Equal(t, "activityName", w.ErrorField())
	assert.Equal(t, "activityName", w.Focus())
	assert.Equal(t, res.Message, w.Message())
}

func TestWizardNextWalksAllSections(t *testing.T) {
	w := NewWizard(validForm(), ModeCreate, testClock)

	for i := 1; i < len(Sections); i++ {
		res := w.Next()
		require.True(t, res.Valid, res.Message)
		assert.Equal(t, Sections[i], w.Current())
	}

	// nothing after submission
	res := w.Next()
	assert.True(t, res.Valid)
	assert.Equal(t, SectionSubmission, w.Current())
}

func TestWizardBackNeverValidates(t *testing.T) {
	w := NewWizard(validForm(), ModeCreate, testClock)
	require.True(t, w.JumpTo(SectionSubmission).Valid)

	// break every section; going back must still work
	*w.Form() = FormState{}

	w.Back()
	assert.Equal(t, SectionSpecifications, w.Current())
	res := w.JumpTo(SectionGeneralInfo)
	assert.True(t, res.Valid)
	assert.Equal(t, SectionGeneralInfo, w.Current())
	assert.Empty(t, w.ErrorField())

	w.Back()
	assert.Equal(t, SectionGeneralInfo, w.Current())
}

func TestWizardJumpForwardStopsAtFirstFailingSection(t *testing.T) {
	f := validForm()
	f.Venue = ""
	w := NewWizard(f, ModeCreate, testClock)

	res := w.JumpTo(SectionSubmission)
	require.False(t, res.Valid)
	assert.Equal(t, SectionSpecifications, res.Section)
	assert.Equal(t, "venue", w.ErrorField())
	assert.Equal(t, SectionGeneralInfo, w.Current())

	// the target section itself is not checked on the way in
	f.Venue = "Gym"
	f.Files = nil
	res = w.JumpTo(SectionSubmission)
	assert.True(t, res.Valid)
	assert.Equal(t, SectionSubmission, w.Current())
	assert.Empty(t, w.ErrorField())
}

func TestWizardLateralJumpValidatesCurrent(t *testing.T) {
	f := validForm()
	f.OrganizationID = ""
	w := NewWizard(f, ModeCreate, testClock)

	res := w.JumpTo(SectionGeneralInfo)
	assert.False(t, res.Valid)
	assert.Equal(t, "organizationId", w.ErrorField())
}

func TestWizardValidateAll(t *testing.T) {
	f := validForm()
	f.Files = nil
	w := NewWizard(f, ModeCreate, testClock)

	res := w.ValidateAll()
	require.False(t, res.Valid)
	assert.Equal(t, "files", w.ErrorField())

	w = NewWizard(f, ModeEdit, testClock)
	f.AppealReason = "Change of venue"
	assert.True(t, w.ValidateAll().Valid)
}

func TestWizardAdvisoryPerMode(t *testing.T) {
	f := validForm()
	f.StartDate = "2025-05-28"

	assert.NotEmpty(t, NewWizard(f, ModeCreate, testClock).Advisory())
	assert.NotEmpty(t, NewWizard(f, ModeAdmin, testClock).Advisory())
	assert.Empty(t, NewWizard(f, ModeEdit, testClock).Advisory())
}
