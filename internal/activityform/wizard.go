package activityform

import "time"

// Wizard walks a form through its sections. Moving forward validates the
// sections being left; moving back never does.
type Wizard struct {
	form    *FormState
	rules   Rules
	now     func() time.Time
	current Section
	failure Result
}

func NewWizard(form *FormState, mode Mode, now func() time.Time) *Wizard {
	if now == nil {
		now = time.Now
	}
	return &Wizard{
		form:    form,
		rules:   RulesFor(mode),
		now:     now,
		current: SectionGeneralInfo,
	}
}

func (w *Wizard) Current() Section { return w.current }
func (w *Wizard) Form() *FormState { return w.form }
func (w *Wizard) Rules() Rules     { return w.rules }

// ErrorField is the control marked as errored by the last failed move.
func (w *Wizard) ErrorField() string { return w.failure.Field }

// Message is the text of the last failure, empty after a successful move.
func (w *Wizard) Message() string { return w.failure.Message }

// Focus is the control the caller should scroll to; same as ErrorField.
func (w *Wizard) Focus() string { return w.failure.Field }

func (w *Wizard) validate(s Section) Result {
	w.form.ApplyOffCampus()
	return ValidateSection(s, w.form, w.rules, w.now())
}

func (w *Wizard) record(res Result) Result {
	if res.Valid {
		w.failure = Result{}
	} else {
		w.failure = res
	}
	return res
}

// Next validates only the current section and moves one step on success.
// There is no step after submission.
func (w *Wizard) Next() Result {
	res := w.record(w.validate(w.current))
	if !res.Valid {
		return res
	}
	if i := w.current.Index(); i < len(Sections)-1 {
		w.current = Sections[i+1]
	}
	return res
}

// Back moves one step towards general-info without validating.
func (w *Wizard) Back() {
	if i := w.current.Index(); i > 0 {
		w.current = Sections[i-1]
	}
	w.failure = Result{}
}

// JumpTo moves to target. Backward jumps always succeed. Forward and
// lateral jumps validate each section from the current one up to, but not
// including, the target; a lateral jump validates the current section.
func (w *Wizard) JumpTo(target Section) Result {
	to := target.Index()
	if to < 0 {
		return w.record(fail(target, "", "unknown section "+string(target)))
	}
	from := w.current.Index()
	if to < from {
		w.current = target
		w.failure = Result{}
		return passed
	}
	for i := from; i < to || i == from; i++ {
		if res := w.validate(Sections[i]); !res.Valid {
			return w.record(res)
		}
	}
	w.current = target
	return w.record(passed)
}

// ValidateAll checks every section for the final submit. On failure the
// wizard stays where it is and the field is marked.
func (w *Wizard) ValidateAll() Result {
	w.form.ApplyOffCampus()
	return w.record(ValidateAll(w.form, w.rules, w.now()))
}

// Advisory is the soft lead-time notice for modes that show it.
func (w *Wizard) Advisory() string {
	if !w.rules.BusinessDayAdvisory {
		return ""
	}
	return Advisory(w.form.StartDate, w.now())
}

func (w *Wizard) RequiredDocuments() []Document {
	return RequiredDocumentsFor(w.form)
}
