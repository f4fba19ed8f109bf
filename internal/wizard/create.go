package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gsbatch/internal/assignment"
	"gsbatch/internal/dates"
	"gsbatch/internal/locator"
	"gsbatch/internal/pause"
	"gsbatch/internal/report"
	"gsbatch/internal/rubric"

	"go.uber.org/zap"
)

// Field names as they appear in attempt reports.
const (
	fieldTitle          = "title"
	fieldReleaseDate    = "release_date"
	fieldDueDate        = "due_date"
	fieldLateDueDate    = "late_due_date"
	fieldTimeLimit      = "time_limit"
	fieldAnonymous      = "anonymous_grading"
	fieldGroup          = "group_submission"
	fieldGroupSize      = "group_size"
	fieldOutlineTitle   = "outline_title"
	fieldOutlinePoints  = "outline_points"
	fieldOutlineProblem = "outline_problem"
	fieldOutlineSave    = "outline_save"
	fieldRubric         = "rubric"
)

// answerBoxMarker is the outline syntax for a free-response answer box.
// The problem body is just the box; the question itself goes in the
// outline title.
const answerBoxMarker = "\n\n|____|"

// AttemptError describes one aborted assignment: which one, how far the
// flow got before breaking, and what broke.
type AttemptError struct {
	Assignment string
	State      State
	Err        error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("assignment %q aborted at %s: %v", e.Assignment, e.State, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// Create walks one assignment through the full flow: type picker, details
// form, review, outline editor, rubric editor, then back to the list. It
// never returns an error; the outcome, including any abort, is encoded in
// the returned attempt. One assignment failing must not take the batch
// down with it.
func (w *Wizard) Create(ctx context.Context, spec assignment.Spec) report.Attempt {
	att := report.NewAttempt(spec.Name)
	m := newMachine(w.log.With(zap.String("assignment", spec.Name)))

	w.log.Info("creating assignment", zap.String("name", spec.Name))
	if err := w.run(ctx, spec, m, &att); err != nil {
		aerr := &AttemptError{Assignment: spec.Name, State: m.current(), Err: err}
		m.abort()
		att.Err = aerr.Error()
		w.log.Error("assignment failed", zap.Error(aerr))
	}

	// Always return to the assignment list so the next attempt starts
	// from a known page.
	if err := w.OpenAssignments(ctx); err != nil {
		w.log.Warn("could not return to assignment list", zap.Error(err))
	}

	if !IsTerminal(m.current()) {
		if err := m.advance(StateListed); err != nil {
			m.abort()
			att.Err = err.Error()
		}
	}
	if att.OK() {
		w.log.Info("assignment created", zap.String("name", spec.Name))
	}

	att.State = string(m.current())
	att.FinishedAt = time.Now()
	return att
}

// run performs the page sequence. The outline and rubric stages are best
// effort: the assignment already exists by then, so their failures are
// recorded per field instead of aborting.
func (w *Wizard) run(ctx context.Context, spec assignment.Spec, m *machine, att *report.Attempt) error {
	if err := w.selectType(ctx); err != nil {
		return err
	}
	if err := m.advance(StateTypeSelected); err != nil {
		return err
	}

	if err := w.fillDetails(ctx, spec, att); err != nil {
		return err
	}
	if err := m.advance(StateDetailsFilled); err != nil {
		return err
	}

	if err := w.submitDetails(ctx); err != nil {
		return err
	}
	if err := m.advance(StateDetailsSubmitted); err != nil {
		return err
	}

	if err := w.confirmCreate(ctx); err != nil {
		return err
	}
	if err := m.advance(StateCreated); err != nil {
		return err
	}

	w.fillOutline(ctx, spec, att)
	if err := m.advance(StateOutlineFilled); err != nil {
		return err
	}

	w.applyRubric(ctx, spec, att)
	return m.advance(StateRubricApplied)
}

// selectType opens the new-assignment dialog, picks the online type and
// moves past the picker.
func (w *Wizard) selectType(ctx context.Context) error {
	if err := w.act.Click(locator.RoleNewAssignmentButton); err != nil {
		return err
	}
	pause.Sleep(ctx, w.waits.typeModal)
	if err := w.act.Click(locator.RoleOnlineAssignmentType); err != nil {
		return fmt.Errorf("select assignment type: %w", err)
	}
	if err := w.act.Click(locator.RoleNextButton); err != nil {
		return err
	}
	pause.Sleep(ctx, w.waits.typeNext)
	return nil
}

// fillDetails populates the details form. The title and the two required
// dates abort on failure; the optional settings are each best effort.
func (w *Wizard) fillDetails(ctx context.Context, spec assignment.Spec, att *report.Attempt) error {
	if err := w.act.SetField(locator.RoleTitleField, spec.Name); err != nil {
		att.RecordFailed(fieldTitle, err.Error())
		return fmt.Errorf("title: %w", err)
	}
	att.RecordOK(fieldTitle)

	if err := w.setDate(att, fieldReleaseDate, locator.RoleReleaseDateField, spec.ReleaseDate); err != nil {
		return err
	}
	if err := w.setDate(att, fieldDueDate, locator.RoleDueDateField, spec.DueDate); err != nil {
		return err
	}
	pause.Sleep(ctx, w.waits.fields)

	if spec.LateDueDate != "" {
		w.applyLateDueDate(ctx, spec.LateDueDate, att)
	}
	if spec.EnforceTimeLimit != nil {
		w.applyTimeLimit(ctx, *spec.EnforceTimeLimit, spec.TimeLimitMinutes, att)
	}
	if spec.AnonymousGrading != nil {
		w.applyCheckbox(att, fieldAnonymous, locator.RoleAnonymousCheckbox, *spec.AnonymousGrading)
	}
	if spec.GroupSubmission != nil {
		w.applyGroup(ctx, *spec.GroupSubmission, spec.GroupSize, att)
	}

	pause.Sleep(ctx, w.waits.fields)
	return nil
}

// setDate fills one date field. Unparseable text skips the field and the
// flow continues; any other failure aborts the attempt.
func (w *Wizard) setDate(att *report.Attempt, field string, role locator.Role, text string) error {
	err := w.act.SetDateField(role, text)
	switch {
	case err == nil:
		att.RecordOK(field)
		return nil
	case errors.Is(err, dates.ErrNotParseable):
		att.RecordSkipped(field, err.Error())
		w.log.Warn("date not parseable, field skipped", zap.String("field", field))
		return nil
	default:
		att.RecordFailed(field, err.Error())
		return fmt.Errorf("%s: %w", field, err)
	}
}

// applyLateDueDate turns on late submissions and fills the hard due date
// the checkbox reveals.
func (w *Wizard) applyLateDueDate(ctx context.Context, date string, att *report.Attempt) {
	if _, err := w.act.Toggle(locator.RoleAllowLateCheckbox, true); err != nil {
		att.RecordFailed(fieldLateDueDate, err.Error())
		w.log.Warn("late due date not applied", zap.Error(err))
		return
	}
	pause.Sleep(ctx, w.waits.fields)

	err := w.act.SetDateField(locator.RoleLateDueDateField, date)
	switch {
	case err == nil:
		att.RecordOK(fieldLateDueDate)
	case errors.Is(err, dates.ErrNotParseable):
		att.RecordSkipped(fieldLateDueDate, err.Error())
		w.log.Warn("late due date not parseable, field skipped")
	default:
		att.RecordFailed(fieldLateDueDate, err.Error())
		w.log.Warn("late due date not applied", zap.Error(err))
	}
}

// applyTimeLimit drives the enforce checkbox to the requested state and,
// when enforcing, fills the minutes field it reveals.
func (w *Wizard) applyTimeLimit(ctx context.Context, enforce bool, minutes int, att *report.Attempt) {
	if _, err := w.act.Toggle(locator.RoleTimeLimitCheckbox, enforce); err != nil {
		att.RecordFailed(fieldTimeLimit, err.Error())
		w.log.Warn("time limit not applied", zap.Error(err))
		return
	}
	if !enforce {
		att.RecordOK(fieldTimeLimit)
		return
	}
	if minutes == 0 {
		// No explicit minutes: the checkbox alone is the request, the
		// form keeps its default duration.
		att.RecordOK(fieldTimeLimit)
		return
	}
	pause.Sleep(ctx, w.waits.fields)

	if err := w.act.SetField(locator.RoleTimeLimitField, strconv.Itoa(minutes)); err != nil {
		att.RecordFailed(fieldTimeLimit, err.Error())
		w.log.Warn("time limit minutes not applied", zap.Error(err))
		return
	}
	att.RecordOK(fieldTimeLimit)
}

// applyCheckbox drives a standalone checkbox to the requested state.
func (w *Wizard) applyCheckbox(att *report.Attempt, field string, role locator.Role, desired bool) {
	if _, err := w.act.Toggle(role, desired); err != nil {
		att.RecordFailed(field, err.Error())
		w.log.Warn("checkbox not applied", zap.String("field", field), zap.Error(err))
		return
	}
	att.RecordOK(field)
}

// applyGroup drives the group-submission checkbox and, when enabled with
// an explicit size, fills the group size field it reveals.
func (w *Wizard) applyGroup(ctx context.Context, enabled bool, size int, att *report.Attempt) {
	if _, err := w.act.Toggle(locator.RoleGroupCheckbox, enabled); err != nil {
		att.RecordFailed(fieldGroup, err.Error())
		w.log.Warn("group submission not applied", zap.Error(err))
		return
	}
	att.RecordOK(fieldGroup)
	if !enabled || size == 0 {
		return
	}
	pause.Sleep(ctx, w.waits.fields)

	if err := w.act.SetField(locator.RoleGroupSizeField, strconv.Itoa(size)); err != nil {
		att.RecordFailed(fieldGroupSize, err.Error())
		w.log.Warn("group size not applied", zap.Error(err))
		return
	}
	att.RecordOK(fieldGroupSize)
}

// submitDetails moves from the details form to the review step.
func (w *Wizard) submitDetails(ctx context.Context) error {
	if err := w.act.Click(locator.RoleNextButton); err != nil {
		return fmt.Errorf("submit details: %w", err)
	}
	pause.Sleep(ctx, w.waits.review)
	return nil
}

// confirmCreate presses the final create button. After this the
// assignment exists and the target lands on its outline editor.
func (w *Wizard) confirmCreate(ctx context.Context) error {
	if err := w.act.Click(locator.RoleCreateButton); err != nil {
		return fmt.Errorf("confirm create: %w", err)
	}
	pause.Sleep(ctx, w.waits.created)
	return nil
}

// fillOutline populates the one-question outline: the question text as
// the title, the full score as its points, and an answer box as the
// problem body. The assignment already exists here, so each field failure
// is recorded and the flow continues.
func (w *Wizard) fillOutline(ctx context.Context, spec assignment.Spec, att *report.Attempt) {
	pause.Sleep(ctx, w.waits.outlinePage)

	if spec.QuestionText != "" {
		if err := w.act.SetField(locator.RoleOutlineTitleField, spec.QuestionText); err != nil {
			att.RecordFailed(fieldOutlineTitle, err.Error())
			w.log.Warn("outline title not applied", zap.Error(err))
		} else {
			att.RecordOK(fieldOutlineTitle)
		}
	}

	if err := w.act.SetField(locator.RoleOutlinePointsField, rubric.FormatPoints(spec.TotalPoints)); err != nil {
		att.RecordFailed(fieldOutlinePoints, err.Error())
		w.log.Warn("outline points not applied", zap.Error(err))
	} else {
		att.RecordOK(fieldOutlinePoints)
	}

	if err := w.act.SetField(locator.RoleOutlineProblemField, answerBoxMarker); err != nil {
		att.RecordFailed(fieldOutlineProblem, err.Error())
		w.log.Warn("outline problem not applied", zap.Error(err))
	} else {
		att.RecordOK(fieldOutlineProblem)
	}

	pause.Sleep(ctx, w.waits.preSave)
	if err := w.act.Click(locator.RoleSaveButton); err != nil {
		att.RecordFailed(fieldOutlineSave, err.Error())
		w.log.Warn("outline not saved", zap.Error(err))
		return
	}
	att.RecordOK(fieldOutlineSave)
	pause.Sleep(ctx, w.waits.saved)
}

// applyRubric opens the created assignment's rubric editor and reconciles
// it with the requested items. The assignment id comes from the outline
// page's URL. Item outcomes are recorded individually.
func (w *Wizard) applyRubric(ctx context.Context, spec assignment.Spec, att *report.Attempt) {
	if len(spec.RubricItems) == 0 {
		return
	}

	url, err := w.page.URL()
	if err != nil {
		att.RecordFailed(fieldRubric, err.Error())
		w.log.Warn("rubric skipped, current url unreadable", zap.Error(err))
		return
	}
	id, err := parseAssignmentID(url)
	if err != nil {
		att.RecordFailed(fieldRubric, err.Error())
		w.log.Warn("rubric skipped", zap.Error(err))
		return
	}

	editURL := fmt.Sprintf("%s/assignments/%s/rubric/edit", w.courseURL, id)
	if err := w.page.Navigate(editURL); err != nil {
		att.RecordFailed(fieldRubric, err.Error())
		w.log.Warn("rubric editor unreachable", zap.Error(err))
		return
	}
	if err := w.page.WaitLoad(); err != nil {
		w.log.Debug("rubric editor load wait", zap.Error(err))
	}
	pause.Sleep(ctx, w.waits.rubricLoad)

	for _, res := range w.rub.Apply(ctx, spec.RubricItems) {
		field := fmt.Sprintf("%s[%d]", fieldRubric, res.Index)
		if res.Err != nil {
			att.RecordFailed(field, res.Err.Error())
		} else {
			att.RecordOK(field)
		}
	}
}

// parseAssignmentID extracts the assignment id from an outline or edit
// URL: the path segment after "/assignments/".
func parseAssignmentID(url string) (string, error) {
	_, rest, ok := strings.Cut(url, "/assignments/")
	if !ok {
		return "", fmt.Errorf("no assignment id in %q", url)
	}
	id, _, _ := strings.Cut(rest, "/")
	if id == "" {
		return "", fmt.Errorf("no assignment id in %q", url)
	}
	return id, nil
}
