// Package report records what actually happened during a batch: one
// Attempt per assignment with per-field outcomes, aggregated into a Batch.
// Optional wizard steps never abort an attempt, so their failures survive
// only here; without these records a partially created assignment would
// look identical to a fully created one.
package report

import (
	"time"

	"github.com/google/uuid"
)

// FieldStatus classifies one field-level outcome.
type FieldStatus string

const (
	// FieldOK means the value landed.
	FieldOK FieldStatus = "ok"
	// FieldSkipped means the field was deliberately not written, e.g.
	// unparseable date text.
	FieldSkipped FieldStatus = "skipped"
	// FieldFailed means the write was attempted and did not succeed.
	FieldFailed FieldStatus = "failed"
)

// FieldOutcome is the result for a single form field or rubric item.
type FieldOutcome struct {
	Field  string
	Status FieldStatus
	Reason string
}

// Attempt is the full record of one assignment creation attempt. A
// non-empty Err means the attempt aborted; outcomes recorded before the
// abort are kept.
type Attempt struct {
	ID         string
	Assignment string
	State      string
	Fields     []FieldOutcome
	Err        string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewAttempt starts the record for one assignment.
func NewAttempt(assignment string) Attempt {
	return Attempt{
		ID:         uuid.NewString(),
		Assignment: assignment,
		StartedAt:  time.Now(),
	}
}

// RecordOK notes a field that landed.
func (a *Attempt) RecordOK(field string) {
	a.record(field, FieldOK, "")
}

// RecordSkipped notes a field deliberately left alone.
func (a *Attempt) RecordSkipped(field, reason string) {
	a.record(field, FieldSkipped, reason)
}

// RecordFailed notes a field write that did not succeed.
func (a *Attempt) RecordFailed(field, reason string) {
	a.record(field, FieldFailed, reason)
}

func (a *Attempt) record(field string, status FieldStatus, reason string) {
	a.Fields = append(a.Fields, FieldOutcome{Field: field, Status: status, Reason: reason})
}

// Field returns the recorded outcome for a field name.
func (a Attempt) Field(name string) (FieldOutcome, bool) {
	for _, f := range a.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldOutcome{}, false
}

// OK reports whether the attempt completed without aborting.
func (a Attempt) OK() bool {
	return a.Err == ""
}

// Duration is the wall time the attempt took.
func (a Attempt) Duration() time.Duration {
	if a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}

// Batch aggregates the attempts of one run.
type Batch struct {
	Attempts   []Attempt
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewBatch starts a batch record.
func NewBatch() Batch {
	return Batch{StartedAt: time.Now()}
}

// Add appends an attempt.
func (b *Batch) Add(a Attempt) {
	b.Attempts = append(b.Attempts, a)
}

// Finish stamps the batch end time.
func (b *Batch) Finish() {
	b.FinishedAt = time.Now()
}

// Total is the number of attempts.
func (b Batch) Total() int {
	return len(b.Attempts)
}

// Succeeded counts attempts that did not abort.
func (b Batch) Succeeded() int {
	n := 0
	for _, a := range b.Attempts {
		if a.OK() {
			n++
		}
	}
	return n
}

// FailedNames lists the assignments whose attempts aborted, in order.
func (b Batch) FailedNames() []string {
	var names []string
	for _, a := range b.Attempts {
		if !a.OK() {
			names = append(names, a.Assignment)
		}
	}
	return names
}
