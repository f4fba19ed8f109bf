// Package assignment defines the batch input format: which assignments to
// create and with what settings. It validates shape and ranges up front so
// a bad entry fails before any browser work starts.
package assignment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gsbatch/internal/rubric"
)

// Spec describes one assignment to create.
type Spec struct {
	Name        string
	ReleaseDate string
	DueDate     string
	TotalPoints float64

	// Optional extras. Zero values mean "not requested".
	LateDueDate      string
	TimeLimitMinutes int
	GroupSize        int

	// Tri-state toggles: nil leaves the target's default untouched.
	EnforceTimeLimit *bool
	AnonymousGrading *bool
	GroupSubmission  *bool

	QuestionText string
	RubricItems  []rubric.Item
}

// Validate checks required fields and value ranges. Date text is only
// checked for presence here; parseability is a per-field runtime concern.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(s.ReleaseDate) == "" {
		return errors.New("release_date is required")
	}
	if strings.TrimSpace(s.DueDate) == "" {
		return errors.New("due_date is required")
	}
	if s.TotalPoints < 0 || math.IsNaN(s.TotalPoints) || math.IsInf(s.TotalPoints, 0) {
		return errors.New("total_points must be a non-negative number")
	}
	if s.TimeLimitMinutes < 0 {
		return errors.New("time_limit must not be negative")
	}
	if s.GroupSize != 0 && s.GroupSize < 2 {
		return errors.New("group_size must be at least 2")
	}
	for i, item := range s.RubricItems {
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("rubric item %d: description is empty", i)
		}
		if math.IsNaN(item.Points) || math.IsInf(item.Points, 0) {
			return fmt.Errorf("rubric item %d (%q): points must be finite", i, item.Description)
		}
	}
	return nil
}
