package assignment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gsbatch/internal/rubric"
)

type rawSpec struct {
	Name             string      `json:"name"`
	ReleaseDate      string      `json:"release_date"`
	DueDate          string      `json:"due_date"`
	TotalPoints      float64     `json:"total_points"`
	AnonymousGrading *bool       `json:"anonymous_grading"`
	GroupSubmission  *bool       `json:"group_submission"`
	LateDueDate      string      `json:"late_due_date"`
	EnforceTimeLimit *bool       `json:"enforce_time_limit"`
	TimeLimit        int         `json:"time_limit"`
	GroupSize        int         `json:"group_size"`
	Details          *rawDetails `json:"assignment_details"`
}

type rawDetails struct {
	Question string          `json:"question"`
	Rubric   json.RawMessage `json:"rubric"`
}

// LoadFile reads and validates a batch definition from a JSON file.
func LoadFile(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	specs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// Parse decodes a JSON array of assignment entries and validates each one.
func Parse(data []byte) ([]Spec, error) {
	var raw []rawSpec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("batch contains no assignments")
	}

	specs := make([]Spec, 0, len(raw))
	for i, r := range raw {
		spec, err := r.toSpec()
		if err != nil {
			return nil, fmt.Errorf("assignment %d (%q): %w", i, r.Name, err)
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("assignment %d (%q): %w", i, r.Name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (r rawSpec) toSpec() (Spec, error) {
	spec := Spec{
		Name:             r.Name,
		ReleaseDate:      r.ReleaseDate,
		DueDate:          r.DueDate,
		TotalPoints:      r.TotalPoints,
		LateDueDate:      r.LateDueDate,
		TimeLimitMinutes: r.TimeLimit,
		GroupSize:        r.GroupSize,
		EnforceTimeLimit: r.EnforceTimeLimit,
		AnonymousGrading: r.AnonymousGrading,
		GroupSubmission:  r.GroupSubmission,
	}
	if r.Details != nil {
		spec.QuestionText = r.Details.Question
		items, err := parseRubric(r.Details.Rubric)
		if err != nil {
			return Spec{}, fmt.Errorf("rubric: %w", err)
		}
		spec.RubricItems = items
	}
	return spec, nil
}

// parseRubric decodes the rubric object with key order preserved. A plain
// map would shuffle the entries, and rubric order is meaningful: items are
// created on the page exactly in file order.
func parseRubric(raw json.RawMessage) ([]rubric.Item, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("must be a JSON object of description to points")
	}

	var items []rubric.Item
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%q: points must be a number", key)
		}
		points, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("%q: %w", key, err)
		}
		items = append(items, rubric.Item{Description: key, Points: points})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}
