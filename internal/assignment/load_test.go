package assignment

import (
	"os"
	"path/filepath"
	"testing"

	"gsbatch/internal/rubric"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalBatch = `[
  {
    "name": "HW1",
    "release_date": "2024-01-01 00:00",
    "due_date": "2024-01-08 23:59",
    "total_points": 10,
    "assignment_details": {
      "rubric": {"correct": 10, "incorrect": 0}
    }
  }
]`

func TestParseMinimalBatch(t *testing.T) {
	specs, err := Parse([]byte(minimalBatch))
	require.NoError(t, err)
	require.Len(t, specs, 1)

	want := Spec{
		Name:        "HW1",
		ReleaseDate: "2024-01-01 00:00",
		DueDate:     "2024-01-08 23:59",
		TotalPoints: 10,
		RubricItems: []rubric.Item{
			{Description: "correct", Points: 10},
			{Description: "incorrect", Points: 0},
		},
	}
	if diff := cmp.Diff(want, specs[0]); diff != "" {
		t.Errorf("parsed spec mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRubricPreservesFileOrder(t *testing.T) {
	// Deliberately not alphabetical and not by points: order must come
	// straight from the file.
	data := `[{
	  "name": "Quiz",
	  "release_date": "2024-02-01 08:00",
	  "due_date": "2024-02-02 08:00",
	  "total_points": 6,
	  "assignment_details": {
	    "rubric": {"zeta": 1, "alpha": 3, "mid band": 2.5, "omega": 0}
	  }
	}]`

	specs, err := Parse([]byte(data))
	require.NoError(t, err)

	var got []string
	for _, item := range specs[0].RubricItems {
		got = append(got, item.Description)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid band", "omega"}, got)
	assert.Equal(t, 2.5, specs[0].RubricItems[2].Points)
}

func TestParseOptionalFields(t *testing.T) {
	data := `[{
	  "name": "Exam",
	  "release_date": "2024-03-01 09:00",
	  "due_date": "2024-03-01 12:00",
	  "total_points": 100,
	  "late_due_date": "2024-03-02 12:00",
	  "enforce_time_limit": true,
	  "time_limit": 90,
	  "anonymous_grading": true,
	  "group_submission": false,
	  "assignment_details": {"question": "Prove it."}
	}]`

	specs, err := Parse([]byte(data))
	require.NoError(t, err)
	spec := specs[0]

	assert.Equal(t, "2024-03-02 12:00", spec.LateDueDate)
	assert.Equal(t, 90, spec.TimeLimitMinutes)
	assert.Equal(t, "Prove it.", spec.QuestionText)
	assert.Nil(t, spec.RubricItems)

	require.NotNil(t, spec.EnforceTimeLimit)
	assert.True(t, *spec.EnforceTimeLimit)
	require.NotNil(t, spec.AnonymousGrading)
	assert.True(t, *spec.AnonymousGrading)

	// Present-but-false is distinct from absent.
	require.NotNil(t, spec.GroupSubmission)
	assert.False(t, *spec.GroupSubmission)
}

func TestParseAbsentTogglesStayNil(t *testing.T) {
	specs, err := Parse([]byte(minimalBatch))
	require.NoError(t, err)

	assert.Nil(t, specs[0].EnforceTimeLimit)
	assert.Nil(t, specs[0].AnonymousGrading)
	assert.Nil(t, specs[0].GroupSubmission)
}

func TestParseRejections(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"not_json", `{`, "decode batch"},
		{"empty_batch", `[]`, "no assignments"},
		{"missing_name", `[{"release_date":"x","due_date":"y"}]`, "name is required"},
		{"missing_release", `[{"name":"A","due_date":"y"}]`, "release_date is required"},
		{"missing_due", `[{"name":"A","release_date":"x"}]`, "due_date is required"},
		{
			"negative_points",
			`[{"name":"A","release_date":"x","due_date":"y","total_points":-1}]`,
			"total_points",
		},
		{
			"group_of_one",
			`[{"name":"A","release_date":"x","due_date":"y","group_submission":true,"group_size":1}]`,
			"group_size",
		},
		{
			"negative_time_limit",
			`[{"name":"A","release_date":"x","due_date":"y","time_limit":-5}]`,
			"time_limit",
		},
		{
			"rubric_not_object",
			`[{"name":"A","release_date":"x","due_date":"y","assignment_details":{"rubric":[1,2]}}]`,
			"JSON object",
		},
		{
			"rubric_points_not_number",
			`[{"name":"A","release_date":"x","due_date":"y","assignment_details":{"rubric":{"good":"ten"}}}]`,
			"must be a number",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

// TestParseTimeLimitWithoutMinutes: enforcing a time limit without naming
// the minutes is a valid entry. The run checks the box and leaves the
// duration field to the form's default.
func TestParseTimeLimitWithoutMinutes(t *testing.T) {
	data := `[{"name":"A","release_date":"x","due_date":"y","enforce_time_limit":true}]`
	specs, err := Parse([]byte(data))
	require.NoError(t, err)

	require.NotNil(t, specs[0].EnforceTimeLimit)
	assert.True(t, *specs[0].EnforceTimeLimit)
	assert.Zero(t, specs[0].TimeLimitMinutes)
}

func TestParseEmptyRubricTreatedAsAbsent(t *testing.T) {
	data := `[{"name":"A","release_date":"x","due_date":"y","assignment_details":{"rubric":{}}}]`
	specs, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Empty(t, specs[0].RubricItems)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalBatch), 0o644))

	specs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, specs, 1)
	assert.Equal(t, "HW1", specs[0].Name)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read batch file")
}
