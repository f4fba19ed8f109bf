package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gsbatch/internal/assignment"
	"gsbatch/internal/config"
	"gsbatch/internal/dates"
	"gsbatch/internal/report"
	"gsbatch/internal/rubric"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check an assignment file without opening a browser",
	Long: `Parses the JSON input exactly the way run does and previews what each
assignment would get. Structural problems (missing names, negative points,
malformed JSON) are errors. Dates that cannot be parsed are warnings only,
because a run treats them as skippable fields.`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateInput,
}

func validateInput(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	path := cfg.Input.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no input file: pass a path, set GS_JSON, or set input.path in the config")
	}

	specs, err := assignment.LoadFile(path)
	if err != nil {
		return err
	}

	warnings := 0
	for _, spec := range specs {
		warnings += previewAssignment(spec)
	}

	fmt.Printf("\n%s %d assignment(s) in %s", report.Good("ok:"), len(specs), path)
	if warnings > 0 {
		fmt.Printf(", %s", report.Warn(fmt.Sprintf("%d date warning(s)", warnings)))
	}
	fmt.Println()
	return nil
}

// previewAssignment prints one block per assignment and returns how many
// of its dates a run would skip.
func previewAssignment(spec assignment.Spec) int {
	fmt.Printf("%s  %s points", spec.Name, rubric.FormatPoints(spec.TotalPoints))

	var extras []string
	if spec.LateDueDate != "" {
		extras = append(extras, "late due date")
	}
	if spec.EnforceTimeLimit != nil && *spec.EnforceTimeLimit {
		extras = append(extras, fmt.Sprintf("time limit %dm", spec.TimeLimitMinutes))
	}
	if spec.AnonymousGrading != nil {
		extras = append(extras, onOff("anonymous", *spec.AnonymousGrading))
	}
	if spec.GroupSubmission != nil {
		extras = append(extras, onOff("groups", *spec.GroupSubmission))
	}
	if n := len(spec.RubricItems); n > 0 {
		extras = append(extras, fmt.Sprintf("%d rubric item(s)", n))
	}
	if len(extras) > 0 {
		fmt.Printf("  %s", report.Note(strings.Join(extras, ", ")))
	}
	fmt.Println()

	warnings := 0
	warnings += previewDate("release", spec.ReleaseDate)
	warnings += previewDate("due", spec.DueDate)
	if spec.LateDueDate != "" {
		warnings += previewDate("late due", spec.LateDueDate)
	}
	return warnings
}

// previewDate prints the normalized form of one date, or a warning when
// the text is unparseable and the run would leave that field alone.
func previewDate(label, text string) int {
	normalized, err := dates.Normalize(text)
	if err != nil {
		fmt.Printf("  %s %s date %q is not parseable, the run will skip it\n",
			report.Warn("!"), label, text)
		return 1
	}
	fmt.Printf("  %s %s\n", report.Note(label+":"), normalized)
	return 0
}

func onOff(name string, enabled bool) string {
	if enabled {
		return name + " on"
	}
	return name + " off"
}
