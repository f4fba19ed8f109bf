// Package locator maps the wizard's element roles onto concrete lookup
// strategies. Every selector the tool depends on lives in this one table,
// so a markup change in the target application is a one-line fix here.
package locator

import (
	"errors"
	"fmt"
	"time"

	"gsbatch/internal/browser"
)

// Role names one element the wizard interacts with.
type Role string

const (
	RoleTitleField           Role = "title_field"
	RoleReleaseDateField     Role = "release_date_field"
	RoleDueDateField         Role = "due_date_field"
	RoleAllowLateCheckbox    Role = "allow_late_checkbox"
	RoleLateDueDateField     Role = "late_due_date_field"
	RoleTimeLimitCheckbox    Role = "time_limit_checkbox"
	RoleTimeLimitField       Role = "time_limit_field"
	RoleAnonymousCheckbox    Role = "anonymous_checkbox"
	RoleGroupCheckbox        Role = "group_checkbox"
	RoleGroupSizeField       Role = "group_size_field"
	RoleNewAssignmentButton  Role = "new_assignment_button"
	RoleOnlineAssignmentType Role = "online_assignment_type"
	RoleNextButton           Role = "next_button"
	RoleCreateButton         Role = "create_button"
	RoleOutlineTitleField    Role = "outline_title_field"
	RoleOutlinePointsField   Role = "outline_points_field"
	RoleOutlineProblemField  Role = "outline_problem_field"
	RoleSaveButton           Role = "save_button"
	RoleAddRubricItemButton  Role = "add_rubric_item_button"
	RoleLoginEmailField      Role = "login_email_field"
	RoleLoginPasswordField   Role = "login_password_field"
	RoleLoginSubmitButton    Role = "login_submit_button"
)

// ErrNotFound marks a role that did not resolve within the bounded wait.
var ErrNotFound = errors.New("element not found")

// DefaultWait bounds how long Resolve polls for an element to appear.
const DefaultWait = 20 * time.Second

// defaultStrategies is the selector table. Structural selectors (form
// field names, stable classes) are preferred; text matching is used only
// for controls without a stable attribute.
func defaultStrategies() map[Role]browser.Strategy {
	return map[Role]browser.Strategy{
		RoleTitleField:        browser.Name("assignment[title]"),
		RoleReleaseDateField:  browser.Name("assignment[release_date_string]"),
		RoleDueDateField:      browser.Name("assignment[due_date_string]"),
		RoleAllowLateCheckbox: browser.Name("assignment[allow_late_submissions]"),
		RoleLateDueDateField:  browser.Name("assignment[hard_due_date_string]"),
		RoleTimeLimitCheckbox: browser.Name("assignment[enforce_time_limit]"),
		RoleTimeLimitField:    browser.Name("assignment[time_limit_in_minutes]"),
		RoleAnonymousCheckbox: browser.Name("assignment[submissions_anonymized]"),
		RoleGroupCheckbox:     browser.Name("assignment[group_submission]"),
		RoleGroupSizeField:    browser.Name("assignment[group_size]"),

		RoleNewAssignmentButton:  browser.CSS(".js-newAssignment"),
		RoleOnlineAssignmentType: browser.Label(".treeSelectorNode", "Online Assignment"),
		RoleNextButton:           browser.XPath("//button[contains(., 'Next') and not(contains(@class, 'disabled'))]"),
		RoleCreateButton:         browser.XPath("//button[contains(., 'Create Assignment')]"),

		RoleOutlineTitleField:   browser.CSS("input[placeholder='Title']"),
		RoleOutlinePointsField:  browser.CSS("input[placeholder='0.0']"),
		RoleOutlineProblemField: browser.CSS("textarea[placeholder='Type your problem here']"),
		RoleSaveButton:          browser.XPath("//button[contains(text(), 'Save') and not(contains(@class, 'disabled'))]"),
		RoleAddRubricItemButton: browser.XPath("//button[@aria-label='Add Rubric Item' or normalize-space(.)='Add Rubric Item']"),

		RoleLoginEmailField:    browser.CSS("#session_email"),
		RoleLoginPasswordField: browser.CSS("#session_password"),
		RoleLoginSubmitButton:  browser.Name("commit"),
	}
}

// AllRoles lists every role the registry must cover.
func AllRoles() []Role {
	return []Role{
		RoleTitleField, RoleReleaseDateField, RoleDueDateField,
		RoleAllowLateCheckbox, RoleLateDueDateField,
		RoleTimeLimitCheckbox, RoleTimeLimitField,
		RoleAnonymousCheckbox, RoleGroupCheckbox, RoleGroupSizeField,
		RoleNewAssignmentButton, RoleOnlineAssignmentType,
		RoleNextButton, RoleCreateButton,
		RoleOutlineTitleField, RoleOutlinePointsField, RoleOutlineProblemField,
		RoleSaveButton, RoleAddRubricItemButton,
		RoleLoginEmailField, RoleLoginPasswordField, RoleLoginSubmitButton,
	}
}

// Registry resolves roles against a page with a bounded wait.
type Registry struct {
	strategies map[Role]browser.Strategy
	wait       time.Duration
}

// NewRegistry builds the default selector table. A non-positive wait
// falls back to DefaultWait.
func NewRegistry(wait time.Duration) *Registry {
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Registry{strategies: defaultStrategies(), wait: wait}
}

// Wait reports the bounded wait used for resolution.
func (r *Registry) Wait() time.Duration {
	return r.wait
}

// Strategy returns the lookup strategy for a role.
func (r *Registry) Strategy(role Role) (browser.Strategy, bool) {
	s, ok := r.strategies[role]
	return s, ok
}

// Override replaces the strategy for a role.
func (r *Registry) Override(role Role, s browser.Strategy) {
	r.strategies[role] = s
}

// Resolve locates the element for a role, waiting up to the registry
// bound. Failure is reported as ErrNotFound, a recoverable condition.
func (r *Registry) Resolve(page browser.Page, role Role) (browser.Element, error) {
	s, ok := r.strategies[role]
	if !ok {
		return nil, fmt.Errorf("no strategy registered for role %q", role)
	}
	el, err := page.Find(s, r.wait)
	if err != nil {
		return nil, fmt.Errorf("locate %s via %s: %w (%v)", role, s, ErrNotFound, err)
	}
	return el, nil
}
