// Package wizard drives the target application's assignment creation
// flow end to end: sign in, open the course's assignment list, then walk
// each assignment through the type picker, the details form, the outline
// editor and the rubric editor. Every attempt produces a report.Attempt
// describing exactly which fields were applied, skipped or failed.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gsbatch/internal/browser"
	"gsbatch/internal/interact"
	"gsbatch/internal/locator"
	"gsbatch/internal/pause"
	"gsbatch/internal/rubric"

	"go.uber.org/zap"
)

var (
	// ErrLoginFailed marks a sign-in that did not leave the login page,
	// usually bad credentials.
	ErrLoginFailed = errors.New("login failed")
	// ErrAssignmentsPageUnreachable marks a course assignment list that
	// could not be opened.
	ErrAssignmentsPageUnreachable = errors.New("assignments page unreachable")
)

// Config carries the target endpoints and interaction pacing. CourseURL
// is the course root, not the assignment list. Zero pacing values keep
// the interaction defaults.
type Config struct {
	BaseURL   string
	CourseURL string
	Settle    time.Duration
	Commit    time.Duration
}

// Credentials for the sign-in form. The password never reaches a log.
type Credentials struct {
	Email    string
	Password string
}

// waits are the page-settle pauses after each navigation or submit. The
// target renders asynchronously after these actions with nothing stable
// to await, so the flow paces itself instead.
type waits struct {
	login       time.Duration
	list        time.Duration
	typeModal   time.Duration
	typeNext    time.Duration
	fields      time.Duration
	review      time.Duration
	created     time.Duration
	outlinePage time.Duration
	preSave     time.Duration
	saved       time.Duration
	rubricLoad  time.Duration
}

func defaultWaits() waits {
	return waits{
		login:       3 * time.Second,
		list:        1500 * time.Millisecond,
		typeModal:   time.Second,
		typeNext:    1500 * time.Millisecond,
		fields:      500 * time.Millisecond,
		review:      2 * time.Second,
		created:     3 * time.Second,
		outlinePage: 2 * time.Second,
		preSave:     time.Second,
		saved:       2 * time.Second,
		rubricLoad:  3 * time.Second,
	}
}

// Wizard drives one browser page through the creation flow.
type Wizard struct {
	page  browser.Page
	act   *interact.Actor
	rub   *rubric.Synchronizer
	log   *zap.Logger
	waits waits

	baseURL   string
	courseURL string
}

// New builds a wizard over a page. The clipboard and registry feed the
// interaction layer; cfg supplies the endpoints.
func New(page browser.Page, clip browser.Clipboard, reg *locator.Registry, log *zap.Logger, cfg Config) *Wizard {
	if log == nil {
		log = zap.NewNop()
	}
	act := interact.NewActor(page, clip, reg, log)
	if cfg.Settle > 0 {
		act.Settle = cfg.Settle
	}
	if cfg.Commit > 0 {
		act.Commit = cfg.Commit
	}
	return &Wizard{
		page:      page,
		act:       act,
		rub:       rubric.NewSynchronizer(page, act, log),
		log:       log,
		waits:     defaultWaits(),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		courseURL: strings.TrimRight(cfg.CourseURL, "/"),
	}
}

// Login signs in and verifies the session left the login page. Ending up
// on any URL still containing "login" means the credentials were
// rejected.
func (w *Wizard) Login(ctx context.Context, creds Credentials) error {
	w.log.Info("signing in")
	if err := w.page.Navigate(w.baseURL + "/login"); err != nil {
		return fmt.Errorf("%w: open login page: %v", ErrLoginFailed, err)
	}
	if err := w.page.WaitLoad(); err != nil {
		w.log.Debug("login page load wait", zap.Error(err))
	}
	if err := w.act.SetField(locator.RoleLoginEmailField, creds.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if err := w.act.SetField(locator.RoleLoginPasswordField, creds.Password); err != nil {
		return fmt.Errorf("%w: password field: %v", ErrLoginFailed, err)
	}
	if err := w.act.Click(locator.RoleLoginSubmitButton); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	pause.Sleep(ctx, w.waits.login)

	url, err := w.page.URL()
	if err != nil {
		return fmt.Errorf("%w: read url after submit: %v", ErrLoginFailed, err)
	}
	if strings.Contains(url, "login") {
		return fmt.Errorf("%w: still on login page, check credentials", ErrLoginFailed)
	}
	w.log.Info("signed in")
	return nil
}

// OpenAssignments navigates to the course's assignment list. The flow
// returns here before every attempt and after every attempt's cleanup.
func (w *Wizard) OpenAssignments(ctx context.Context) error {
	if err := w.page.Navigate(w.courseURL + "/assignments"); err != nil {
		return fmt.Errorf("%w: %v", ErrAssignmentsPageUnreachable, err)
	}
	if err := w.page.WaitLoad(); err != nil {
		w.log.Debug("assignment list load wait", zap.Error(err))
	}
	pause.Sleep(ctx, w.waits.list)
	return nil
}
