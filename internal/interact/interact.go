// Package interact implements the field-level interaction primitives the
// wizard is built from. Each primitive resolves its element through the
// locator registry, reveals it, and applies an input technique chosen for
// fields that rewrite or reject naive typing.
package interact

import (
	"errors"
	"fmt"
	"time"

	"gsbatch/internal/browser"
	"gsbatch/internal/dates"
	"gsbatch/internal/locator"

	"go.uber.org/zap"
)

const (
	defaultSettle = 200 * time.Millisecond
	defaultCommit = 300 * time.Millisecond
)

var (
	// ErrElementUnavailable marks a role that did not resolve in time.
	ErrElementUnavailable = errors.New("element unavailable")
	// ErrNotClickable marks an element that resolved but never became
	// interactable.
	ErrNotClickable = errors.New("element not clickable")
)

// Actor performs interactions against one page.
type Actor struct {
	page browser.Page
	clip browser.Clipboard
	reg  *locator.Registry
	log  *zap.Logger

	// Settle is the pause after revealing or focusing an element, Commit
	// the pause after a paste so client-side handlers accept the value.
	Settle time.Duration
	Commit time.Duration
}

// NewActor wires an actor to a page, a clipboard and the selector table.
func NewActor(page browser.Page, clip browser.Clipboard, reg *locator.Registry, log *zap.Logger) *Actor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Actor{
		page:   page,
		clip:   clip,
		reg:    reg,
		log:    log,
		Settle: defaultSettle,
		Commit: defaultCommit,
	}
}

func (a *Actor) resolve(role locator.Role) (browser.Element, error) {
	el, err := a.reg.Resolve(a.page, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElementUnavailable, err)
	}
	return el, nil
}

// reveal centers the element in the viewport. Off-screen controls may be
// lazily mounted, so this runs before every interaction.
func (a *Actor) reveal(role locator.Role, el browser.Element) {
	if err := el.ScrollIntoView(); err != nil {
		a.log.Debug("scroll into view failed", zap.String("role", string(role)), zap.Error(err))
	}
	time.Sleep(a.Settle)
}

// Click resolves the role, waits for clickability and clicks.
func (a *Actor) Click(role locator.Role) error {
	el, err := a.resolve(role)
	if err != nil {
		return fmt.Errorf("click %s: %w", role, err)
	}
	a.reveal(role, el)
	if err := el.WaitClickable(a.reg.Wait()); err != nil {
		return fmt.Errorf("click %s: %w: %v", role, ErrNotClickable, err)
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("click %s: %w: %v", role, ErrNotClickable, err)
	}
	a.log.Debug("clicked", zap.String("role", string(role)))
	return nil
}

// SetField replaces a text field's content using select-all then type.
// Typing into an active selection replaces it, which survives fields that
// auto-format their content as it changes.
func (a *Actor) SetField(role locator.Role, value string) error {
	el, err := a.resolve(role)
	if err != nil {
		return fmt.Errorf("set %s: %w", role, err)
	}
	a.reveal(role, el)
	if err := el.Click(); err != nil {
		return fmt.Errorf("set %s: focus: %w", role, err)
	}
	if err := a.page.SelectAll(); err != nil {
		return fmt.Errorf("set %s: select all: %w", role, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("set %s: %w", role, err)
	}
	a.log.Debug("field set", zap.String("role", string(role)))
	return nil
}

// SetFieldByPaste writes the value through the clipboard commit sequence.
// Used for fields with input masks that reject programmatic keystrokes
// character by character.
func (a *Actor) SetFieldByPaste(role locator.Role, value string) error {
	el, err := a.resolve(role)
	if err != nil {
		return fmt.Errorf("paste %s: %w", role, err)
	}
	a.reveal(role, el)
	if err := a.PasteInto(el, value); err != nil {
		return fmt.Errorf("paste %s: %w", role, err)
	}
	a.log.Debug("field pasted", zap.String("role", string(role)))
	return nil
}

// PasteInto runs the clipboard commit sequence against an element the
// caller already holds, such as one discovered while scanning the rubric:
// copy the value, focus, select-all, paste, then tab out to commit.
func (a *Actor) PasteInto(el browser.Element, value string) error {
	if err := a.clip.Write(value); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("focus: %w", err)
	}
	time.Sleep(a.Settle)
	if err := a.page.SelectAll(); err != nil {
		return fmt.Errorf("select all: %w", err)
	}
	if err := a.page.Paste(); err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	if err := a.page.TabOut(); err != nil {
		return fmt.Errorf("tab out: %w", err)
	}
	time.Sleep(a.Commit)
	return nil
}

// SetDateField normalizes free-form date text and pastes the canonical
// form. Unparseable text fails with dates.ErrNotParseable before the page
// is touched; callers treat that as "skip this field".
func (a *Actor) SetDateField(role locator.Role, text string) error {
	canonical, err := dates.Normalize(text)
	if err != nil {
		return fmt.Errorf("set %s: %w", role, err)
	}
	return a.SetFieldByPaste(role, canonical)
}

// Toggle drives a checkbox to the desired state. It reads the current
// state first and clicks only on a mismatch, so repeated calls never
// toggle a correct checkbox back. The return value reports whether a
// click was issued.
func (a *Actor) Toggle(role locator.Role, desired bool) (bool, error) {
	el, err := a.resolve(role)
	if err != nil {
		return false, fmt.Errorf("toggle %s: %w", role, err)
	}
	a.reveal(role, el)
	current, err := el.Checked()
	if err != nil {
		return false, fmt.Errorf("toggle %s: read state: %w", role, err)
	}
	if current == desired {
		a.log.Debug("toggle already in desired state",
			zap.String("role", string(role)), zap.Bool("state", desired))
		return false, nil
	}
	if err := el.Click(); err != nil {
		return false, fmt.Errorf("toggle %s: %w: %v", role, ErrNotClickable, err)
	}
	time.Sleep(a.Settle)
	a.log.Debug("toggled", zap.String("role", string(role)), zap.Bool("state", desired))
	return true, nil
}
