package rubric

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

	"go.uber.org/zap"
)

const (
	itemSelector   = ".rubricItem"
	pointsSelector = ".rubricField-points"
	descriptionTag = "p"

	// Texts longer than this are treated as real content rather than a
	// fresh-item placeholder.
	placeholderMaxLen = 20
)

// ItemResult reports the outcome for one target item. Err is nil on
// success; a failed item never stops the items after it.
type ItemResult struct {
	Index       int
	Description string
	Err         error
}

// Synchronizer drives the rubric editor page.
type Synchronizer struct {
	page browser.Page
	act  *interact.Actor
	log  *zap.Logger

	// MountSettle waits for a freshly added row to render, ItemPace
	// spaces consecutive item mutations, RowWait bounds the poll for
	// the default row on a freshly opened editor.
	MountSettle time.Duration
	ItemPace    time.Duration
	RowWait     time.Duration
}

// NewSynchronizer wires a synchronizer to the page and actor it mutates
// the rubric through.
func NewSynchronizer(page browser.Page, act *interact.Actor, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{
		page:        page,
		act:         act,
		log:         log,
		MountSettle: 2 * time.Second,
		ItemPace:    time.Second,
		RowWait:     5 * time.Second,
	}
}

// Apply reconciles the page's rubric with target, in order. Each item is
// attempted independently: a failure is recorded in its result and the
// remaining items still run. An empty target is a no-op.
func (s *Synchronizer) Apply(ctx context.Context, target []Item) []ItemResult {
	if len(target) == 0 {
		return nil
	}

	items, err := s.awaitFirstRow()
	if err != nil {
		s.log.Warn("could not read existing rubric items", zap.Error(err))
	}
	current := len(items)
	if current > 1 {
		s.log.Warn("expected a single default rubric item", zap.Int("found", current))
	}

	results := make([]ItemResult, 0, len(target))
	ops := Plan(current, target)
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			results = append(results, ItemResult{Index: op.Index, Description: op.Item.Description, Err: err})
			continue
		}

		var opErr error
		switch op.Kind {
		case OpEditDefault:
			opErr = s.editDefault(op.Item)
		case OpAppend:
			opErr = s.appendItem(ctx, op.Item)
		}
		if opErr != nil {
			s.log.Warn("rubric item failed",
				zap.Int("index", op.Index),
				zap.String("description", op.Item.Description),
				zap.Error(opErr))
		} else {
			s.log.Debug("rubric item applied", zap.Int("index", op.Index))
		}
		results = append(results, ItemResult{Index: op.Index, Description: op.Item.Description, Err: opErr})

		if i < len(ops)-1 {
			pause.Sleep(ctx, s.ItemPace)
		}
	}
	return results
}

func (s *Synchronizer) items() ([]browser.Element, error) {
	return s.page.FindAll(browser.CSS(itemSelector))
}

// awaitFirstRow reads the rubric rows, polling briefly when none are
// present yet: the editor mounts its default row asynchronously, and
// planning against a premature empty read would append a duplicate on top
// of it. A page that never produces a row within RowWait falls through
// empty, so every target item is appended.
func (s *Synchronizer) awaitFirstRow() ([]browser.Element, error) {
	items, err := s.items()
	if err != nil || len(items) > 0 {
		return items, err
	}
	if _, err := s.page.Find(browser.CSS(itemSelector), s.RowWait); err != nil {
		return nil, nil
	}
	return s.items()
}

// editDefault rewrites the placeholder entry the target created with the
// first desired item.
func (s *Synchronizer) editDefault(item Item) error {
	desc, err := s.defaultDescription()
	if err != nil {
		return err
	}
	if err := s.act.PasteInto(desc, capitalize(item.Description)); err != nil {
		return fmt.Errorf("description: %w", err)
	}

	points, err := s.firstPointsField()
	if err != nil {
		return err
	}
	if err := s.act.PasteInto(points, FormatPoints(item.Points)); err != nil {
		return fmt.Errorf("points: %w", err)
	}
	return nil
}

// defaultDescription locates the default entry's editable text, first by
// its "Correct" placeholder, then by being the sole item on the page.
func (s *Synchronizer) defaultDescription() (browser.Element, error) {
	paragraphs, err := s.page.FindAll(browser.CSS(descriptionTag))
	if err != nil {
		return nil, err
	}
	for _, p := range paragraphs {
		text, err := p.Text()
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "Correct" {
			return p, nil
		}
	}

	items, err := s.items()
	if err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return editableDescription(items[0])
	}
	return nil, errors.New("default rubric item not found")
}

func (s *Synchronizer) firstPointsField() (browser.Element, error) {
	fields, err := s.page.FindAll(browser.CSS(pointsSelector))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.New("no rubric points field on page")
	}
	return fields[0], nil
}

// appendItem clicks the add button, waits for the new row to mount, then
// fills its description and points.
func (s *Synchronizer) appendItem(ctx context.Context, item Item) error {
	if err := s.act.Click(locator.RoleAddRubricItemButton); err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	pause.Sleep(ctx, s.MountSettle)

	items, err := s.items()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("no rubric items after add")
	}
	last := items[len(items)-1]

	desc, err := editableDescription(last)
	if err != nil {
		return err
	}
	if err := s.act.PasteInto(desc, capitalize(item.Description)); err != nil {
		return fmt.Errorf("description: %w", err)
	}

	// Re-read the row: committing the description can re-render it.
	items, err = s.items()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("rubric items vanished after edit")
	}
	last = items[len(items)-1]

	points, err := last.Descendants(pointsSelector)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return errors.New("new rubric item has no points field")
	}
	if err := s.act.PasteInto(points[0], FormatPoints(item.Points)); err != nil {
		return fmt.Errorf("points: %w", err)
	}
	return nil
}

// editableDescription picks the paragraph holding an item's editable
// description.
func editableDescription(item browser.Element) (browser.Element, error) {
	paragraphs, err := item.Descendants(descriptionTag)
	if err != nil {
		return nil, err
	}
	for _, p := range paragraphs {
		text, err := p.Text()
		if err != nil {
			continue
		}
		if looksPlaceholder(strings.TrimSpace(text)) {
			return p, nil
		}
	}
	if len(paragraphs) > 0 {
		return paragraphs[0], nil
	}
	return nil, errors.New("rubric item has no description paragraph")
}

// looksPlaceholder reports whether text is a fresh-item placeholder
// rather than real content.
func looksPlaceholder(text string) bool {
	switch text {
	case "Correct", "Incorrect", "":
		return true
	}
	return len([]rune(text)) < placeholderMaxLen
}
