// Package browsertest provides scripted in-memory fakes for the browser
// interfaces. Tests preload elements per locator strategy, attach click
// hooks to emulate page transitions, and assert on the recorded event
// order afterwards.
package browsertest

import (
	"fmt"
	"strings"
	"time"

	"gsbatch/internal/browser"
)

// Recorder keeps an ordered log of fake interactions.
type Recorder struct {
	Events []string
}

func (r *Recorder) add(format string, args ...any) {
	r.Events = append(r.Events, fmt.Sprintf(format, args...))
}

// Has reports whether any recorded event contains substr.
func (r *Recorder) Has(substr string) bool {
	return r.Count(substr) > 0
}

// Count returns how many recorded events contain substr.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, ev := range r.Events {
		if strings.Contains(ev, substr) {
			n++
		}
	}
	return n
}

// IndexOf returns the position of the first event containing substr, or -1.
func (r *Recorder) IndexOf(substr string) int {
	for i, ev := range r.Events {
		if strings.Contains(ev, substr) {
			return i
		}
	}
	return -1
}

// Element is a scripted DOM node.
type Element struct {
	ID  string
	Rec *Recorder

	// Value holds typed input, TextValue the visible text.
	Value     string
	TextValue string
	Attrs     map[string]string

	// IsCheckbox makes Click flip CheckedValue, like a real checkbox.
	IsCheckbox   bool
	CheckedValue bool
	Hidden       bool

	ClickErr error
	InputErr error
	WaitErr  error

	// OnClick runs after a successful click, letting tests emulate page
	// reactions such as mounting a new rubric item or changing the URL.
	OnClick func()

	DescendantsBySel map[string][]*Element

	Clicks int
	Inputs []string
}

// NewElement returns a visible element wired to the recorder.
func NewElement(id string, rec *Recorder) *Element {
	return &Element{ID: id, Rec: rec, Attrs: map[string]string{}, DescendantsBySel: map[string][]*Element{}}
}

// NewCheckbox returns an unchecked checkbox element.
func NewCheckbox(id string, rec *Recorder) *Element {
	el := NewElement(id, rec)
	el.IsCheckbox = true
	return el
}

func (e *Element) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	e.Rec.add("click %s", e.ID)
	if e.IsCheckbox {
		e.CheckedValue = !e.CheckedValue
	}
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) Input(text string) error {
	if e.InputErr != nil {
		return e.InputErr
	}
	e.Value = text
	e.Inputs = append(e.Inputs, text)
	e.Rec.add("input %s %q", e.ID, text)
	return nil
}

func (e *Element) Text() (string, error) {
	return e.TextValue, nil
}

func (e *Element) Attribute(name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *Element) Checked() (bool, error) {
	return e.CheckedValue, nil
}

func (e *Element) Visible() (bool, error) {
	return !e.Hidden, nil
}

func (e *Element) ScrollIntoView() error {
	e.Rec.add("scroll %s", e.ID)
	return nil
}

func (e *Element) WaitClickable(time.Duration) error {
	return e.WaitErr
}

func (e *Element) Descendants(selector string) ([]browser.Element, error) {
	els := e.DescendantsBySel[selector]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

// Page is a scripted tab. Single elements are stubbed per strategy via
// Stub; element collections via StubList.
type Page struct {
	Rec *Recorder

	URLValue    string
	NavigateErr error
	WaitLoadErr error

	SelectAllErr error
	PasteErr     error
	TabErr       error

	// FindTimeouts records the bounded wait passed to each Find call.
	FindTimeouts []time.Duration

	// OnFind runs before each Find lookup, letting tests emulate nodes
	// that mount only once something polls for them.
	OnFind func(s browser.Strategy)

	elements map[string]*Element
	findErrs map[string]error
	lists    map[string][]*Element
}

// NewPage returns an empty page with a fresh recorder.
func NewPage() *Page {
	return &Page{
		Rec:      &Recorder{},
		elements: map[string]*Element{},
		findErrs: map[string]error{},
		lists:    map[string][]*Element{},
	}
}

// Stub registers the element returned by Find for a strategy.
func (p *Page) Stub(s browser.Strategy, el *Element) {
	p.elements[s.String()] = el
}

// StubFindErr makes Find fail for a strategy.
func (p *Page) StubFindErr(s browser.Strategy, err error) {
	p.findErrs[s.String()] = err
}

// StubList sets the collection returned by FindAll for a strategy.
func (p *Page) StubList(s browser.Strategy, els ...*Element) {
	p.lists[s.String()] = els
}

// AppendToList grows a stubbed collection, emulating a freshly mounted node.
func (p *Page) AppendToList(s browser.Strategy, el *Element) {
	p.lists[s.String()] = append(p.lists[s.String()], el)
}

// List returns the current stubbed collection.
func (p *Page) List(s browser.Strategy) []*Element {
	return p.lists[s.String()]
}

func (p *Page) Navigate(url string) error {
	p.Rec.add("navigate %s", url)
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.URLValue = url
	return nil
}

func (p *Page) WaitLoad() error {
	return p.WaitLoadErr
}

func (p *Page) URL() (string, error) {
	return p.URLValue, nil
}

func (p *Page) Find(s browser.Strategy, timeout time.Duration) (browser.Element, error) {
	p.FindTimeouts = append(p.FindTimeouts, timeout)
	if p.OnFind != nil {
		p.OnFind(s)
	}
	key := s.String()
	if err := p.findErrs[key]; err != nil {
		return nil, err
	}
	el, ok := p.elements[key]
	if !ok {
		return nil, fmt.Errorf("no element stubbed for %s", s)
	}
	return el, nil
}

func (p *Page) FindAll(s browser.Strategy) ([]browser.Element, error) {
	els := p.lists[s.String()]
	out := make([]browser.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) SelectAll() error {
	if p.SelectAllErr != nil {
		return p.SelectAllErr
	}
	p.Rec.add("selectall")
	return nil
}

func (p *Page) Paste() error {
	if p.PasteErr != nil {
		return p.PasteErr
	}
	p.Rec.add("paste")
	return nil
}

func (p *Page) TabOut() error {
	if p.TabErr != nil {
		return p.TabErr
	}
	p.Rec.add("tab")
	return nil
}

// Clipboard records written values.
type Clipboard struct {
	Rec    *Recorder
	Writes []string
	Err    error
}

// NewClipboard returns a clipboard sharing the page's recorder.
func NewClipboard(rec *Recorder) *Clipboard {
	return &Clipboard{Rec: rec}
}

func (c *Clipboard) Write(text string) error {
	if c.Err != nil {
		return c.Err
	}
	c.Writes = append(c.Writes, text)
	c.Rec.add("clip.write %s", text)
	return nil
}

var (
	_ browser.Page      = (*Page)(nil)
	_ browser.Element   = (*Element)(nil)
	_ browser.Clipboard = (*Clipboard)(nil)
)
