package browser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// rodPage adapts a rod tab to the Page interface. Every blocking element
// operation is bounded by opTimeout so a stalled renderer surfaces as an
// error instead of a hang.
type rodPage struct {
	p          *rod.Page
	opTimeout  time.Duration
	navTimeout time.Duration
}

func newRodPage(p *rod.Page, opTimeout, navTimeout time.Duration) *rodPage {
	return &rodPage{p: p, opTimeout: opTimeout, navTimeout: navTimeout}
}

func (p *rodPage) Navigate(url string) error {
	if err := p.p.Timeout(p.navTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (p *rodPage) WaitLoad() error {
	return p.p.Timeout(p.navTimeout).WaitLoad()
}

func (p *rodPage) URL() (string, error) {
	info, err := p.p.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

func (p *rodPage) Find(s Strategy, timeout time.Duration) (Element, error) {
	target := p.p.Timeout(timeout)

	var el *rod.Element
	var err error
	switch s.Kind {
	case ByCSS:
		el, err = target.Element(s.Value)
	case ByName:
		el, err = target.Element(nameSelector(s.Value))
	case ByXPath:
		el, err = target.ElementX(s.Value)
	case ByLabel:
		el, err = target.ElementR(s.Value, labelPattern(s.Label))
	default:
		return nil, fmt.Errorf("unsupported strategy kind %q", s.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s, err)
	}
	return &rodElement{el: el.CancelTimeout(), opTimeout: p.opTimeout}, nil
}

func (p *rodPage) FindAll(s Strategy) ([]Element, error) {
	var els rod.Elements
	var err error
	switch s.Kind {
	case ByCSS:
		els, err = p.p.Elements(s.Value)
	case ByName:
		els, err = p.p.Elements(nameSelector(s.Value))
	case ByXPath:
		els, err = p.p.ElementsX(s.Value)
	case ByLabel:
		els, err = p.p.Elements(s.Value)
		if err == nil {
			els = filterByText(els, s.Label)
		}
	default:
		return nil, fmt.Errorf("unsupported strategy kind %q", s.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("find all %s: %w", s, err)
	}
	return p.wrapAll(els), nil
}

func (p *rodPage) wrapAll(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el, opTimeout: p.opTimeout})
	}
	return out
}

// SelectAll sends Ctrl+A to the focused element.
func (p *rodPage) SelectAll() error {
	return p.p.KeyActions().Press(input.ControlLeft).Type(input.KeyA).Do()
}

// Paste sends Ctrl+V, inserting the host clipboard into the focused element.
func (p *rodPage) Paste() error {
	return p.p.KeyActions().Press(input.ControlLeft).Type(input.KeyV).Do()
}

// TabOut sends Tab so the focused field commits its value.
func (p *rodPage) TabOut() error {
	return p.p.Keyboard.Type(input.Tab)
}

// labelPattern turns a literal label into a containment regex for
// ElementR. The target decorates some labels with extra text (counts,
// icons, helper copy), so an anchored exact match would miss them.
func labelPattern(label string) string {
	return regexp.QuoteMeta(label)
}

// textContainsLabel is the containment rule labelPattern compiles to,
// shared with FindAll's text filter.
func textContainsLabel(text, label string) bool {
	return strings.Contains(text, label)
}

func filterByText(els rod.Elements, label string) rod.Elements {
	var matched rod.Elements
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		if textContainsLabel(text, label) {
			matched = append(matched, el)
		}
	}
	return matched
}

type rodElement struct {
	el        *rod.Element
	opTimeout time.Duration
}

// bounded returns a clone of the element whose operations time out rather
// than wait forever on a control that never becomes interactable.
func (e *rodElement) bounded() *rod.Element {
	return e.el.Timeout(e.opTimeout)
}

func (e *rodElement) Click() error {
	return e.bounded().Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Input(text string) error {
	return e.bounded().Input(text)
}

func (e *rodElement) Text() (string, error) {
	return e.bounded().Text()
}

func (e *rodElement) Attribute(name string) (string, error) {
	val, err := e.bounded().Attribute(name)
	if err != nil {
		return "", err
	}
	if val == nil {
		return "", nil
	}
	return *val, nil
}

func (e *rodElement) Checked() (bool, error) {
	prop, err := e.bounded().Property("checked")
	if err != nil {
		return false, err
	}
	return prop.Bool(), nil
}

func (e *rodElement) Visible() (bool, error) {
	return e.bounded().Visible()
}

func (e *rodElement) ScrollIntoView() error {
	_, err := e.bounded().Eval(`() => this.scrollIntoView({block: "center", inline: "nearest"})`)
	return err
}

func (e *rodElement) WaitClickable(timeout time.Duration) error {
	el := e.el.Timeout(timeout)
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("wait visible: %w", err)
	}
	if err := el.WaitEnabled(); err != nil {
		return fmt.Errorf("wait enabled: %w", err)
	}
	return nil
}

func (e *rodElement) Descendants(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("descendants %s: %w", selector, err)
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el, opTimeout: e.opTimeout})
	}
	return out, nil
}
