// Package browser drives a Chrome instance over the DevTools protocol and
// exposes the narrow page surface the assignment wizard needs. Higher
// layers depend on the Page/Element interfaces only, so tests swap in a
// scripted fake and never touch a real browser.
package browser

import "time"

// Page is a single browser tab. Keystroke methods (SelectAll, Paste,
// TabOut) act on whichever element currently holds focus, which is how
// the clipboard-paste commit sequence reaches fields that rewrite typed
// input.
type Page interface {
	// Navigate drives the tab to url and returns once navigation is
	// committed.
	Navigate(url string) error
	// WaitLoad blocks until the document load event.
	WaitLoad() error
	// URL reports the tab's current location.
	URL() (string, error)
	// Find waits up to timeout for one element matching the strategy.
	Find(s Strategy, timeout time.Duration) (Element, error)
	// FindAll returns every current match without waiting. An empty
	// result is not an error.
	FindAll(s Strategy) ([]Element, error)
	// SelectAll sends Ctrl+A to the focused element.
	SelectAll() error
	// Paste sends Ctrl+V to the focused element.
	Paste() error
	// TabOut sends Tab, moving focus away so the field commits its value.
	TabOut() error
}

// Element is one located DOM node.
type Element interface {
	Click() error
	// Input types text into the element. With a prior SelectAll the
	// typed text replaces the field's content.
	Input(text string) error
	Text() (string, error)
	// Attribute returns the attribute value, or "" when absent.
	Attribute(name string) (string, error)
	// Checked reads the live checked property of a checkbox.
	Checked() (bool, error)
	Visible() (bool, error)
	// ScrollIntoView centers the element in the viewport so lazily
	// mounted controls become interactable.
	ScrollIntoView() error
	// WaitClickable blocks until the element is visible and enabled,
	// up to timeout.
	WaitClickable(timeout time.Duration) error
	// Descendants returns the element's current descendants matching a
	// CSS selector, without waiting.
	Descendants(selector string) ([]Element, error)
}

// Clipboard abstracts the host clipboard used by paste-based field entry.
type Clipboard interface {
	Write(text string) error
}
