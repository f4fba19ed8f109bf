// Package dates normalizes human-entered date/time text into the single
// canonical layout the assignment form accepts.
package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical form every accepted input is rewritten to.
const Layout = "2006-01-02 15:04"

// layouts are tried in order. The canonical layout comes first so an
// already-normalized value round-trips unchanged.
var layouts = []string{
	Layout,
	"2006/01/02 15:04",
	"2006-01-02T15:04",
}

// ErrNotParseable marks input that matches none of the accepted layouts.
// Callers treat it as a per-field condition, not a fatal one.
var ErrNotParseable = errors.New("date text matches no accepted layout")

// Normalize parses text against the accepted layouts and reformats the
// result canonically. Surrounding whitespace is ignored. Inputs that are
// already canonical come back unchanged.
func Normalize(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("empty date text: %w", ErrNotParseable)
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return t.Format(Layout), nil
		}
	}
	return "", fmt.Errorf("%q: %w", text, ErrNotParseable)
}
