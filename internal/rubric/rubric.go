// Package rubric reconciles the default rubric the target application
// attaches to a new question with the desired item list. Items are
// applied strictly in order: the first target item rewrites the default
// entry in place, every further item is appended through the add button.
package rubric

import (
	"strconv"
	"strings"
	"unicode"
)

// Item is one desired rubric entry.
type Item struct {
	Description string
	Points      float64
}

// OpKind distinguishes rewriting the default entry from appending.
type OpKind string

const (
	OpEditDefault OpKind = "edit_default"
	OpAppend      OpKind = "append"
)

// Op is one planned rubric mutation.
type Op struct {
	Kind  OpKind
	Index int
	Item  Item
}

// Plan maps the page's current item count and the target list onto
// operations. With at least one existing item the first target item
// becomes an in-place edit of the default entry; everything else appends.
// An empty target plans nothing.
func Plan(current int, target []Item) []Op {
	ops := make([]Op, 0, len(target))
	for i, item := range target {
		if i == 0 && current > 0 {
			ops = append(ops, Op{Kind: OpEditDefault, Index: i, Item: item})
			continue
		}
		ops = append(ops, Op{Kind: OpAppend, Index: i, Item: item})
	}
	return ops
}

// capitalize renders a description the way the target displays rubric
// text: first rune upper-cased, the remainder lowered.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	head := string(unicode.ToUpper(runes[0]))
	return head + strings.ToLower(string(runes[1:]))
}

// FormatPoints renders integral values bare ("10", not "10.0") and keeps
// fractional values exact. The outline page's points field and the rubric
// editor share this rule.
func FormatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
