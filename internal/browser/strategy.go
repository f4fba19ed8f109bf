package browser

import "fmt"

// StrategyKind enumerates the supported element lookup mechanisms.
type StrategyKind string

const (
	// ByCSS matches a CSS selector.
	ByCSS StrategyKind = "css"
	// ByName matches a form control by its name attribute.
	ByName StrategyKind = "name"
	// ByXPath matches an XPath expression.
	ByXPath StrategyKind = "xpath"
	// ByLabel matches the first element for a CSS selector whose visible
	// text contains the label, used where no structural attribute exists.
	ByLabel StrategyKind = "label"
)

// Strategy describes how to locate one element on the page. Values are
// plain data so a registry can own the full selector table and drivers
// stay interchangeable.
type Strategy struct {
	Kind  StrategyKind
	Value string
	Label string
}

// CSS builds a CSS selector strategy.
func CSS(selector string) Strategy {
	return Strategy{Kind: ByCSS, Value: selector}
}

// Name builds a strategy that targets a form control by name attribute.
func Name(name string) Strategy {
	return Strategy{Kind: ByName, Value: name}
}

// XPath builds an XPath strategy.
func XPath(expr string) Strategy {
	return Strategy{Kind: ByXPath, Value: expr}
}

// Label builds a text-match strategy scoped to a CSS selector.
func Label(selector, label string) Strategy {
	return Strategy{Kind: ByLabel, Value: selector, Label: label}
}

// String renders the strategy for logs and error messages.
func (s Strategy) String() string {
	if s.Kind == ByLabel {
		return fmt.Sprintf("%s:%s[text=%q]", s.Kind, s.Value, s.Label)
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.Value)
}

// nameSelector rewrites a name attribute into its CSS attribute form.
func nameSelector(name string) string {
	return fmt.Sprintf("[name=%q]", name)
}
