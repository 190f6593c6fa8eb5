package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sectionserver/sectionserver/content"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Resolve substitutes `{{ key }}` placeholders in template against the given
// content map. Missing or empty keys resolve to the empty string. Substituted
// values are never re-scanned, so content can not inject further
// placeholders.
func Resolve(template string, m content.Map) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])
		value, ok := m[key]
		if !ok || value == nil {
			return ""
		}
		switch v := value.(type) {
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	})
}

// ResolveValue resolves string values through Resolve and passes every other
// scalar through unchanged, so numeric style values survive as numbers.
func ResolveValue(value interface{}, m content.Map) interface{} {
	if s, ok := value.(string); ok {
		return Resolve(s, m)
	}
	return value
}

// IsVisible evaluates a node condition against the content map. A bare key
// tests truthiness, a leading `!` negates. No condition means visible.
//
// An unset key is falsy: `someKey` hides the node until the key is set, while
// `!someKey` shows it. That default-hidden behavior for positive conditions
// is intentional.
func IsVisible(node *content.StructureNode, m content.Map) bool {
	if node.Condition == "" {
		return true
	}
	key, negated := strings.CutPrefix(node.Condition, "!")
	if negated {
		return !m.Truthy(key)
	}
	return m.Truthy(key)
}
