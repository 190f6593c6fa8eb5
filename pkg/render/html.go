package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// WriteHTML serializes a rendered element tree as HTML. A nil element writes
// nothing.
func WriteHTML(w io.Writer, element *Element) error {
	if element == nil {
		return nil
	}
	node := toHTMLNode(element)
	if err := html.Render(w, node); err != nil {
		return errors.Wrap(err, "failed to render element tree")
	}
	return nil
}

// HTMLString serializes a rendered element tree into a string.
func HTMLString(element *Element) (string, error) {
	var sb strings.Builder
	if err := WriteHTML(&sb, element); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toHTMLNode(element *Element) *html.Node {
	node := &html.Node{
		Type: html.ElementNode,
		Data: element.Tag,
	}

	names := make([]string, 0, len(element.Attributes))
	for name := range element.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := element.Attributes[name]
		attr := html.Attribute{Key: name}
		switch name {
		case "className":
			attr.Key = "class"
			attr.Val = fmt.Sprint(value)
		case "style":
			attr.Val = styleString(value)
		default:
			attr.Val = fmt.Sprint(value)
		}
		node.Attr = append(node.Attr, attr)
	}

	if element.Text != "" {
		node.AppendChild(&html.Node{Type: html.TextNode, Data: element.Text})
		return node
	}
	for _, child := range element.Children {
		node.AppendChild(toHTMLNode(child))
	}
	return node
}

func styleString(value interface{}) string {
	style, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Sprint(value)
	}
	properties := make([]string, 0, len(style))
	for property := range style {
		properties = append(properties, property)
	}
	sort.Strings(properties)

	var sb strings.Builder
	for _, property := range properties {
		if sb.Len() > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(property)
		sb.WriteString(":")
		sb.WriteString(fmt.Sprint(style[property]))
	}
	return sb.String()
}
