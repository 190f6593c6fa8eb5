package render

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/content"
	"github.com/sectionserver/sectionserver/pkg/metrics"
)

// templatedProps lists the attribute names whose values run through the
// resolver. Everything else is copied verbatim.
var templatedProps = map[string]bool{
	"src":  true,
	"href": true,
	"alt":  true,
}

type (
	Renderer struct {
		l *zap.Logger
	}
	Option func(*Renderer)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, opts ...Option) *Renderer {
	inst := &Renderer{
		l: l.Named("render"),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// RenderSection renders a dynamic section into its stable wrapper element.
// A missing structure yields a visible error banner instead of an error, the
// renderer never fails a page.
func (r *Renderer) RenderSection(data *content.TemplateData, m content.Map) *Element {
	wrapper := NewElement(content.DefaultTag)
	wrapper.WithAttribute("className", "dynamic-section")

	if data == nil || data.Structure == nil {
		r.l.Warn("rendering section without structure")
		metrics.RenderErrorCounter.WithLabelValues("missing_structure").Inc()
		return wrapper.Append(
			NewElement("p").
				WithAttribute("className", "dynamic-section-error").
				WithText("No structure defined for this section"),
		)
	}

	if data.Styles != "" {
		// the scope id only provides CSS scoping context for this render
		// pass, it is not a stable handle
		scope := "ds-" + uuid.New().String()[:8]
		wrapper.WithAttribute("className", "dynamic-section "+scope)
		wrapper.Append(
			NewElement("style").
				WithAttribute("data-scope", scope).
				WithText(data.Styles),
		)
	}

	metrics.RenderCounter.WithLabelValues().Inc()
	return wrapper.Append(r.RenderNode(data.Structure, m))
}

// RenderNode recursively renders one structure node. It returns nil for nil
// nodes, hidden nodes and denied tags. A hidden node hides its whole
// subtree, child conditions are not consulted.
func (r *Renderer) RenderNode(node *content.StructureNode, m content.Map) *Element {
	if node == nil {
		return nil
	}
	if !IsVisible(node, m) {
		return nil
	}

	tag := node.EffectiveTag()
	if content.TagDenied(tag) {
		r.l.Debug("dropping denied tag", zap.String("tag", tag))
		metrics.RenderErrorCounter.WithLabelValues("denied_tag").Inc()
		return nil
	}

	element := NewElement(tag)
	if node.ClassName != "" {
		element.WithAttribute("className", node.ClassName)
	}
	if len(node.Style) > 0 {
		style := make(map[string]interface{}, len(node.Style))
		for property, value := range node.Style {
			style[property] = ResolveValue(value, m)
		}
		element.WithAttribute("style", style)
	}
	for name, value := range node.Props {
		if templatedProps[name] {
			element.WithAttribute(name, Resolve(value, m))
		} else {
			element.WithAttribute(name, value)
		}
	}

	if node.Text != "" {
		element.WithText(Resolve(node.Text, m))
		return element
	}
	for _, child := range node.Children {
		element.Append(r.RenderNode(child, m))
	}
	return element
}
