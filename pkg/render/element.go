package render

// Element is the generic output of the renderer: a tag with attributes and
// either text or child elements. It carries no rendering-target specifics,
// the same tree can back an HTML writer or any other front end.
type Element struct {
	Tag        string                 `json:"tag"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Text       string                 `json:"text,omitempty"`
	Children   []*Element             `json:"children,omitempty"`
}

// NewElement constructor
func NewElement(tag string) *Element {
	return &Element{
		Tag:        tag,
		Attributes: map[string]interface{}{},
	}
}

// WithAttribute sets one attribute and returns the element for chaining.
func (e *Element) WithAttribute(name string, value interface{}) *Element {
	e.Attributes[name] = value
	return e
}

// WithText sets the sole textual child.
func (e *Element) WithText(text string) *Element {
	e.Text = text
	return e
}

// Append adds child elements, skipping nils.
func (e *Element) Append(children ...*Element) *Element {
	for _, child := range children {
		if child != nil {
			e.Children = append(e.Children, child)
		}
	}
	return e
}
