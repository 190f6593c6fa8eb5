package content

// TypeDynamic marks a section whose layout is described by a structure tree
// instead of a fixed template kind.
const TypeDynamic = "dynamic"

// TemplateData carries the structure, scoped styles and editable surface of a
// dynamic section. Fixed template kinds leave it nil.
type TemplateData struct {
	Structure *StructureNode `json:"structure"`
	Styles    string         `json:"styles,omitempty"`
	Schema    []FieldSchema  `json:"schema,omitempty"`
}

// Section is one page builder block. Content is persisted as a serialized
// string so the stored page aggregate stays a flat document.
type Section struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	TemplateData *TemplateData `json:"templateData,omitempty"`
}

// ContentMap deserializes the stored content, recovering broken documents to
// an empty map.
func (s *Section) ContentMap() Map {
	return ParseMap(s.Content)
}

// Copy returns a struct copy of the section. That is enough for independent
// edits: Content is a serialized string, and TemplateData is immutable once
// authored and may be shared.
func (s *Section) Copy() *Section {
	out := *s
	return &out
}

// Template is a gallery entry a new section is seeded from.
type Template struct {
	Type           string        `json:"type"`
	Title          string        `json:"title"`
	DefaultContent Map           `json:"defaultContent,omitempty"`
	TemplateData   *TemplateData `json:"templateData,omitempty"`
}
