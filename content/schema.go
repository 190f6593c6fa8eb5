package content

// FieldType enumerates the input kinds the schema driven editor understands.
type FieldType string

const (
	FieldTypeHeader   FieldType = "header"
	FieldTypeText     FieldType = "text"
	FieldTypeString   FieldType = "string"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeColor    FieldType = "color"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeImage    FieldType = "image"
	FieldTypeSelect   FieldType = "select"
)

// FieldOption is one choice of a select field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldSchema describes one editable property of a section. Order in the
// schema array is display order. A header entry is a grouping label and binds
// no value.
type FieldSchema struct {
	Key         string        `json:"key,omitempty"`
	Label       string        `json:"label"`
	Type        FieldType     `json:"type"`
	Placeholder string        `json:"placeholder,omitempty"`
	Rows        int           `json:"rows,omitempty"`
	Options     []FieldOption `json:"options,omitempty"`
}
