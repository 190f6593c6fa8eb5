package content

// StructureNode is the declarative layout unit of a dynamic section. It is
// authored once per template and never mutated at render time.
type StructureNode struct {
	Tag       string                 `json:"tag,omitempty"`
	ClassName string                 `json:"className,omitempty"`
	Style     map[string]interface{} `json:"style,omitempty"`
	Props     map[string]string      `json:"props,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Children  []*StructureNode       `json:"children,omitempty"`
	Condition string                 `json:"condition,omitempty"`
}

// DefaultTag is used when a node does not declare a tag.
const DefaultTag = "div"

// deniedTags lists element kinds that must never be constructed, no matter
// what the structure data says.
var deniedTags = map[string]bool{
	"script":   true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"noscript": true,
}

// EffectiveTag returns the tag to render, falling back to DefaultTag.
func (n *StructureNode) EffectiveTag() string {
	if n.Tag == "" {
		return DefaultTag
	}
	return n.Tag
}

// TagDenied reports whether the given tag is on the denylist.
func TagDenied(tag string) bool {
	return deniedTags[tag]
}
