package content

// MaxMenuDepth bounds nesting below the root level: an item may have
// children and grandchildren, nothing deeper.
const MaxMenuDepth = 2

// MenuItem is one entry of the navigation tree.
type MenuItem struct {
	ID       string      `json:"id"`
	Label    string      `json:"label"`
	Link     string      `json:"link"`
	Children []*MenuItem `json:"children,omitempty"`
}

// Menu is the persisted navigation configuration, upserted as a unit.
type Menu struct {
	Layout    string          `json:"layout"`
	Settings  map[string]bool `json:"settings,omitempty"`
	MenuItems []*MenuItem     `json:"menuItems"`
}
