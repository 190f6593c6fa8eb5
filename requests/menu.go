package requests

import (
	"github.com/sectionserver/sectionserver/content"
)

// MenuSave upserts the whole navigation configuration as a unit.
type MenuSave struct {
	Layout    string              `json:"layout" validate:"required"`
	Settings  map[string]bool     `json:"settings,omitempty"`
	MenuItems []*content.MenuItem `json:"menuItems"`
}

// ToMenu converts the request into the persisted configuration.
func (r *MenuSave) ToMenu() *content.Menu {
	return &content.Menu{
		Layout:    r.Layout,
		Settings:  r.Settings,
		MenuItems: r.MenuItems,
	}
}
