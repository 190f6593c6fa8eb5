package requests

import (
	"github.com/sectionserver/sectionserver/content"
)

// PageUpsert stores a whole page aggregate. An empty id requests a
// server-assigned one.
type PageUpsert struct {
	ID      string `json:"id,omitempty"`
	Slug    string `json:"slug" validate:"max=200"`
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content"`
	Status  string `json:"status" validate:"required,oneof=draft published"`
	ThemeID string `json:"themeId,omitempty"`
}

// ToPage converts the request into the persisted aggregate.
func (r *PageUpsert) ToPage() *content.Page {
	return &content.Page{
		ID:      r.ID,
		Slug:    r.Slug,
		Title:   r.Title,
		Content: r.Content,
		Status:  content.Status(r.Status),
		ThemeID: r.ThemeID,
	}
}

// Page addresses one page by id.
type Page struct {
	ID string `json:"id" validate:"required"`
}

// PageBySlug addresses one page by its public slug. An empty slug addresses
// the home page.
type PageBySlug struct {
	Slug string `json:"slug" validate:"max=200"`
}
