package content

// Status publishing state of a page
type Status string

const (
	// StatusDraft the page is only visible in the editor
	StatusDraft Status = "draft"
	// StatusPublished the page is publicly addressable by its slug
	StatusPublished Status = "published"
)

// HomeSlug addresses the home page. An empty slug is normalized to it.
const HomeSlug = "/"

// Page is the persisted aggregate. Content holds the serialized section
// list, sections are never stored individually.
type Page struct {
	ID      string `json:"id,omitempty"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  Status `json:"status"`
	ThemeID string `json:"themeId,omitempty"`
}

// NormalizedSlug returns the addressing key for the page, mapping the empty
// slug to HomeSlug.
func (p *Page) NormalizedSlug() string {
	if p.Slug == "" {
		return HomeSlug
	}
	return p.Slug
}

// Sections deserializes the stored section list. A broken document recovers
// to an empty list.
func (p *Page) Sections() []*Section {
	if p.Content == "" {
		return nil
	}
	var sections []*Section
	if err := json.UnmarshalFromString(p.Content, &sections); err != nil {
		return nil
	}
	return sections
}

// SetSections serializes the given section list into the aggregate.
func (p *Page) SetSections(sections []*Section) error {
	out, err := json.MarshalToString(sections)
	if err != nil {
		return err
	}
	p.Content = out
	return nil
}
