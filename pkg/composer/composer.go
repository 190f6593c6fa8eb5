package composer

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/content"
)

type (
	// Confirmer gates destructive-adjacent actions. Returning false cancels
	// the operation without any state change.
	Confirmer interface {
		Confirm(action string, section *content.Section) bool
	}

	// ConfirmerFunc adapter
	ConfirmerFunc func(action string, section *content.Section) bool

	// Listener is notified with the current section list after every
	// effective mutation.
	Listener func(sections []*content.Section)

	// Composer owns the ordered section list of one page edit session.
	// Section ids are unique within the list at all times and never reused
	// after deletion.
	Composer struct {
		l         *zap.Logger
		mu        sync.Mutex
		sections  []*content.Section
		selected  string
		confirmer Confirmer
		listeners []Listener
	}
	Option func(*Composer)
)

func (f ConfirmerFunc) Confirm(action string, section *content.Section) bool {
	return f(action, section)
}

// autoConfirm is the default gate, used when no interactive confirmer is
// wired in.
var autoConfirm = ConfirmerFunc(func(string, *content.Section) bool { return true })

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, opts ...Option) *Composer {
	inst := &Composer{
		l:         l.Named("composer"),
		confirmer: autoConfirm,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithConfirmer(v Confirmer) Option {
	return func(o *Composer) {
		o.confirmer = v
	}
}

func WithSections(v []*content.Section) Option {
	return func(o *Composer) {
		o.sections = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// OnChange registers a listener for section list mutations.
func (c *Composer) OnChange(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Sections returns a copy of the current list.
func (c *Composer) Sections() []*content.Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*content.Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Select marks a section as the active selection.
func (c *Composer) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
}

// Selected returns the id of the active selection, empty when none.
func (c *Composer) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// AddSection constructs a section from a gallery template and inserts it at
// index, clamped to the list bounds. Content is seeded from the template's
// default content.
func (c *Composer) AddSection(index int, template *content.Template) *content.Section {
	c.mu.Lock()

	section := &content.Section{
		ID:           newID(),
		Type:         template.Type,
		Title:        template.Title,
		Content:      template.DefaultContent.Serialize(),
		TemplateData: template.TemplateData,
	}

	if index < 0 {
		index = 0
	}
	if index > len(c.sections) {
		index = len(c.sections)
	}
	c.sections = append(c.sections[:index], append([]*content.Section{section}, c.sections[index:]...)...)
	c.l.Debug("added section",
		zap.String("id", section.ID),
		zap.String("type", section.Type),
		zap.Int("index", index),
	)

	c.mu.Unlock()
	c.notify()
	return section
}

// DuplicateSection deep-copies the target under a fresh id and inserts it
// right after the original. Returns nil when the id is unknown or the
// confirmer cancels.
func (c *Composer) DuplicateSection(id string) *content.Section {
	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		c.mu.Unlock()
		return nil
	}
	original := c.sections[index]
	if !c.confirmer.Confirm("duplicate", original) {
		c.mu.Unlock()
		return nil
	}

	duplicate := original.Copy()
	duplicate.ID = newID()
	c.sections = append(c.sections[:index+1], append([]*content.Section{duplicate}, c.sections[index+1:]...)...)

	c.mu.Unlock()
	c.notify()
	return duplicate
}

// RemoveSection deletes the section by id. The active selection is cleared
// when it pointed at the removed section. Returns false when the id is
// unknown or the confirmer cancels.
func (c *Composer) RemoveSection(id string) bool {
	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		c.mu.Unlock()
		return false
	}
	if !c.confirmer.Confirm("remove", c.sections[index]) {
		c.mu.Unlock()
		return false
	}

	c.sections = append(c.sections[:index], c.sections[index+1:]...)
	if c.selected == id {
		c.selected = ""
	}

	c.mu.Unlock()
	c.notify()
	return true
}

// MoveSection moves a section by the given offset, -1 for up and 1 for down.
func (c *Composer) MoveSection(id string, offset int) bool {
	c.mu.Lock()
	from := c.indexOf(id)
	if from < 0 {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()
	return c.Reorder(from, from+offset)
}

// Reorder removes the section at from and reinserts it at to. All other
// relative orderings are preserved. Out of range indices are a no-op.
func (c *Composer) Reorder(from, to int) bool {
	c.mu.Lock()
	if from < 0 || from >= len(c.sections) || to < 0 || to >= len(c.sections) || from == to {
		c.mu.Unlock()
		return false
	}

	section := c.sections[from]
	rest := append(c.sections[:from:from], c.sections[from+1:]...)
	c.sections = append(rest[:to:to], append([]*content.Section{section}, rest[to:]...)...)

	c.mu.Unlock()
	c.notify()
	return true
}

// UpdateContent replaces the section content when the serialized form
// actually differs. A no-op write triggers neither listeners nor downstream
// persistence. Returns whether anything changed.
func (c *Composer) UpdateContent(id string, m content.Map) bool {
	c.mu.Lock()
	index := c.indexOf(id)
	if index < 0 {
		c.mu.Unlock()
		return false
	}

	serialized := m.Serialize()
	if c.sections[index].Content == serialized {
		c.mu.Unlock()
		return false
	}
	c.sections[index].Content = serialized

	c.mu.Unlock()
	c.notify()
	return true
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Composer) indexOf(id string) int {
	for i, section := range c.sections {
		if section.ID == id {
			return i
		}
	}
	return -1
}

func (c *Composer) notify() {
	sections := c.Sections()
	c.mu.Lock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(sections)
	}
}

func newID() string {
	return uuid.New().String()
}
