package menu

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/content"
)

type (
	// ItemPatch carries the fields of a menu item update. Nil fields are
	// left untouched.
	ItemPatch struct {
		Label *string
		Link  *string
	}

	// Editor owns the navigation tree of one edit session. Every mutation
	// returns a new tree, untouched branches are shared but never mutated.
	// Nesting is bounded: items two levels below the root can not receive
	// children.
	Editor struct {
		l     *zap.Logger
		mu    sync.Mutex
		items []*content.MenuItem
	}
	Option func(*Editor)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, opts ...Option) *Editor {
	inst := &Editor{
		l: l.Named("menu"),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithItems(v []*content.MenuItem) Option {
	return func(o *Editor) {
		o.items = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Items returns the current tree.
func (e *Editor) Items() []*content.MenuItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.items
}

// AddItem appends a new root item.
func (e *Editor) AddItem(label, link string) *content.MenuItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	item := &content.MenuItem{
		ID:    uuid.New().String(),
		Label: label,
		Link:  link,
	}
	items := make([]*content.MenuItem, len(e.items), len(e.items)+1)
	copy(items, e.items)
	e.items = append(items, item)
	return item
}

// UpdateItem patches the item with the given id at any depth. Returns false
// when the id is unknown.
func (e *Editor) UpdateItem(id string, patch ItemPatch) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	items, found := updateTree(e.items, id, patch)
	if found {
		e.items = items
	}
	return found
}

// DeleteItem removes the item with the given id at any depth, including its
// children.
func (e *Editor) DeleteItem(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	items, found := deleteFromTree(e.items, id)
	if found {
		e.items = items
	}
	return found
}

// AddChild appends a new sub item under parentID. Adding below the maximum
// nesting depth is refused and reported as a no-op.
func (e *Editor) AddChild(parentID string) *content.MenuItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	depth := depthOf(e.items, parentID, 0)
	if depth < 0 || depth >= content.MaxMenuDepth {
		e.l.Debug("add child refused",
			zap.String("parentID", parentID),
			zap.Int("depth", depth),
		)
		return nil
	}
	child := &content.MenuItem{
		ID:    uuid.New().String(),
		Label: "New item",
		Link:  "#",
	}
	items, added := addChildToTree(e.items, parentID, child)
	if !added {
		return nil
	}
	e.items = items
	return child
}

// Reorder moves the root item at from to to, keeping all other relative
// orderings. Reordering happens among siblings only.
func (e *Editor) Reorder(from, to int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if from < 0 || from >= len(e.items) || to < 0 || to >= len(e.items) || from == to {
		return false
	}
	item := e.items[from]
	rest := append(e.items[:from:from], e.items[from+1:]...)
	e.items = append(rest[:to:to], append([]*content.MenuItem{item}, rest[to:]...)...)
	return true
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func updateTree(items []*content.MenuItem, id string, patch ItemPatch) ([]*content.MenuItem, bool) {
	found := false
	out := make([]*content.MenuItem, len(items))
	for i, item := range items {
		if item.ID == id {
			next := *item
			if patch.Label != nil {
				next.Label = *patch.Label
			}
			if patch.Link != nil {
				next.Link = *patch.Link
			}
			out[i] = &next
			found = true
			continue
		}
		if !found && len(item.Children) > 0 {
			if children, ok := updateTree(item.Children, id, patch); ok {
				next := *item
				next.Children = children
				out[i] = &next
				found = true
				continue
			}
		}
		out[i] = item
	}
	if !found {
		return items, false
	}
	return out, true
}

func deleteFromTree(items []*content.MenuItem, id string) ([]*content.MenuItem, bool) {
	found := false
	out := make([]*content.MenuItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		if !found && len(item.Children) > 0 {
			if children, ok := deleteFromTree(item.Children, id); ok {
				next := *item
				next.Children = children
				out = append(out, &next)
				found = true
				continue
			}
		}
		out = append(out, item)
	}
	if !found {
		return items, false
	}
	return out, true
}

func addChildToTree(items []*content.MenuItem, parentID string, child *content.MenuItem) ([]*content.MenuItem, bool) {
	added := false
	out := make([]*content.MenuItem, len(items))
	for i, item := range items {
		if item.ID == parentID {
			next := *item
			next.Children = append(append([]*content.MenuItem{}, item.Children...), child)
			out[i] = &next
			added = true
			continue
		}
		if !added && len(item.Children) > 0 {
			if children, ok := addChildToTree(item.Children, parentID, child); ok {
				next := *item
				next.Children = children
				out[i] = &next
				added = true
				continue
			}
		}
		out[i] = item
	}
	if !added {
		return items, false
	}
	return out, true
}

func depthOf(items []*content.MenuItem, id string, depth int) int {
	for _, item := range items {
		if item.ID == id {
			return depth
		}
		if d := depthOf(item.Children, id, depth+1); d >= 0 {
			return d
		}
	}
	return -1
}
