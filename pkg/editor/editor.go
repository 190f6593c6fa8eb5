package editor

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/content"
	"github.com/sectionserver/sectionserver/pkg/debounce"
	"github.com/sectionserver/sectionserver/pkg/render"
)

// OnChange receives the complete replacement content map after every field
// write. Callers never get partial patches.
type OnChange func(content.Map)

const defaultTextareaRows = 3

type (
	// Editor renders one input element per field schema entry and applies
	// field writes back onto a content map. High frequency inputs (color
	// pickers) are debounced through a keyed scheduler, one pending timer
	// per field.
	Editor struct {
		l          *zap.Logger
		colorDelay time.Duration
		debouncer  *debounce.Scheduler
	}
	Option func(*Editor)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, opts ...Option) *Editor {
	inst := &Editor{
		l:          l.Named("editor"),
		colorDelay: 300 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(inst)
	}

	inst.debouncer = debounce.New(inst.l, inst.colorDelay)

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithColorDelay(v time.Duration) Option {
	return func(o *Editor) {
		o.colorDelay = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// RenderFields produces the editing surface for a schema, one element per
// entry in schema order. Entries with an unsupported type are skipped,
// rendering of the remaining entries continues.
func (e *Editor) RenderFields(schema []content.FieldSchema, m content.Map) *render.Element {
	form := render.NewElement("form").WithAttribute("className", "section-editor")
	for _, field := range schema {
		form.Append(e.renderField(field, m))
	}
	return form
}

// SetValue writes one field value and hands the full replacement map to
// onChange.
func (e *Editor) SetValue(m content.Map, key string, value interface{}, onChange OnChange) {
	next := m.Copy()
	next[key] = value
	onChange(next)
}

// SetColor schedules a debounced write for a color field. Rapid updates for
// the same key collapse into one onChange carrying the last value.
func (e *Editor) SetColor(m content.Map, key string, value string, onChange OnChange) {
	e.debouncer.Schedule(key, func() {
		e.SetValue(m, key, value, onChange)
	})
}

// Toggle flips a boolean field.
func (e *Editor) Toggle(m content.Map, key string, onChange OnChange) {
	e.SetValue(m, key, !m.Truthy(key), onChange)
}

// Close cancels pending debounced writes. Call it when the owning editor
// view is torn down, so no write fires against stale state.
func (e *Editor) Close() {
	e.debouncer.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (e *Editor) renderField(field content.FieldSchema, m content.Map) *render.Element {
	switch field.Type {
	case content.FieldTypeHeader:
		return render.NewElement("h4").
			WithAttribute("className", "editor-group").
			WithText(field.Label)
	case content.FieldTypeText, content.FieldTypeString:
		return e.wrapField(field,
			render.NewElement("input").
				WithAttribute("type", "text").
				WithAttribute("name", field.Key).
				WithAttribute("placeholder", field.Placeholder).
				WithAttribute("value", valueString(m, field.Key)),
		)
	case content.FieldTypeTextarea:
		rows := field.Rows
		if rows == 0 {
			rows = defaultTextareaRows
		}
		return e.wrapField(field,
			render.NewElement("textarea").
				WithAttribute("name", field.Key).
				WithAttribute("rows", rows).
				WithText(valueString(m, field.Key)),
		)
	case content.FieldTypeColor:
		return e.wrapField(field,
			render.NewElement("input").
				WithAttribute("type", "color").
				WithAttribute("name", field.Key).
				WithAttribute("data-debounced", "true").
				WithAttribute("value", valueString(m, field.Key)),
		)
	case content.FieldTypeBoolean:
		return e.wrapField(field,
			render.NewElement("button").
				WithAttribute("type", "button").
				WithAttribute("name", field.Key).
				WithAttribute("aria-pressed", m.Truthy(field.Key)),
		)
	case content.FieldTypeImage:
		group := render.NewElement("div").WithAttribute("className", "editor-image")
		group.Append(
			render.NewElement("input").
				WithAttribute("type", "text").
				WithAttribute("name", field.Key).
				WithAttribute("placeholder", field.Placeholder).
				WithAttribute("value", valueString(m, field.Key)),
		)
		if url := valueString(m, field.Key); url != "" {
			group.Append(
				render.NewElement("img").
					WithAttribute("className", "editor-image-preview").
					WithAttribute("src", url).
					WithAttribute("alt", field.Label),
			)
		}
		return e.wrapField(field, group)
	case content.FieldTypeSelect:
		if len(field.Options) == 0 {
			e.l.Debug("select field without options", zap.String("key", field.Key))
			return nil
		}
		selected := valueString(m, field.Key)
		if selected == "" {
			selected = field.Options[0].Value
		}
		sel := render.NewElement("select").WithAttribute("name", field.Key)
		for _, option := range field.Options {
			o := render.NewElement("option").
				WithAttribute("value", option.Value).
				WithText(option.Label)
			if option.Value == selected {
				o.WithAttribute("selected", true)
			}
			sel.Append(o)
		}
		return e.wrapField(field, sel)
	default:
		e.l.Debug("skipping unsupported field type",
			zap.String("key", field.Key),
			zap.String("type", string(field.Type)),
		)
		return nil
	}
}

func (e *Editor) wrapField(field content.FieldSchema, input *render.Element) *render.Element {
	return render.NewElement("div").
		WithAttribute("className", "editor-field").
		Append(
			render.NewElement("label").
				WithAttribute("for", field.Key).
				WithText(field.Label),
			input,
		)
}

func valueString(m content.Map, key string) string {
	value, ok := m[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
