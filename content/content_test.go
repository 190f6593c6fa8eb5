package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapBroken(t *testing.T) {
	m := ParseMap(`{"title": "Hello"`)
	assert.Empty(t, m)
	assert.NotNil(t, m)
}

func TestParseMapRoundTrip(t *testing.T) {
	m := Map{"title": "Hello", "visible": true}
	out := ParseMap(m.Serialize())
	assert.Equal(t, "Hello", out["title"])
	assert.Equal(t, true, out["visible"])
}

func TestMapTruthy(t *testing.T) {
	m := Map{
		"set":   "yes",
		"empty": "",
		"on":    true,
		"off":   false,
		"zero":  float64(0),
		"one":   float64(1),
		"null":  nil,
	}
	assert.True(t, m.Truthy("set"))
	assert.False(t, m.Truthy("empty"))
	assert.True(t, m.Truthy("on"))
	assert.False(t, m.Truthy("off"))
	assert.False(t, m.Truthy("zero"))
	assert.True(t, m.Truthy("one"))
	assert.False(t, m.Truthy("null"))
	assert.False(t, m.Truthy("missing"))
}

func TestEffectiveTag(t *testing.T) {
	assert.Equal(t, "div", (&StructureNode{}).EffectiveTag())
	assert.Equal(t, "h1", (&StructureNode{Tag: "h1"}).EffectiveTag())
}

func TestTagDenied(t *testing.T) {
	assert.True(t, TagDenied("script"))
	assert.True(t, TagDenied("iframe"))
	assert.False(t, TagDenied("div"))
	assert.False(t, TagDenied("img"))
}

func TestPageSectionsRoundTrip(t *testing.T) {
	p := &Page{Slug: "about", Title: "About", Status: StatusDraft}
	sections := []*Section{
		{ID: "a", Type: "hero", Title: "Hero", Content: Map{"title": "Hi"}.Serialize()},
		{ID: "b", Type: TypeDynamic, Title: "Custom", TemplateData: &TemplateData{
			Structure: &StructureNode{Tag: "section"},
		}},
	}
	require.NoError(t, p.SetSections(sections))

	out := p.Sections()
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "hero", out[0].Type)
	assert.Equal(t, "Hi", out[0].ContentMap()["title"])
	assert.Equal(t, TypeDynamic, out[1].Type)
	require.NotNil(t, out[1].TemplateData)
	assert.Equal(t, "section", out[1].TemplateData.Structure.Tag)
}

func TestPageSectionsBroken(t *testing.T) {
	p := &Page{Content: "[{"}
	assert.Nil(t, p.Sections())
}

func TestNormalizedSlug(t *testing.T) {
	assert.Equal(t, HomeSlug, (&Page{}).NormalizedSlug())
	assert.Equal(t, "about", (&Page{Slug: "about"}).NormalizedSlug())
}
