package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sectionserver/sectionserver/content"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	storage, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	return New(zaptest.NewLogger(t), storage)
}

func TestUpsertPageAssignsID(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	page, err := s.UpsertPage(ctx, &content.Page{Slug: "about", Title: "About", Status: content.StatusDraft})
	require.NoError(t, err)
	assert.NotEmpty(t, page.ID)

	got, err := s.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "About", got.Title)
}

func TestUpsertPageKeepsID(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	first, err := s.UpsertPage(ctx, &content.Page{Slug: "about", Title: "About"})
	require.NoError(t, err)

	first.Title = "Updated"
	second, err := s.UpsertPage(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	pages, err := s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Updated", pages[0].Title)
}

func TestUpsertPageSlugTaken(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	_, err := s.UpsertPage(ctx, &content.Page{Slug: "about", Title: "About"})
	require.NoError(t, err)

	_, err = s.UpsertPage(ctx, &content.Page{Slug: "about", Title: "Other"})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestGetPageBySlug(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	_, err := s.UpsertPage(ctx, &content.Page{Slug: "about", Title: "About"})
	require.NoError(t, err)
	// the home page has an empty slug
	_, err = s.UpsertPage(ctx, &content.Page{Slug: "", Title: "Home"})
	require.NoError(t, err)

	got, err := s.GetPageBySlug(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "About", got.Title)

	home, err := s.GetPageBySlug(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Home", home.Title)

	_, err = s.GetPageBySlug(ctx, "missing")
	require.ErrorIs(t, err, ErrPageNotFound)
}

func TestDeletePage(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	page, err := s.UpsertPage(ctx, &content.Page{Slug: "about"})
	require.NoError(t, err)

	require.NoError(t, s.DeletePage(ctx, page.ID))
	_, err = s.GetPage(ctx, page.ID)
	require.ErrorIs(t, err, ErrPageNotFound)

	// idempotent
	require.NoError(t, s.DeletePage(ctx, page.ID))
}

func TestPageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	page := &content.Page{Slug: "store", Title: "Store", Status: content.StatusPublished, ThemeID: "default"}
	sections := []*content.Section{
		{ID: "a", Type: "hero", Title: "Hero", Content: content.Map{"title": "Hi"}.Serialize()},
		{ID: "b", Type: content.TypeDynamic, Title: "Custom", TemplateData: &content.TemplateData{
			Structure: &content.StructureNode{Tag: "section", Text: "{{body}}"},
			Schema:    []content.FieldSchema{{Key: "body", Label: "Body", Type: content.FieldTypeText}},
		}},
	}
	require.NoError(t, page.SetSections(sections))

	saved, err := s.UpsertPage(ctx, page)
	require.NoError(t, err)

	got, err := s.GetPage(ctx, saved.ID)
	require.NoError(t, err)

	out := got.Sections()
	require.Len(t, out, 2)
	for i := range sections {
		assert.Equal(t, sections[i].ID, out[i].ID)
		assert.Equal(t, sections[i].Type, out[i].Type)
		assert.Equal(t, sections[i].Content, out[i].Content)
	}
	require.NotNil(t, out[1].TemplateData)
	assert.Equal(t, "{{body}}", out[1].TemplateData.Structure.Text)
}

func TestMenuRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	empty, err := s.GetMenu(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.MenuItems)

	menu := &content.Menu{
		Layout:   "horizontal",
		Settings: map[string]bool{"sticky": true},
		MenuItems: []*content.MenuItem{
			{ID: "home", Label: "Home", Link: "/"},
			{ID: "shop", Label: "Shop", Link: "/shop", Children: []*content.MenuItem{
				{ID: "shirts", Label: "Shirts", Link: "/shop/shirts"},
			}},
		},
	}
	require.NoError(t, s.SaveMenu(ctx, menu))

	got, err := s.GetMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, menu, got)
}
