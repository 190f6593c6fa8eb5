package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sectionserver/sectionserver/content"
	"github.com/sectionserver/sectionserver/pkg/handler"
	"github.com/sectionserver/sectionserver/pkg/store"
	"github.com/sectionserver/sectionserver/responses"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	storage, err := store.NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	l := zaptest.NewLogger(t)
	server := httptest.NewServer(handler.NewHTTP(l, store.New(l, storage)))
	t.Cleanup(server.Close)
	return New(l, server.URL+"/sectionserver")
}

func TestClientPageLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	saved, err := c.UpsertPage(ctx, &content.Page{
		Slug:   "about",
		Title:  "About",
		Status: content.StatusDraft,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	page, err := c.GetPage(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "About", page.Title)

	bySlug, err := c.GetPageBySlug(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, bySlug.ID)

	pages, err := c.ListPages(ctx)
	require.NoError(t, err)
	assert.Len(t, pages, 1)

	require.NoError(t, c.DeletePage(ctx, saved.ID))
	pages, err = c.ListPages(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestClientGetPageNotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.GetPageBySlug(ctx, "missing")
	require.Error(t, err)
	serviceErr := &responses.Error{}
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, 3, serviceErr.Code)
}

func TestClientMenuRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	menu := &content.Menu{
		Layout: "horizontal",
		MenuItems: []*content.MenuItem{
			{ID: "home", Label: "Home", Link: "/"},
		},
	}
	require.NoError(t, c.SaveMenu(ctx, menu))

	got, err := c.GetMenu(ctx)
	require.NoError(t, err)
	assert.Equal(t, menu, got)
}

func TestClientUpsertRejected(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.UpsertPage(ctx, &content.Page{Slug: "x", Title: "X", Status: content.StatusDraft})
	require.NoError(t, err)

	// second page with the same slug is refused by the store
	_, err = c.UpsertPage(ctx, &content.Page{Slug: "x", Title: "Y", Status: content.StatusDraft})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slug already in use")
}
