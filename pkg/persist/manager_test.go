package persist

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gocloud.dev/blob/memblob"

	"github.com/sectionserver/sectionserver/content"
	"github.com/sectionserver/sectionserver/pkg/store"
	"github.com/sectionserver/sectionserver/responses"
)

type fakeSaver struct {
	mu       sync.Mutex
	pages    []*content.Page
	menus    []*content.Menu
	assignID string
	fail     error
}

func (f *fakeSaver) UpsertPage(_ context.Context, page *content.Page) (*responses.Saved, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	p := *page
	f.pages = append(f.pages, &p)
	id := page.ID
	if f.assignID != "" {
		id = f.assignID
	}
	return &responses.Saved{Success: true, ID: id, Slug: page.Slug}, nil
}

func (f *fakeSaver) SaveMenu(_ context.Context, menu *content.Menu) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	m := *menu
	f.menus = append(f.menus, &m)
	return nil
}

func (f *fakeSaver) pageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pages)
}

func (f *fakeSaver) lastPage() *content.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pages) == 0 {
		return nil
	}
	return f.pages[len(f.pages)-1]
}

func newTestManager(t *testing.T, saver Saver, opts ...Option) (*Manager, store.Storage) {
	t.Helper()
	bucket := memblob.OpenBucket(nil)
	storage := store.NewBlobStorageFromBucket(bucket, "")
	t.Cleanup(func() { _ = storage.Close() })
	m := New(zaptest.NewLogger(t), storage, saver, opts...)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m, storage
}

func TestManagerDebouncesRapidEdits(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestManager(t, saver, WithDelay(50*time.Millisecond))

	page := &content.Page{ID: "p1", Slug: "home", Title: "v1", Status: content.StatusDraft}
	m.SavePage(page)
	page.Title = "v2"
	m.SavePage(page)
	page.Title = "v3"
	m.SavePage(page)

	require.Eventually(t, func() bool {
		return saver.pageCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "v3", saver.lastPage().Title)

	// quiet period passed, no further saves fire
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, saver.pageCount())
}

func TestManagerCoalescesUnsavedPageEdits(t *testing.T) {
	saver := &fakeSaver{assignID: "server-1"}
	m, _ := newTestManager(t, saver, WithDelay(50*time.Millisecond))

	k1 := m.SavePage(&content.Page{Slug: "fresh", Title: "v1", Status: content.StatusDraft})
	k2 := m.SavePage(&content.Page{Slug: "fresh", Title: "v2", Status: content.StatusDraft})
	k3 := m.SavePage(&content.Page{Slug: "fresh", Title: "v3", Status: content.StatusDraft})

	// one draft key per slug, so the three edits share one pending timer
	assert.Equal(t, k1, k2)
	assert.Equal(t, k1, k3)

	require.Eventually(t, func() bool {
		return saver.pageCount() == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "v3", saver.lastPage().Title)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, saver.pageCount())
}

func TestManagerSnapshotsImmediately(t *testing.T) {
	saver := &fakeSaver{}
	m, storage := newTestManager(t, saver, WithDelay(time.Hour))

	m.SavePage(&content.Page{ID: "p1", Slug: "home", Title: "Home", Status: content.StatusDraft})

	data, err := storage.Read(context.Background(), "snapshot-page-p1.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Home"`)

	// remote save still pending
	assert.Equal(t, 0, saver.pageCount())
}

func TestManagerAdoptsServerAssignedID(t *testing.T) {
	saver := &fakeSaver{assignID: "server-1"}

	var mu sync.Mutex
	var gotOldID string
	var gotSaved *responses.Saved
	m, storage := newTestManager(t, saver,
		WithDelay(20*time.Millisecond),
		WithOnSaved(func(oldID string, saved *responses.Saved) {
			mu.Lock()
			defer mu.Unlock()
			gotOldID = oldID
			gotSaved = saved
		}),
	)

	draftKey := m.SavePage(&content.Page{Slug: "fresh", Title: "Fresh", Status: content.StatusDraft})
	require.True(t, strings.HasPrefix(draftKey, "draft-"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return gotSaved != nil
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, draftKey, gotOldID)
	assert.Equal(t, "server-1", gotSaved.ID)
	mu.Unlock()

	// the snapshot moved from the draft key to the server id
	_, err := storage.Read(context.Background(), "snapshot-page-server-1.json")
	require.NoError(t, err)
	_, err = storage.Read(context.Background(), "snapshot-page-"+draftKey+".json")
	require.Error(t, err)

	// further id-less edits of the same slug carry the adopted id
	key := m.SavePage(&content.Page{Slug: "fresh", Title: "Fresher", Status: content.StatusDraft})
	assert.Equal(t, "server-1", key)
	require.NoError(t, m.Flush(context.Background()))
	assert.Equal(t, "server-1", saver.lastPage().ID)
}

func TestManagerReportsRemoteFailures(t *testing.T) {
	saver := &fakeSaver{fail: errors.New("server down")}

	var mu sync.Mutex
	var gotErr error
	m, storage := newTestManager(t, saver,
		WithDelay(20*time.Millisecond),
		WithOnError(func(err error) {
			mu.Lock()
			defer mu.Unlock()
			gotErr = err
		}),
	)

	m.SavePage(&content.Page{ID: "p1", Slug: "home", Title: "Home", Status: content.StatusDraft})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return gotErr != nil
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Contains(t, gotErr.Error(), "server down")
	mu.Unlock()

	// local snapshot survived the remote failure
	_, err := storage.Read(context.Background(), "snapshot-page-p1.json")
	require.NoError(t, err)
}

func TestManagerFlush(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestManager(t, saver, WithDelay(time.Hour))

	m.SavePage(&content.Page{ID: "p1", Slug: "home", Title: "Home", Status: content.StatusDraft})
	m.SaveMenu(&content.Menu{Layout: "horizontal"})
	require.Equal(t, 0, saver.pageCount())

	require.NoError(t, m.Flush(context.Background()))
	assert.Equal(t, 1, saver.pageCount())

	saver.mu.Lock()
	assert.Len(t, saver.menus, 1)
	saver.mu.Unlock()

	// nothing pending anymore, a second flush is a no-op
	require.NoError(t, m.Flush(context.Background()))
	assert.Equal(t, 1, saver.pageCount())
}

func TestManagerClose(t *testing.T) {
	saver := &fakeSaver{}
	m, _ := newTestManager(t, saver, WithDelay(time.Hour))

	m.SavePage(&content.Page{ID: "p1", Slug: "home", Title: "Home", Status: content.StatusDraft})
	require.NoError(t, m.Close(context.Background()))
	assert.Equal(t, 1, saver.pageCount())

	m.SavePage(&content.Page{ID: "p2", Slug: "other", Title: "Other", Status: content.StatusDraft})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, saver.pageCount())
}
