package persist

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sectionserver/sectionserver/content"
	"github.com/sectionserver/sectionserver/pkg/debounce"
	"github.com/sectionserver/sectionserver/pkg/metrics"
	"github.com/sectionserver/sectionserver/pkg/store"
	"github.com/sectionserver/sectionserver/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// DefaultDelay quiet period before a change travels to the server
	DefaultDelay = 5 * time.Second
	// DefaultRemoteTimeout upper bound for a single remote save call
	DefaultRemoteTimeout = 10 * time.Second

	menuKey = "menu"

	saveStatusSuccess = "success"
	saveStatusError   = "error"
)

type (
	// Saver is the remote side of the manager. *client.Client satisfies it.
	Saver interface {
		UpsertPage(ctx context.Context, page *content.Page) (*responses.Saved, error)
		SaveMenu(ctx context.Context, menu *content.Menu) error
	}
	// Manager persists editor changes on two paths: every change is
	// snapshotted to local storage right away, while the remote save is
	// debounced per page so rapid edits collapse into one upsert carrying
	// the latest state. Pages created without an id get one assigned by
	// the server on their first save.
	Manager struct {
		l             *zap.Logger
		storage       store.Storage
		saver         Saver
		scheduler     *debounce.Scheduler
		delay         time.Duration
		remoteTimeout time.Duration
		onSaved       func(oldID string, saved *responses.Saved)
		onError       func(err error)
		mu            sync.Mutex
		pages         map[string]*content.Page
		drafts        map[string]string
		menu          *content.Menu
		closed        bool
	}
	Option func(*Manager)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, storage store.Storage, saver Saver, opts ...Option) *Manager {
	inst := &Manager{
		l:             l.Named("persist"),
		storage:       storage,
		saver:         saver,
		delay:         DefaultDelay,
		remoteTimeout: DefaultRemoteTimeout,
		pages:         map[string]*content.Page{},
		drafts:        map[string]string{},
	}

	for _, opt := range opts {
		opt(inst)
	}

	inst.scheduler = debounce.New(l, inst.delay)

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithDelay overrides the debounce quiet period.
func WithDelay(v time.Duration) Option {
	return func(o *Manager) {
		o.delay = v
	}
}

// WithRemoteTimeout overrides the per-save timeout.
func WithRemoteTimeout(v time.Duration) Option {
	return func(o *Manager) {
		o.remoteTimeout = v
	}
}

// WithOnSaved registers a callback for successful remote saves. When the
// server assigned an id to a new page, oldID carries the draft id the page
// was tracked under so the caller can adopt saved.ID.
func WithOnSaved(v func(oldID string, saved *responses.Saved)) Option {
	return func(o *Manager) {
		o.onSaved = v
	}
}

// WithOnError registers a callback for failed remote saves. The editor keeps
// working on local snapshots, the callback is informational.
func WithOnError(v func(err error)) Option {
	return func(o *Manager) {
		o.onError = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// SavePage takes the latest state of a page. The local snapshot is written
// before this returns, the remote save fires after the quiet period. Pages
// without an id are tracked under a draft id, minted once per slug and
// reused on every subsequent save, so repeated edits of an unsaved page
// share one pending timer and collapse into one upsert.
func (m *Manager) SavePage(page *content.Page) string {
	p := *page

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return p.ID
	}
	key := p.ID
	if key == "" {
		slug := p.NormalizedSlug()
		if existing, ok := m.drafts[slug]; ok {
			key = existing
		} else {
			key = "draft-" + uuid.New().String()
			m.drafts[slug] = key
		}
		// the id may already have been adopted for this slug
		if prev, ok := m.pages[key]; ok {
			p.ID = prev.ID
		}
	}
	m.pages[key] = &p
	m.mu.Unlock()

	m.snapshotPage(key, &p)
	m.scheduler.Schedule(key, func() {
		m.savePageRemote(key)
	})

	return key
}

// SaveMenu takes the latest navigation state, same two paths as SavePage.
func (m *Manager) SaveMenu(menu *content.Menu) {
	mc := *menu

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.menu = &mc
	m.mu.Unlock()

	m.snapshotMenu(&mc)
	m.scheduler.Schedule(menuKey, func() {
		m.saveMenuRemote()
	})
}

// Flush cancels all pending timers and pushes every dirty page and the menu
// to the server right away.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	keys := make([]string, 0, len(m.pages))
	for key := range m.pages {
		keys = append(keys, key)
	}
	menuDirty := m.menu != nil
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		if !m.scheduler.Pending(key) {
			continue
		}
		m.scheduler.Cancel(key)
		g.Go(func() error {
			return m.pushPage(gctx, key)
		})
	}
	if menuDirty && m.scheduler.Pending(menuKey) {
		m.scheduler.Cancel(menuKey)
		g.Go(func() error {
			return m.pushMenu(gctx)
		})
	}
	return g.Wait()
}

// Close flushes pending saves and stops the manager. Further Save calls are
// no-ops.
func (m *Manager) Close(ctx context.Context) error {
	err := m.Flush(ctx)
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.scheduler.Close()
	return err
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (m *Manager) snapshotPage(key string, page *content.Page) {
	data, err := json.Marshal(page)
	if err == nil {
		err = m.storage.Write(context.Background(), snapshotPageKey(key), data)
	}
	if err != nil {
		metrics.SnapshotFailedCounter.WithLabelValues().Inc()
		m.l.Warn("failed to write page snapshot", zap.String("key", key), zap.Error(err))
	}
}

func (m *Manager) snapshotMenu(menu *content.Menu) {
	data, err := json.Marshal(menu)
	if err == nil {
		err = m.storage.Write(context.Background(), snapshotMenuKey(), data)
	}
	if err != nil {
		metrics.SnapshotFailedCounter.WithLabelValues().Inc()
		m.l.Warn("failed to write menu snapshot", zap.Error(err))
	}
}

func (m *Manager) savePageRemote(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.remoteTimeout)
	defer cancel()
	if err := m.pushPage(ctx, key); err != nil {
		m.l.Warn("remote page save failed", zap.String("key", key), zap.Error(err))
		if m.onError != nil {
			m.onError(err)
		}
	}
}

func (m *Manager) saveMenuRemote() {
	ctx, cancel := context.WithTimeout(context.Background(), m.remoteTimeout)
	defer cancel()
	if err := m.pushMenu(ctx); err != nil {
		m.l.Warn("remote menu save failed", zap.Error(err))
		if m.onError != nil {
			m.onError(err)
		}
	}
}

func (m *Manager) pushPage(ctx context.Context, key string) error {
	m.mu.Lock()
	page, ok := m.pages[key]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	saved, err := m.saver.UpsertPage(ctx, page)
	if err != nil {
		metrics.RemoteSaveCounter.WithLabelValues(saveStatusError).Inc()
		return errors.Wrap(err, "failed to save page "+key)
	}
	metrics.RemoteSaveCounter.WithLabelValues(saveStatusSuccess).Inc()

	if saved.ID != "" && saved.ID != key {
		m.adoptID(key, saved.ID)
	}
	if m.onSaved != nil {
		m.onSaved(key, saved)
	}
	return nil
}

func (m *Manager) pushMenu(ctx context.Context) error {
	m.mu.Lock()
	menu := m.menu
	m.mu.Unlock()
	if menu == nil {
		return nil
	}

	if err := m.saver.SaveMenu(ctx, menu); err != nil {
		metrics.RemoteSaveCounter.WithLabelValues(saveStatusError).Inc()
		return errors.Wrap(err, "failed to save menu")
	}
	metrics.RemoteSaveCounter.WithLabelValues(saveStatusSuccess).Inc()
	return nil
}

// adoptID moves a page tracked under a draft id to its server-assigned id
// and migrates the local snapshot along with it.
func (m *Manager) adoptID(oldID, newID string) {
	m.mu.Lock()
	page, ok := m.pages[oldID]
	if ok {
		delete(m.pages, oldID)
		page.ID = newID
		m.pages[newID] = page
		// id-less saves for this slug now resolve to the adopted entry
		m.drafts[page.NormalizedSlug()] = newID
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	m.snapshotPage(newID, page)
	if err := m.storage.Delete(context.Background(), snapshotPageKey(oldID)); err != nil {
		m.l.Debug("failed to drop draft snapshot", zap.String("key", oldID), zap.Error(err))
	}
}

func snapshotPageKey(key string) string {
	return "snapshot-page-" + key + ".json"
}

func snapshotMenuKey() string {
	return "snapshot-menu.json"
}
