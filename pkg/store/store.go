package store

import (
	"context"
	"os"
	"sync"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/content"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	pageKeyPrefix = "page-"
	pageKeySuffix = ".json"
	menuKey       = "menu.json"
)

var (
	// ErrPageNotFound no page stored under the given id or slug
	ErrPageNotFound = errors.New("page not found")
	// ErrSlugTaken another page already owns the slug
	ErrSlugTaken = errors.New("slug already in use")
)

type (
	// Store is the server side document store for page aggregates and the
	// navigation configuration. Pages are whole documents keyed by id,
	// addressed by slug for public rendering. Slugs are unique per site.
	Store struct {
		l       *zap.Logger
		storage Storage
		mu      sync.RWMutex
	}
	Option func(*Store)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, storage Storage, opts ...Option) *Store {
	inst := &Store{
		l:       l.Named("store"),
		storage: storage,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// UpsertPage stores the whole aggregate, last writer wins. A page without an
// id receives a server-assigned one, which is returned to the caller for
// reconciliation. The slug must not belong to another page.
func (s *Store) UpsertPage(ctx context.Context, page *content.Page) (*content.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page == nil {
		return nil, errors.New("page must not be nil")
	}

	if existing, err := s.findBySlug(ctx, page.NormalizedSlug()); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != page.ID {
		return nil, errors.Wrap(ErrSlugTaken, page.NormalizedSlug())
	}

	out := *page
	if out.ID == "" {
		out.ID = uuid.New().String()
		s.l.Debug("assigned page id", zap.String("id", out.ID), zap.String("slug", out.Slug))
	}

	data, err := json.Marshal(&out)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize page")
	}
	if err := s.storage.Write(ctx, pageKey(out.ID), data); err != nil {
		return nil, errors.Wrap(err, "failed to store page")
	}
	return &out, nil
}

// GetPage reads a page by id.
func (s *Store) GetPage(ctx context.Context, id string) (*content.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readPage(ctx, pageKey(id))
}

// GetPageBySlug resolves a page by its addressing slug.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (*content.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if slug == "" {
		slug = content.HomeSlug
	}
	page, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, errors.Wrap(ErrPageNotFound, slug)
	}
	return page, nil
}

// ListPages returns all stored pages. Unreadable documents are skipped, the
// collected errors are returned alongside the readable pages.
func (s *Store) ListPages(ctx context.Context) ([]*content.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listPages(ctx)
}

// DeletePage removes a page by id, idempotently.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(ctx, pageKey(id))
}

// SaveMenu upserts the whole navigation configuration as a unit. There are
// no partial menu item updates at this layer.
func (s *Store) SaveMenu(ctx context.Context, menu *content.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if menu == nil {
		return errors.New("menu must not be nil")
	}
	data, err := json.Marshal(menu)
	if err != nil {
		return errors.Wrap(err, "failed to serialize menu")
	}
	return errors.Wrap(s.storage.Write(ctx, menuKey, data), "failed to store menu")
}

// GetMenu reads the navigation configuration. A missing menu yields an empty
// one.
func (s *Store) GetMenu(ctx context.Context) (*content.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.storage.Read(ctx, menuKey)
	if errors.Is(err, os.ErrNotExist) {
		return &content.Menu{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read menu")
	}
	menu := &content.Menu{}
	if err := json.Unmarshal(data, menu); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize menu")
	}
	return menu, nil
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	return s.storage.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Store) listPages(ctx context.Context) ([]*content.Page, error) {
	keys, err := s.storage.List(ctx, pageKeyPrefix)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pages")
	}

	var (
		pages   []*content.Page
		readErr error
	)
	for _, key := range keys {
		page, err := s.readPage(ctx, key)
		if err != nil {
			s.l.Warn("skipping unreadable page document", zap.String("key", key), zap.Error(err))
			readErr = multierr.Append(readErr, err)
			continue
		}
		pages = append(pages, page)
	}
	return pages, readErr
}

func (s *Store) findBySlug(ctx context.Context, slug string) (*content.Page, error) {
	pages, err := s.listPages(ctx)
	if err != nil && pages == nil {
		return nil, err
	}
	for _, page := range pages {
		if page.NormalizedSlug() == slug {
			return page, nil
		}
	}
	return nil, nil
}

func (s *Store) readPage(ctx context.Context, key string) (*content.Page, error) {
	data, err := s.storage.Read(ctx, key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(ErrPageNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read page")
	}
	page := &content.Page{}
	if err := json.Unmarshal(data, page); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize page")
	}
	return page, nil
}

func pageKey(id string) string {
	return pageKeyPrefix + id + pageKeySuffix
}
