package client

import (
	"bytes"
	"context"
	"io"
	"net/http"

	keelhttp "github.com/foomo/keel/net/http"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/content"
	"github.com/sectionserver/sectionserver/pkg/handler"
	"github.com/sectionserver/sectionserver/requests"
	"github.com/sectionserver/sectionserver/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Client talks to a sectionserver over its HTTP endpoint. It is the
	// narrow interface the editor's persistence manager saves through.
	Client struct {
		l          *zap.Logger
		server     string
		httpClient *http.Client
	}
	Option func(*Client)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New creates a client for the given endpoint, e.g.
// "http://localhost:8080/sectionserver".
func New(l *zap.Logger, server string, opts ...Option) *Client {
	inst := &Client{
		l:          l.Named("client"),
		server:     server,
		httpClient: keelhttp.NewHTTPClient(keelhttp.HTTPClientWithTelemetry()),
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// UpsertPage stores the whole page aggregate and returns the server's save
// response, including a server-assigned id for new pages.
func (c *Client) UpsertPage(ctx context.Context, page *content.Page) (*responses.Saved, error) {
	request := &requests.PageUpsert{
		ID:      page.ID,
		Slug:    page.Slug,
		Title:   page.Title,
		Content: page.Content,
		Status:  string(page.Status),
		ThemeID: page.ThemeID,
	}
	saved := &responses.Saved{}
	if err := c.call(ctx, handler.RouteUpsertPage, request, saved); err != nil {
		return nil, err
	}
	if !saved.Success {
		return nil, errors.New("upsert rejected: " + saved.ErrorMessage)
	}
	return saved, nil
}

// GetPage fetches a page by id.
func (c *Client) GetPage(ctx context.Context, id string) (*content.Page, error) {
	page := &content.Page{}
	if err := c.call(ctx, handler.RouteGetPage, &requests.Page{ID: id}, page); err != nil {
		return nil, err
	}
	return page, nil
}

// GetPageBySlug resolves a page by its public slug.
func (c *Client) GetPageBySlug(ctx context.Context, slug string) (*content.Page, error) {
	page := &content.Page{}
	if err := c.call(ctx, handler.RouteGetPageBySlug, &requests.PageBySlug{Slug: slug}, page); err != nil {
		return nil, err
	}
	return page, nil
}

// ListPages fetches all pages.
func (c *Client) ListPages(ctx context.Context) ([]*content.Page, error) {
	var pages []*content.Page
	if err := c.call(ctx, handler.RouteListPages, struct{}{}, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// DeletePage removes a page by id.
func (c *Client) DeletePage(ctx context.Context, id string) error {
	return c.call(ctx, handler.RouteDeletePage, &requests.Page{ID: id}, &responses.Saved{})
}

// SaveMenu upserts the whole navigation configuration.
func (c *Client) SaveMenu(ctx context.Context, menu *content.Menu) error {
	request := &requests.MenuSave{
		Layout:    menu.Layout,
		Settings:  menu.Settings,
		MenuItems: menu.MenuItems,
	}
	saved := &responses.Saved{}
	if err := c.call(ctx, handler.RouteSaveMenu, request, saved); err != nil {
		return err
	}
	if !saved.Success {
		return errors.New("menu save rejected: " + saved.ErrorMessage)
	}
	return nil
}

// GetMenu fetches the navigation configuration.
func (c *Client) GetMenu(ctx context.Context) (*content.Menu, error) {
	menu := &content.Menu{}
	if err := c.call(ctx, handler.RouteGetMenu, struct{}{}, menu); err != nil {
		return nil, err
	}
	return menu, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) call(ctx context.Context, route handler.Route, request interface{}, response interface{}) error {
	body, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/"+string(route), bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call sectionserver")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("bad response from sectionserver: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	envelope := struct {
		Reply jsoniter.RawMessage `json:"reply"`
	}{}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return errors.Wrap(err, "failed to decode response envelope")
	}

	// the reply may be a service error instead of the expected payload
	serviceErr := &responses.Error{}
	if err := json.Unmarshal(envelope.Reply, serviceErr); err == nil && serviceErr.Code != 0 {
		c.l.Debug("service error reply", zap.Int("code", serviceErr.Code), zap.String("message", serviceErr.Message))
		return serviceErr
	}

	return errors.Wrap(json.Unmarshal(envelope.Reply, response), "failed to decode reply")
}
