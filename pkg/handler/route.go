package handler

// Route type
type Route string

const (
	// RouteUpsertPage store a whole page aggregate
	RouteUpsertPage Route = "upsertPage"
	// RouteGetPage get a page by id, for editing
	RouteGetPage Route = "getPage"
	// RouteGetPageBySlug resolve a page by slug, for public rendering
	RouteGetPageBySlug Route = "getPageBySlug"
	// RouteListPages list all pages
	RouteListPages Route = "listPages"
	// RouteDeletePage delete a page by id
	RouteDeletePage Route = "deletePage"
	// RouteSaveMenu upsert the whole navigation configuration
	RouteSaveMenu Route = "saveMenu"
	// RouteGetMenu get the navigation configuration
	RouteGetMenu Route = "getMenu"
	// RoutePreview websocket endpoint notifying open views about saves
	RoutePreview Route = "preview"
)
