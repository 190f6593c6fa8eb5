package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	httputils "github.com/foomo/keel/utils/net/http"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sectionserver/sectionserver/pkg/metrics"
	"github.com/sectionserver/sectionserver/pkg/store"
	"github.com/sectionserver/sectionserver/requests"
	"github.com/sectionserver/sectionserver/responses"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	HTTP struct {
		l        *zap.Logger
		path     string
		store    *store.Store
		hub      *Hub
		validate *validator.Validate
	}
	HTTPOption func(*HTTP)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// NewHTTP returns a shiny new web server
func NewHTTP(l *zap.Logger, s *store.Store, opts ...HTTPOption) http.Handler {
	inst := &HTTP{
		l:        l.Named("http"),
		path:     "/sectionserver",
		store:    s,
		validate: validator.New(),
	}

	for _, opt := range opts {
		opt(inst)
	}

	if inst.hub == nil {
		inst.hub = NewHub(inst.l)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithBasePath(v string) HTTPOption {
	return func(o *HTTP) {
		o.path = v
	}
}

func WithHub(v *Hub) HTTPOption {
	return func(o *HTTP) {
		o.hub = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := Route(strings.TrimPrefix(r.URL.Path, h.path+"/"))

	if route == RoutePreview {
		h.hub.ServeHTTP(w, r)
		return
	}

	if r.Method != http.MethodPost {
		httputils.ServerError(h.l, w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	if r.Body == nil {
		httputils.BadRequestServerError(h.l, w, r, errors.New("empty request body"))
		return
	}

	jsonBytes, err := io.ReadAll(r.Body)
	if err != nil {
		httputils.BadRequestServerError(h.l, w, r, errors.Wrap(err, "failed to read incoming request"))
		return
	}

	reply, errReply := h.handleRequest(r, route, jsonBytes)
	if errReply != nil {
		http.Error(w, errReply.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(reply)
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (h *HTTP) handleRequest(r *http.Request, route Route, jsonBytes []byte) ([]byte, error) {
	start := time.Now()

	reply, err := h.executeRequest(r, route, jsonBytes)
	result := "success"
	if err != nil {
		result = "error"
	}

	metrics.ServiceRequestCounter.WithLabelValues(string(route), result).Inc()
	metrics.ServiceRequestDuration.WithLabelValues(string(route), result).Observe(time.Since(start).Seconds())

	return reply, err
}

func (h *HTTP) executeRequest(r *http.Request, route Route, jsonBytes []byte) (replyBytes []byte, err error) {
	var (
		reply             interface{}
		apiErr            error
		jsonErr           error
		processIfJSONIsOk = func(err error, processingFunc func()) {
			if err != nil {
				jsonErr = err
				return
			}
			processingFunc()
		}
	)

	ctx := r.Context()

	// handle and process
	switch route {
	case RouteUpsertPage:
		upsertRequest := &requests.PageUpsert{}
		processIfJSONIsOk(h.decode(jsonBytes, upsertRequest), func() {
			page, upsertErr := h.store.UpsertPage(ctx, upsertRequest.ToPage())
			if upsertErr != nil {
				reply = &responses.Saved{Success: false, ErrorMessage: upsertErr.Error()}
				return
			}
			h.hub.Broadcast(Event{Type: EventPageSaved, ID: page.ID, Slug: page.NormalizedSlug()})
			reply = &responses.Saved{Success: true, ID: page.ID, Slug: page.Slug}
		})
	case RouteGetPage:
		pageRequest := &requests.Page{}
		processIfJSONIsOk(h.decode(jsonBytes, pageRequest), func() {
			reply, apiErr = h.store.GetPage(ctx, pageRequest.ID)
		})
	case RouteGetPageBySlug:
		slugRequest := &requests.PageBySlug{}
		processIfJSONIsOk(h.decode(jsonBytes, slugRequest), func() {
			reply, apiErr = h.store.GetPageBySlug(ctx, slugRequest.Slug)
		})
	case RouteListPages:
		reply, apiErr = h.store.ListPages(ctx)
	case RouteDeletePage:
		pageRequest := &requests.Page{}
		processIfJSONIsOk(h.decode(jsonBytes, pageRequest), func() {
			apiErr = h.store.DeletePage(ctx, pageRequest.ID)
			reply = &responses.Saved{Success: apiErr == nil, ID: pageRequest.ID}
		})
	case RouteSaveMenu:
		menuRequest := &requests.MenuSave{}
		processIfJSONIsOk(h.decode(jsonBytes, menuRequest), func() {
			apiErr = h.store.SaveMenu(ctx, menuRequest.ToMenu())
			if apiErr == nil {
				h.hub.Broadcast(Event{Type: EventMenuSaved})
			}
			reply = &responses.Saved{Success: apiErr == nil}
		})
	case RouteGetMenu:
		reply, apiErr = h.store.GetMenu(ctx)
	default:
		reply = responses.NewError(1, "unknown route: "+string(route))
	}

	// error handling
	if jsonErr != nil {
		h.l.Error("could not read incoming json", zap.Error(jsonErr))
		reply = responses.NewError(2, "could not read incoming json "+jsonErr.Error())
	} else if apiErr != nil {
		h.l.Error("an API error occurred", zap.Error(apiErr))
		reply = responses.NewError(3, "internal error "+apiErr.Error())
	}

	return h.encodeReply(reply)
}

// decode unmarshals and validates an incoming request
func (h *HTTP) decode(jsonBytes []byte, request interface{}) error {
	if err := json.Unmarshal(jsonBytes, request); err != nil {
		return err
	}
	if err := h.validate.Struct(request); err != nil {
		return errors.Wrap(err, "invalid request")
	}
	return nil
}

// encodeReply takes an interface and encodes it as JSON
// it returns the resulting JSON and a marshalling error
func (h *HTTP) encodeReply(reply interface{}) (bytes []byte, err error) {
	bytes, err = json.Marshal(map[string]interface{}{
		"reply": reply,
	})
	if err != nil {
		h.l.Error("could not encode reply", zap.Error(err))
	}
	return
}
