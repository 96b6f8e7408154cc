package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/nihongo-sekai/internal/listing"
	"github.com/iliyamo/nihongo-sekai/internal/metrics"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/service"
)

const (
	liveWriteTimeout = 5 * time.Second
	liveReadLimit    = 4 << 10
	liveSendBuffer   = 16
)

// LiveSearchHandler serves GET /v1/search/live, a websocket that
// re-runs a listing query whenever the client changes its inputs.
//
// Client messages:
//
//    {"type":"search","value":"kana"}               debounced
//    {"type":"filters","value":{"level":"beginner"}} immediate
//    {"type":"sort","value":"price-asc"}            immediate
//    {"type":"page","value":2}                      immediate
//    {"type":"reset"}                                immediate
//
// Each executed query is pushed back in the catalog fetch shape with
// "type":"results".  Only the newest query's results are sent.
type LiveSearchHandler struct {
	Catalog  *service.CatalogService
	Debounce time.Duration
	Log      *slog.Logger

	upgrader websocket.Upgrader
}

func NewLiveSearchHandler(s *service.CatalogService, debounce time.Duration, lg *slog.Logger) *LiveSearchHandler {
	if lg == nil {
		lg = slog.Default()
	}
	return &LiveSearchHandler{
		Catalog:  s,
		Debounce: debounce,
		Log:      lg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

type liveMessage struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Serve upgrades the request.  ?kind= picks the listing and any other
// query parameters seed the initial state.
func (h *LiveSearchHandler) Serve(c echo.Context) error {
	kind, err := model.ParseKind(c.QueryParam("kind"))
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	state := c.QueryParams()
	state.Del("kind")

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already answered the request.
		return nil
	}
	metrics.LiveSearchConnections.Inc()
	defer metrics.LiveSearchConnections.Dec()

	ctx, cancel := context.WithCancel(c.Request().Context())
	s := &liveSession{
		h:     h,
		kind:  kind,
		state: state,
		out:   make(chan any, liveSendBuffer),
		deb:   listing.NewDebouncer(h.Debounce),
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(ctx, ws)
	}()

	s.run(ctx)
	s.readLoop(ctx, ws)

	s.deb.Cancel()
	cancel()
	<-done
	ws.Close()
	return nil
}

// liveSession is the per-connection state.  Only writeLoop writes to
// the socket.
type liveSession struct {
	h    *LiveSearchHandler
	kind model.Kind
	deb  *listing.Debouncer
	out  chan any
	seq  atomic.Uint64

	mu    sync.Mutex
	state url.Values
}

func (s *liveSession) writeLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		case msg := <-s.out:
			_ = ws.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := ws.WriteJSON(msg); err != nil {
				s.h.Log.DebugContext(ctx, "live search write failed", slog.Any("error", err))
				return
			}
		}
	}
}

func (s *liveSession) readLoop(ctx context.Context, ws *websocket.Conn) {
	ws.SetReadLimit(liveReadLimit)
	for {
		var msg liveMessage
		if err := ws.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.h.Log.DebugContext(ctx, "live search read failed", slog.Any("error", err))
			}
			return
		}
		if err := s.apply(msg); err != nil {
			s.send(ctx, echo.Map{"type": "error", "success": false, "message": err.Error()})
			continue
		}
		if msg.Type == "search" {
			s.deb.Do(func() { s.run(ctx) })
		} else {
			s.deb.Cancel()
			s.run(ctx)
		}
	}
}

var errUnknownMessage = errors.New("unknown message type")

// apply folds a client message into the query state.  Any change other
// than a page switch goes back to page 1.
func (s *liveSession) apply(msg liveMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case "search", "sort":
		var v string
		if err := json.Unmarshal(msg.Value, &v); err != nil {
			return errors.New(msg.Type + " expects a string value")
		}
		s.state.Set(msg.Type, v)
		s.state.Del("page")
	case "filters":
		var f map[string]string
		if err := json.Unmarshal(msg.Value, &f); err != nil {
			return errors.New("filters expects an object of strings")
		}
		for k, v := range f {
			if v == "" {
				s.state.Del(k)
			} else {
				s.state.Set(k, v)
			}
		}
		s.state.Del("page")
	case "page":
		var n int
		if err := json.Unmarshal(msg.Value, &n); err != nil || n < 1 {
			return errors.New("page expects a positive number")
		}
		s.state.Set("page", strconv.Itoa(n))
	case "reset":
		s.state = url.Values{}
	default:
		return errUnknownMessage
	}
	return nil
}

// run executes the current query.  A result is dropped when a newer
// query started while it was loading.
func (s *liveSession) run(ctx context.Context) {
	seq := s.seq.Add(1)

	s.mu.Lock()
	q := make(url.Values, len(s.state))
	for k, v := range s.state {
		q[k] = append([]string(nil), v...)
	}
	s.mu.Unlock()

	p, err := listing.ParseParams(s.kind, q)
	if err != nil {
		s.send(ctx, echo.Map{"type": "error", "success": false, "message": err.Error()})
		return
	}
	res, err := s.h.Catalog.Search(ctx, s.kind, p)
	if s.seq.Load() != seq {
		return
	}
	if err != nil {
		s.send(ctx, echo.Map{"type": "error", "success": false, "message": "could not load the catalog, please try again"})
		return
	}
	body := listingBody(res)
	body["type"] = "results"
	s.send(ctx, body)
}

func (s *liveSession) send(ctx context.Context, msg any) {
	select {
	case s.out <- msg:
	case <-ctx.Done():
	}
}
