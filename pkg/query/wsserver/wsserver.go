// Package wsserver implements the collaborator-facing query transport of spec.md §6: an
// external UI (out of scope here) drives playback over a WebSocket connection by
// repeatedly calling "query" for the best move and "apply" to play it. One goroutine
// per connection runs a request/response loop guarded by iox.AsyncCloser lifecycle,
// over a gorilla/websocket connection.
package wsserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/movegen"
	"github.com/anbotka/krktable/pkg/position"
	"github.com/anbotka/krktable/pkg/query"
	"github.com/anbotka/krktable/pkg/tablebase/store"
	"github.com/gorilla/websocket"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// ProtocolName identifies this transport, printed in server startup banners.
const ProtocolName = "krk-ws"

// Request is one collaborator-facing call (spec.md §6): "setup", "legal_moves",
// "apply", or "query". FEN is required for "setup" and optional for "legal_moves" and
// "query" (defaulting to the connection's current position). Move is required for
// "apply", in pure coordinate notation (spec.md §6, "Canonical move string").
type Request struct {
	Cmd  string `json:"cmd"`
	FEN  string `json:"fen,omitempty"`
	Move string `json:"move,omitempty"`
}

// Response answers one Request. Moves is populated for "legal_moves". Value holds the
// rendered "draw"/"mate d <move>"/"not in store" string for "query". Outcome is set to
// "checkmate", "stalemate", "draw" (rook captured), or "ongoing" after "setup"/"apply".
type Response struct {
	OK      bool     `json:"ok"`
	Error   string   `json:"error,omitempty"`
	FEN     string   `json:"fen,omitempty"`
	Moves   []string `json:"moves,omitempty"`
	Outcome string   `json:"outcome,omitempty"`
	Value   string   `json:"value,omitempty"`
}

func errorResponse(format string, args ...any) Response {
	return Response{OK: false, Error: fmt.Sprintf(format, args...)}
}

// Upgrader is shared by every Server; its buffer sizes match the small JSON payloads
// this protocol exchanges (spec.md §6's API has no bulk data transfer).
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server accepts WebSocket connections and spawns one Driver per connection against a
// shared, read-only Store.
type Server struct {
	s store.Store
}

// NewServer returns a Server that answers queries against s.
func NewServer(s store.Store) *Server {
	return &Server{s: s}
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logw.Errorf(ctx, "websocket upgrade failed: %v", err)
		return
	}

	d := NewDriver(ctx, conn, srv.s)
	<-d.Closed()
}

// Driver serves one WebSocket connection's request/response loop against a shared
// Store, tracking a single "current" position for setup/apply playback (spec.md §6's
// collaborator API: setup once, then repeatedly query best_move and apply).
type Driver struct {
	iox.AsyncCloser

	conn *websocket.Conn
	s    store.Store

	mu  sync.Mutex
	cur *position.Position
}

// NewDriver starts serving conn's request loop in its own goroutine.
func NewDriver(ctx context.Context, conn *websocket.Conn, s store.Store) *Driver {
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		conn:        conn,
		s:           s,
	}
	go d.process(ctx)
	return d
}

func (d *Driver) process(ctx context.Context) {
	defer d.Close()
	defer d.conn.Close()

	logw.Infof(ctx, "%v driver initialized", ProtocolName)

	for {
		var req Request
		if err := d.conn.ReadJSON(&req); err != nil {
			logw.Infof(ctx, "%v connection closed: %v", ProtocolName, err)
			return
		}

		resp := d.handle(req)
		if err := d.conn.WriteJSON(resp); err != nil {
			logw.Errorf(ctx, "%v write failed: %v", ProtocolName, err)
			return
		}
	}
}

func (d *Driver) handle(req Request) Response {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch strings.ToLower(req.Cmd) {
	case "setup":
		return d.handleSetup(req)
	case "legal_moves":
		return d.handleLegalMoves(req)
	case "apply":
		return d.handleApply(req)
	case "query":
		return d.handleQuery(req)
	case "":
		return errorResponse("missing 'cmd'")
	default:
		return errorResponse("unrecognized command: %v", req.Cmd)
	}
}

func (d *Driver) handleSetup(req Request) Response {
	p, err := position.FromFEN(req.FEN)
	if err != nil {
		return errorResponse("invalid position: %v", err)
	}
	d.cur = p
	return d.describe(p)
}

func (d *Driver) handleLegalMoves(req Request) Response {
	p, err := d.resolve(req.FEN)
	if err != nil {
		return errorResponse("%v", err)
	}

	moves := movegen.Legal(p)
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	return Response{OK: true, FEN: p.FEN(), Moves: strs}
}

func (d *Driver) handleApply(req Request) Response {
	if d.cur == nil {
		return errorResponse("no position set up: call 'setup' first")
	}

	m, err := board.ParseMove(req.Move)
	if err != nil {
		return errorResponse("invalid move: %v", err)
	}

	successors, err := movegen.Successors(d.cur)
	if err != nil {
		return errorResponse("%v", err)
	}

	var found *movegen.Successor
	for _, s := range successors {
		if s.Move.Equals(m) {
			found = &s
			break
		}
	}
	if found == nil {
		return errorResponse("illegal move: %v", req.Move)
	}

	if found.IsImmediateDraw() {
		d.cur = nil
		return Response{OK: true, Outcome: "draw"}
	}

	d.cur = found.Next
	return d.describe(d.cur)
}

func (d *Driver) handleQuery(req Request) Response {
	p, err := d.resolve(req.FEN)
	if err != nil {
		return errorResponse("%v", err)
	}

	value, err := query.Report(d.s, p)
	if err != nil {
		return errorResponse("%v", err)
	}
	return Response{OK: true, FEN: p.FEN(), Value: value}
}

// resolve returns the position named by fen, or the connection's current position if
// fen is empty.
func (d *Driver) resolve(fen string) (*position.Position, error) {
	if fen == "" {
		if d.cur == nil {
			return nil, fmt.Errorf("no position set up and no 'fen' given")
		}
		return d.cur, nil
	}
	return position.FromFEN(fen)
}

// describe reports p's terminal status alongside its FEN, the shape every
// "setup"/"apply" response shares.
func (d *Driver) describe(p *position.Position) Response {
	outcome, _ := movegen.Status(p)
	return Response{OK: true, FEN: p.FEN(), Outcome: outcome.String()}
}
