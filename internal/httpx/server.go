// Package httpx serves games over a JSON API. Many games are hosted at
// once; commands for one game id are serialized, different games proceed
// in parallel.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chessarbiter/internal/board"
	"github.com/hailam/chessarbiter/internal/game"
	"github.com/hailam/chessarbiter/internal/storage"
)

const (
	maxJSONBodyBytes int64 = 1 << 20
	maxBlockDelayMS  int64 = math.MaxInt64 / int64(time.Millisecond)
)

// Config holds server defaults.
type Config struct {
	BlockDelay time.Duration // default per-move deadline for new games
}

// Server wires the HTTP layer to the game store.
type Server struct {
	store *storage.Store
	cfg   Config
	now   func() time.Time

	locksMu sync.Mutex
	locks   map[string]*gameLock

	srvMu  sync.Mutex
	srv    *http.Server
	closed bool
}

// NewServer builds a Server backed by store.
func NewServer(store *storage.Store, cfg Config) *Server {
	return &Server{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		locks: make(map[string]*gameLock),
	}
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Listen starts the HTTP server and blocks until it is closed.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	if s.closed {
		s.srvMu.Unlock()
		return nil
	}
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server. A later Listen
// returns immediately.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	s.closed = true
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/games", s.withJSON(s.handleCreate))
	mux.HandleFunc("GET /api/games", s.withJSON(s.handleList))
	mux.HandleFunc("GET /api/games/{id}", s.withJSON(s.handleState))
	mux.HandleFunc("POST /api/games/{id}/join", s.withJSON(s.handleJoin))
	mux.HandleFunc("POST /api/games/{id}/move", s.withJSON(s.handleMove))
	mux.HandleFunc("POST /api/games/{id}/capture", s.withJSON(s.handleCapture))
	mux.HandleFunc("POST /api/games/{id}/promote", s.withJSON(s.handlePromote))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// gameLock serializes commands for one game id. refs counts the requests
// holding or waiting for mu; the entry is dropped when it reaches zero.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

// lock acquires the lock for one game id and returns its release.
func (s *Server) lock(id string) (unlock func()) {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &gameLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}

// writeGameError reports a rejected command with the status for its code.
func writeGameError(w http.ResponseWriter, err error) {
	code := game.Code(err)
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status, code = http.StatusNotFound, "NotFound"
	case code == "GameOver" || code == "InvalidRequest":
		status = http.StatusConflict
	case code == "DeadlineExceeded":
		status = http.StatusRequestTimeout
	case code == "Internal":
		status = http.StatusInternalServerError
	}
	writeError(w, status, code, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "InvalidRequest", "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "invalid JSON: "+err.Error())
		}
		return false
	}
	return true
}

// ---- views ----

type stateView struct {
	ID           string            `json:"id"`
	Started      bool              `json:"started"`
	Players      map[string]string `json:"players"`
	FEN          string            `json:"fen,omitempty"`
	Active       string            `json:"active,omitempty"`
	State        string            `json:"state,omitempty"`
	Check        bool              `json:"check"`
	Castling     string            `json:"castling,omitempty"`
	EnPassant    string            `json:"en_passant,omitempty"`
	History      []string          `json:"history"`
	NextDeadline *time.Time        `json:"next_deadline,omitempty"`
}

func viewOf(g *game.Game) stateView {
	v := stateView{
		ID:      g.ID,
		Started: g.Started(),
		Players: make(map[string]string, 2),
		History: []string{},
	}
	for _, p := range g.Players() {
		c, _ := g.ColorOf(p)
		v.Players[c.String()] = string(p)
	}
	if !g.Started() {
		return v
	}

	b := g.Board
	v.FEN = b.FEN()
	v.Active = b.Active.String()
	v.State = b.State.String()
	v.Check = b.InCheck()
	v.Castling = b.Castling.String()
	if ep := b.EnPassantSquare(); ep != board.NoSquare {
		v.EnPassant = ep.String()
	}
	v.History = append(v.History, b.History...)
	if d := g.NextDeadline(); !d.IsZero() && !b.State.Terminal() {
		v.NextDeadline = &d
	}
	return v
}

// ---- handlers ----

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockDelayMS *int64 `json:"block_delay_ms"`
	}
	if !decode(w, r, &req) {
		return
	}
	delay := s.cfg.BlockDelay
	if req.BlockDelayMS != nil {
		if ms := *req.BlockDelayMS; ms < 0 || ms > maxBlockDelayMS {
			writeError(w, http.StatusBadRequest, "InvalidRequest",
				fmt.Sprintf("block_delay_ms must be between 0 and %d", maxBlockDelayMS))
			return
		}
		delay = time.Duration(*req.BlockDelayMS) * time.Millisecond
	}

	id := uuid.NewString()
	g, err := game.New(id, game.Config{BlockDelay: delay}, s.now())
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.SaveGame(g); err != nil {
		log.Printf("save game %s: %v", id, err)
		writeGameError(w, err)
		return
	}
	log.Printf("game %s created, block delay %s", id, delay)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListGames()
	if err != nil {
		writeGameError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"games": ids})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	defer s.lock(id)()

	g, err := s.store.LoadGame(id)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}

type moveRequest struct {
	Player   string `json:"player"`
	From     string `json:"from"`
	To       string `json:"to"`
	Piece    string `json:"piece"`
	Captured string `json:"captured"`
	Promoted string `json:"promoted"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	p := game.Player(req.Player)
	s.execute(w, r.PathValue("id"), p, game.NewGame{Player: p})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	s.execute(w, r.PathValue("id"), game.Player(req.Player),
		game.Move{From: req.From, To: req.To, Piece: req.Piece})
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	s.execute(w, r.PathValue("id"), game.Player(req.Player),
		game.CaptureMove{From: req.From, To: req.To, Piece: req.Piece, Captured: req.Captured})
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	s.execute(w, r.PathValue("id"), game.Player(req.Player),
		game.Promotion{From: req.From, To: req.To, Piece: req.Piece, Promoted: req.Promoted})
}

// execute loads, runs and saves one command under the game's lock. A
// rejected command is never saved.
func (s *Server) execute(w http.ResponseWriter, id string, caller game.Player, cmd game.Command) {
	defer s.lock(id)()

	g, err := s.store.LoadGame(id)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := g.Execute(caller, cmd, s.now()); err != nil {
		writeGameError(w, err)
		return
	}
	if err := s.store.SaveGame(g); err != nil {
		log.Printf("save game %s: %v", id, err)
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}
