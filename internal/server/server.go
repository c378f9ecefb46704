package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"monsterpet/internal/pet"
	staticfiles "monsterpet/static"
)

// Server serves the browser client and the game API
type Server struct {
	mux      *http.ServeMux
	routes   *RouteRegistry
	store    *Store
	logger   *Logger
	petName  string
	upgrader websocket.Upgrader

	stopJanitor context.CancelFunc
	janitorDone chan struct{}
}

// New creates a server whose games start with a pet called petName. Games
// with no clients and no requests for idleTTL are dropped; zero disables that.
func New(petName string, idleTTL time.Duration, logger *Logger) *Server {
	if petName == "" {
		petName = pet.DefaultPetName
	}
	s := &Server{
		mux:     http.NewServeMux(),
		routes:  &RouteRegistry{},
		store:   NewStore(idleTTL, logger),
		logger:  logger,
		petName: petName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for the local client
			},
		},
	}
	s.registerRoutes()

	if idleTTL > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopJanitor = cancel
		s.janitorDone = make(chan struct{})
		go func() {
			defer close(s.janitorDone)
			s.store.RunJanitor(ctx, janitorInterval(idleTTL))
		}()
	}
	return s
}

// janitorInterval sweeps a few times per TTL, between once a second and once a minute
func janitorInterval(idleTTL time.Duration) time.Duration {
	return min(max(idleTTL/4, time.Second), time.Minute)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Store returns the session store
func (s *Server) Store() *Store {
	return s.store
}

// Close ends every game and disconnects all clients
func (s *Server) Close() {
	if s.stopJanitor != nil {
		s.stopJanitor()
		<-s.janitorDone
	}
	s.store.Close()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

// writeGameErr maps game errors to status codes
func writeGameErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pet.ErrUnknownAction), errors.Is(err, pet.ErrUnknownItem):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrActionsLocked), errors.Is(err, ErrNotReady):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		writeGameErr(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) registerRoutes() {
	mux, rr := s.mux, s.routes

	Handle(mux, rr, "GET /api/routes", "List routes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})

	Handle(mux, rr, "POST /api/games", "Start a new game", "", func(w http.ResponseWriter, r *http.Request) {
		sess := s.store.Create(s.petName)
		writeJSON(w, http.StatusCreated, sess.State())
	})

	Handle(mux, rr, "GET /api/games/{id}", "Get game state", "", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sess.State())
	})

	Handle(mux, rr, "DELETE /api/games/{id}", "End a game", "", func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.Delete(r.PathValue("id")); err != nil {
			writeGameErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	Handle(mux, rr, "POST /api/games/{id}/actions", "Apply a care action", `{"action":"feed"}`, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		var body struct {
			Action string `json:"action"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		a, err := pet.ParseAction(body.Action)
		if err != nil {
			writeGameErr(w, err)
			return
		}
		state, err := sess.Act(a)
		if err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	})

	Handle(mux, rr, "POST /api/games/{id}/items", "Use an inventory item", `{"item":"cookie"}`, func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		var body struct {
			Item string `json:"item"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		i, err := pet.ParseItem(body.Item)
		if err != nil {
			writeGameErr(w, err)
			return
		}
		state, err := sess.UseItem(i)
		if err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	})

	Handle(mux, rr, "POST /api/games/{id}/reveal", "Reveal the monster", "", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		state, err := sess.Reveal()
		if err != nil {
			writeGameErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	})

	Handle(mux, rr, "POST /api/games/{id}/reset", "Start the game over", "", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sess.Reset())
	})

	Handle(mux, rr, "GET /api/games/{id}/ws", "Live game over WebSocket", `{"type":"action","action":"play"}`, s.serveWs)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, staticfiles.EmbeddedFS(), "index.html")
	})
}

// serveWs upgrades the request and attaches the connection to the session
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: " + err.Error())
		return
	}

	client := NewClient(sess, conn, s.logger)
	if err := sess.attach(client); err != nil {
		s.logger.Error("Failed to attach WebSocket client: " + err.Error())
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
