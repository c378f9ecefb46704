package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"monsterpet/internal/pet"
)

var (
	ErrSessionNotFound = errors.New("game not found")
	ErrActionsLocked   = errors.New("no actions left, time to reveal")
	ErrNotReady        = errors.New("not ready to hatch yet")
)

// Testable time function
var timeNow = time.Now

// GameState is the JSON view of a session sent over HTTP and WebSocket
type GameState struct {
	Type       string          `json:"type,omitempty"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Portrait   pet.Portrait    `json:"portrait"`
	Snapshot   pet.Snapshot    `json:"snapshot"`
	Events     []pet.Event     `json:"events,omitempty"`
	Revelation *pet.Revelation `json:"revelation,omitempty"`
}

// Session is one game. Engine calls are serialized by mu.
type Session struct {
	ID       string
	name     string
	mu       sync.Mutex
	engine   *pet.Engine
	hub      *Hub
	cancel   context.CancelFunc
	clients  int
	lastSeen time.Time
}

func newSession(name string, logger *Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:       uuid.NewString(),
		name:     name,
		engine:   pet.NewEngine(),
		hub:      newHub(ctx, logger),
		cancel:   cancel,
		lastSeen: timeNow(),
	}
	s.engine.SetListener(func(ev pet.Event) {
		logger.Event(string(ev.Kind), s.ID, ev.Describe())
	})
	go s.hub.Run(ctx)
	return s
}

// state builds the client view. Once revealed, every state carries the
// revelation so late or reconnecting clients can show the result.
func (s *Session) state(events []pet.Event) GameState {
	snap := s.engine.Snapshot()
	state := GameState{
		Type:     "state",
		ID:       s.ID,
		Name:     s.name,
		Status:   pet.GetStatusWithLabel(snap),
		Portrait: snap.Portrait(),
		Snapshot: snap,
		Events:   events,
	}
	if snap.Revealed() {
		revelation := pet.NewRevelation(snap.Monster)
		state.Revelation = &revelation
	}
	return state
}

// touch records activity. Callers hold mu.
func (s *Session) touch() {
	s.lastSeen = timeNow()
}

// State returns the current state without changing it
func (s *Session) State() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	return s.state(nil)
}

// Act applies a care action. Actions stop once the reveal threshold is reached.
func (s *Session) Act(a pet.Action) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.engine.Snapshot().ActionsLocked {
		return GameState{}, ErrActionsLocked
	}
	events, err := s.engine.ApplyAction(a)
	if err != nil {
		return GameState{}, err
	}
	return s.publish(events), nil
}

// UseItem activates a held item. Using an item that is not held changes nothing.
func (s *Session) UseItem(i pet.Item) (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	events, err := s.engine.ActivateItem(i)
	if err != nil {
		return GameState{}, err
	}
	if len(events) == 0 {
		return s.state(nil), nil
	}
	return s.publish(events), nil
}

// Reveal hatches the monster once enough actions have been taken
func (s *Session) Reveal() (GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if !s.engine.IsRevealEligible() {
		return GameState{}, ErrNotReady
	}
	if s.engine.Snapshot().Revealed() {
		return s.state(nil), nil
	}
	s.engine.Reveal()
	return s.publish(nil), nil
}

// Reset starts the game over
func (s *Session) Reset() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.engine.Reset()
	return s.publish(nil)
}

// publish pushes the new state to connected clients. Callers hold mu so
// pushes leave in mutation order.
func (s *Session) publish(events []pet.Event) GameState {
	state := s.state(events)
	s.hub.Broadcast(state)
	return state
}

// attach queues the current state for c and registers it with the hub. Holding
// mu keeps any mutation from landing between the two.
func (s *Session) attach(c *Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	payload, err := json.Marshal(s.state(nil))
	if err != nil {
		return err
	}
	c.send <- payload
	if !s.hub.Register(c) {
		return ErrSessionNotFound
	}
	s.clients++
	return nil
}

// detach removes a client added by attach
func (s *Session) detach(c *Client) {
	s.hub.Unregister(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients--
	s.touch()
}

// Clients returns the number of attached WebSocket clients
func (s *Session) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

// idle reports whether the session has had no clients and no activity for ttl
func (s *Session) idle(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients == 0 && now.Sub(s.lastSeen) >= ttl
}

func (s *Session) close() {
	s.cancel()
}

// Store holds the active game sessions
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	logger   *Logger
}

// NewStore creates an empty session store. Games idle for idleTTL are
// dropped by Sweep; zero keeps them until deleted.
func NewStore(idleTTL time.Duration, logger *Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		logger:   logger,
	}
}

// Create starts a new game for a pet called name
func (st *Store) Create(name string) *Session {
	s := newSession(name, st.logger)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Event("created", s.ID, "New game for "+name)
	return s
}

// Get looks up a session by ID
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete ends a session and disconnects its clients
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	st.logger.Event("deleted", id, "Game ended")
	return nil
}

// Sweep drops every idle session and returns how many were dropped
func (st *Store) Sweep() int {
	if st.idleTTL <= 0 {
		return 0
	}
	now := timeNow()

	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.idle(now, st.idleTTL) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
		st.logger.Event("expired", s.ID, "Game dropped after idling")
	}
	return len(expired)
}

// RunJanitor sweeps idle sessions every interval until ctx is cancelled
func (st *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// Len returns the number of active sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close ends every session
func (st *Store) Close() {
	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
