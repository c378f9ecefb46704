package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monsterpet/internal/pet"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := New("Testy", time.Minute, NewLogger(io.Discard))
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)
	return res
}

func decodeState(t *testing.T, res *httptest.ResponseRecorder) GameState {
	t.Helper()
	var state GameState
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &state), res.Body.String())
	return state
}

func createGame(t *testing.T, srv *Server) string {
	t.Helper()
	res := request(t, srv, http.MethodPost, "/api/games", "")
	require.Equal(t, http.StatusCreated, res.Code)
	state := decodeState(t, res)
	require.NotEmpty(t, state.ID)
	return state.ID
}

func act(t *testing.T, srv *Server, id string, action pet.Action, times int) GameState {
	t.Helper()
	var state GameState
	for i := 0; i < times; i++ {
		res := request(t, srv, http.MethodPost, "/api/games/"+id+"/actions", `{"action":"`+string(action)+`"}`)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())
		state = decodeState(t, res)
	}
	return state
}

func TestCreateAndGetGame(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	res := request(t, srv, http.MethodGet, "/api/games/"+id, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "application/json; charset=utf-8", res.Header().Get("Content-Type"))

	state := decodeState(t, res)
	assert.Equal(t, id, state.ID)
	assert.Equal(t, "Testy", state.Name)
	assert.Equal(t, pet.PortraitEgg, state.Portrait)
	assert.Equal(t, "🥚 Waiting to hatch", state.Status)
	assert.Equal(t, pet.Snapshot{}, state.Snapshot)
	assert.Equal(t, 1, srv.Store().Len())
}

func TestUnknownGame(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/games/nope", ""},
		{http.MethodDelete, "/api/games/nope", ""},
		{http.MethodPost, "/api/games/nope/actions", `{"action":"feed"}`},
		{http.MethodPost, "/api/games/nope/items", `{"item":"cookie"}`},
		{http.MethodPost, "/api/games/nope/reveal", ""},
		{http.MethodPost, "/api/games/nope/reset", ""},
		{http.MethodGet, "/api/games/nope/ws", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			res := request(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, res.Code)
			assert.Contains(t, res.Body.String(), `"error"`)
		})
	}
}

func TestBadRequests(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"Malformed action body", "/actions", `{"action":`},
		{"Unknown action", "/actions", `{"action":"dance"}`},
		{"Missing action", "/actions", `{}`},
		{"Malformed item body", "/items", `nope`},
		{"Unknown item", "/items", `{"item":"sword"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := request(t, srv, http.MethodPost, "/api/games/"+id+tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, res.Code)
			assert.Contains(t, res.Body.String(), `"error"`)
		})
	}

	// Nothing changed
	res := request(t, srv, http.MethodGet, "/api/games/"+id, "")
	assert.Equal(t, pet.Snapshot{}, decodeState(t, res).Snapshot)
}

func TestActions(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	state := act(t, srv, id, pet.ActionFeed, 2)
	assert.Equal(t, 4, state.Snapshot.Stats.Hunger)
	assert.Equal(t, pet.PortraitCracked, state.Portrait)
	require.Len(t, state.Events, 1)
	assert.Equal(t, pet.EventActionApplied, state.Events[0].Kind)

	// Third feed earns Full Belly
	state = act(t, srv, id, pet.ActionFeed, 1)
	assert.Equal(t, 6, state.Snapshot.Stats.Hunger)
	assert.True(t, state.Snapshot.Badges.FullBelly)
	assert.True(t, state.Snapshot.Inventory.Cookie)
	require.Len(t, state.Events, 2)
	assert.Equal(t, pet.EventBadgeEarned, state.Events[1].Kind)
	assert.Equal(t, pet.BadgeFullBelly, state.Events[1].Badge)

	// Action names are case insensitive
	res := request(t, srv, http.MethodPost, "/api/games/"+id+"/actions", `{"action":" PLAY "}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 2, decodeState(t, res).Snapshot.Stats.Happiness)
}

func TestItems(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)
	act(t, srv, id, pet.ActionFeed, 3)

	res := request(t, srv, http.MethodPost, "/api/games/"+id+"/items", `{"item":"cookie"}`)
	require.Equal(t, http.StatusOK, res.Code)
	state := decodeState(t, res)
	assert.Equal(t, 8, state.Snapshot.Stats.Hunger)
	assert.Equal(t, 2, state.Snapshot.Stats.Happiness)
	assert.False(t, state.Snapshot.Inventory.Cookie)
	assert.Equal(t, 3, state.Snapshot.ActionCount)
	require.Len(t, state.Events, 1)
	assert.Equal(t, pet.EventItemUsed, state.Events[0].Kind)

	// Not held anymore
	res = request(t, srv, http.MethodPost, "/api/games/"+id+"/items", `{"item":"cookie"}`)
	require.Equal(t, http.StatusOK, res.Code)
	again := decodeState(t, res)
	assert.Equal(t, state.Snapshot, again.Snapshot)
	assert.Empty(t, again.Events)
}

func TestRevealFlow(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	res := request(t, srv, http.MethodPost, "/api/games/"+id+"/reveal", "")
	assert.Equal(t, http.StatusConflict, res.Code)

	state := act(t, srv, id, pet.ActionFeed, pet.RevealActionThreshold)
	assert.True(t, state.Snapshot.RevealEligible)
	assert.True(t, state.Snapshot.ActionsLocked)

	res = request(t, srv, http.MethodPost, "/api/games/"+id+"/actions", `{"action":"feed"}`)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = request(t, srv, http.MethodPost, "/api/games/"+id+"/reveal", "")
	require.Equal(t, http.StatusOK, res.Code)
	state = decodeState(t, res)
	require.NotNil(t, state.Revelation)
	assert.Equal(t, pet.MonsterGlutton, state.Revelation.Type)
	assert.Equal(t, "Your monster evolved into Glutton! It loves to eat!", state.Revelation.Message)
	assert.Equal(t, pet.PortraitGlutton, state.Portrait)
	assert.Equal(t, pet.MonsterGlutton, state.Snapshot.Monster)

	// Revealing again returns the same monster
	res = request(t, srv, http.MethodPost, "/api/games/"+id+"/reveal", "")
	require.Equal(t, http.StatusOK, res.Code)
	again := decodeState(t, res)
	assert.Equal(t, state.Revelation, again.Revelation)
	assert.Equal(t, state.Snapshot, again.Snapshot)
}

func TestResetAndDelete(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)
	act(t, srv, id, pet.ActionSleep, 2)

	res := request(t, srv, http.MethodPost, "/api/games/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, pet.Snapshot{}, decodeState(t, res).Snapshot)

	res = request(t, srv, http.MethodDelete, "/api/games/"+id, "")
	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Equal(t, 0, srv.Store().Len())

	res = request(t, srv, http.MethodGet, "/api/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestRoutesAndIndex(t *testing.T) {
	srv := newTestServer(t)

	res := request(t, srv, http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, res.Code)
	var routes []RouteDoc
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &routes))
	assert.Contains(t, routes, RouteDoc{
		Method:      "POST",
		Pattern:     "/api/games/{id}/actions",
		Summary:     "Apply a care action",
		ExampleBody: `{"action":"feed"}`,
	})
	assert.Len(t, routes, 9)

	res = request(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "<title>Monster Pet</title>")

	res = request(t, srv, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func dialGame(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) GameState {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var state GameState
	require.NoError(t, conn.ReadJSON(&state))
	return state
}

func TestWebSocket(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := createGame(t, srv)
	conn := dialGame(t, ts, id)

	// Current state arrives first
	state := readState(t, conn)
	assert.Equal(t, "state", state.Type)
	assert.Equal(t, id, state.ID)
	assert.Equal(t, pet.Snapshot{}, state.Snapshot)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "action", Action: "feed"}))
	state = readState(t, conn)
	assert.Equal(t, 2, state.Snapshot.Stats.Hunger)
	assert.Equal(t, 1, state.Snapshot.ActionCount)

	// Rejected commands only answer the sender
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "action", Action: "dance"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var errMsg ErrorMessage
	require.NoError(t, conn.ReadJSON(&errMsg))
	assert.Equal(t, "error", errMsg.Type)
	assert.Contains(t, errMsg.Error, "dance")

	// Changes made over HTTP are pushed too
	act(t, srv, id, pet.ActionPlay, 1)
	state = readState(t, conn)
	assert.Equal(t, 2, state.Snapshot.Stats.Happiness)
	assert.Equal(t, 2, state.Snapshot.ActionCount)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "reset"}))
	state = readState(t, conn)
	assert.Equal(t, pet.Snapshot{}, state.Snapshot)
}

func TestWebSocketFanOut(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := createGame(t, srv)
	first := dialGame(t, ts, id)
	second := dialGame(t, ts, id)
	readState(t, first)
	readState(t, second)

	require.NoError(t, first.WriteJSON(ClientMessage{Type: "action", Action: "sleep"}))
	assert.Equal(t, 3, readState(t, first).Snapshot.Stats.Energy)
	assert.Equal(t, 3, readState(t, second).Snapshot.Stats.Energy)
}

func TestDeleteClosesWebSocket(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := createGame(t, srv)
	conn := dialGame(t, ts, id)
	readState(t, conn)

	require.NoError(t, srv.Store().Delete(id))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestRevealPushesRevelation(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := createGame(t, srv)
	conn := dialGame(t, ts, id)
	readState(t, conn)

	act(t, srv, id, pet.ActionFeed, pet.RevealActionThreshold)
	for i := 0; i < pet.RevealActionThreshold; i++ {
		assert.Nil(t, readState(t, conn).Revelation)
	}

	res := request(t, srv, http.MethodPost, "/api/games/"+id+"/reveal", "")
	require.Equal(t, http.StatusOK, res.Code)

	state := readState(t, conn)
	require.NotNil(t, state.Revelation)
	assert.Equal(t, pet.MonsterGlutton, state.Revelation.Type)
	assert.Equal(t, "Your monster evolved into Glutton! It loves to eat!", state.Revelation.Message)

	// Clients joining later see the result straight away
	late := dialGame(t, ts, id)
	first := readState(t, late)
	require.NotNil(t, first.Revelation)
	assert.Equal(t, state.Revelation, first.Revelation)

	res = request(t, srv, http.MethodGet, "/api/games/"+id, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, state.Revelation, decodeState(t, res).Revelation)

	// A reset clears it
	require.NoError(t, late.WriteJSON(ClientMessage{Type: "reset"}))
	assert.Nil(t, readState(t, late).Revelation)
}

func mockTimeNow(t *testing.T) *atomic.Int64 {
	t.Helper()
	original := timeNow
	var now atomic.Int64
	now.Store(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).UnixNano())
	timeNow = func() time.Time { return time.Unix(0, now.Load()) }
	t.Cleanup(func() { timeNow = original })
	return &now
}

func TestIdleGamesExpire(t *testing.T) {
	clock := mockTimeNow(t)
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := createGame(t, srv)
	sess, err := srv.Store().Get(id)
	require.NoError(t, err)

	conn := dialGame(t, ts, id)
	readState(t, conn)
	assert.Equal(t, 1, sess.Clients())

	// Connected games are kept however long they idle
	clock.Add(int64(time.Hour))
	assert.Equal(t, 0, srv.Store().Sweep())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return sess.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, srv.Store().Sweep())

	// HTTP requests count as activity
	clock.Add(int64(30 * time.Second))
	res := request(t, srv, http.MethodGet, "/api/games/"+id, "")
	require.Equal(t, http.StatusOK, res.Code)
	clock.Add(int64(45 * time.Second))
	assert.Equal(t, 0, srv.Store().Sweep())
	assert.Equal(t, 1, srv.Store().Len())

	clock.Add(int64(time.Minute))
	assert.Equal(t, 1, srv.Store().Sweep())
	assert.Equal(t, 0, srv.Store().Len())

	res = request(t, srv, http.MethodGet, "/api/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestJanitorDropsIdleGames(t *testing.T) {
	srv := New("Testy", 10*time.Millisecond, NewLogger(io.Discard))
	t.Cleanup(srv.Close)

	createGame(t, srv)
	createGame(t, srv)
	require.Eventually(t, func() bool { return srv.Store().Len() == 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestNoIdleTTLKeepsGames(t *testing.T) {
	clock := mockTimeNow(t)
	srv := New("Testy", 0, NewLogger(io.Discard))
	t.Cleanup(srv.Close)

	createGame(t, srv)
	clock.Add(int64(24 * time.Hour))
	assert.Equal(t, 0, srv.Store().Sweep())
	assert.Equal(t, 1, srv.Store().Len())
}

func TestJanitorInterval(t *testing.T) {
	tests := []struct {
		ttl      time.Duration
		expected time.Duration
	}{
		{10 * time.Millisecond, time.Second},
		{time.Minute, 15 * time.Second},
		{30 * time.Minute, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.ttl.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, janitorInterval(tt.ttl))
		})
	}
}
