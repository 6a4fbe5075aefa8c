package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rangepoker/internal/deck"
)

const testSeed = 1234

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func startTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", testLogger(), WithSeed(testSeed), WithReadTimeout(5*time.Second))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		_ = s.Stop(context.Background())
		ts.Close()
	})
	s.addr = ts.URL
	return s
}

func dial(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.addr, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func receiveState(t *testing.T, conn *websocket.Conn) StateData {
	t.Helper()
	msg := receive(t, conn)
	require.Equal(t, MessageTypeState, msg.Type, "payload: %s", msg.Data)
	var state StateData
	require.NoError(t, json.Unmarshal(msg.Data, &state))
	return state
}

func receiveError(t *testing.T, conn *websocket.Conn) ErrorData {
	t.Helper()
	msg := receive(t, conn)
	require.Equal(t, MessageTypeError, msg.Type, "payload: %s", msg.Data)
	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	return data
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := startTestServer(t)
	resp, err := http.Get(s.addr + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestEasyRoundOverWebsocket(t *testing.T) {
	t.Parallel()

	s := startTestServer(t)
	conn := dial(t, s)

	hello := receiveState(t, conn)
	_, err := uuid.Parse(hello.SessionID)
	require.NoError(t, err)
	assert.Nil(t, hello.Round)

	cards := deck.Seeded(testSeed, 0)

	send(t, conn, MessageTypeNewRound, NewRoundData{Mode: "easy"})
	state := receiveState(t, conn)
	require.NotNil(t, state.Round)
	assert.Equal(t, hello.SessionID, state.SessionID)
	assert.Equal(t, "easy", state.Round.Mode)
	assert.Equal(t, "drafting", state.Round.Phase)
	assert.Equal(t, cards[0].Code(), state.Round.Current)
	assert.Equal(t, []string{}, state.Round.Player)
	assert.Equal(t, deck.Size, state.Round.Remaining)

	send(t, conn, MessageTypePass, nil)
	state = receiveState(t, conn)
	assert.Equal(t, []RevealData{{Card: cards[0].Code(), Seat: "dealer"}}, state.Revealed)
	assert.Equal(t, []string{cards[0].Code()}, state.Round.Dealer)

	for i := 1; i <= 5; i++ {
		send(t, conn, MessageTypeTake, nil)
		state = receiveState(t, conn)
		assert.Equal(t, "player", state.Revealed[0].Seat)
	}
	assert.Equal(t, "ready", state.Round.Phase)
	assert.Equal(t, deck.Codes(cards[1:6]), state.Round.Player)
	assert.NotEmpty(t, state.Round.PlayerStrength)

	send(t, conn, MessageTypeShowdown, nil)
	state = receiveState(t, conn)
	require.NotNil(t, state.Round.Result)
	assert.Equal(t, "complete", state.Round.Phase)
	assert.Equal(t, deck.Codes(cards[6:13]), state.Round.Result.DealerFill)
	assert.Len(t, state.Revealed, 7)
	assert.Contains(t, []string{"player", "dealer", "tie"}, state.Round.Result.Winner)
	assert.Len(t, state.Round.Result.Player.Cards, 5)
	assert.Len(t, state.Round.Result.Dealer.Cards, 5)

	send(t, conn, MessageTypeTake, nil)
	errData := receiveError(t, conn)
	assert.Equal(t, ErrorCodeRuleViolation, errData.Code)
	assert.Contains(t, errData.Message, "round over")
}

func TestHardRoundOverWebsocket(t *testing.T) {
	t.Parallel()

	s := startTestServer(t)
	conn := dial(t, s)
	receiveState(t, conn)

	cards := deck.Seeded(testSeed, 0)

	send(t, conn, MessageTypeNewRound, NewRoundData{Mode: "hard"})
	state := receiveState(t, conn)
	assert.Empty(t, state.Round.Current)

	target := cards[3]
	send(t, conn, MessageTypeDeal, DealData{Cards: []string{target.Code()}})
	state = receiveState(t, conn)
	require.Len(t, state.Revealed, 4)
	assert.Equal(t, RevealData{Card: target.Code(), Seat: "player"}, state.Revealed[3])
	assert.Equal(t, deck.Codes(cards[:3]), state.Round.Dealer)
	assert.False(t, state.Forced)

	send(t, conn, MessageTypeDeal, DealData{Cards: []string{target.Code()}})
	errData := receiveError(t, conn)
	assert.Equal(t, ErrorCodeRuleViolation, errData.Code)
	assert.Contains(t, errData.Message, "empty selection")

	send(t, conn, MessageTypeDeal, DealData{Cards: []string{"Zz"}})
	errData = receiveError(t, conn)
	assert.Equal(t, ErrorCodeInvalidCard, errData.Code)

	send(t, conn, MessageTypePass, nil)
	errData = receiveError(t, conn)
	assert.Equal(t, ErrorCodeRuleViolation, errData.Code)
	assert.Contains(t, errData.Message, "wrong mode")
}

func TestProtocolErrors(t *testing.T) {
	t.Parallel()

	s := startTestServer(t)
	conn := dial(t, s)
	receiveState(t, conn)

	tests := []struct {
		name string
		send func(t *testing.T)
		code string
	}{
		{
			name: "move before any round",
			send: func(t *testing.T) { send(t, conn, MessageTypeTake, nil) },
			code: ErrorCodeRuleViolation,
		},
		{
			name: "not json",
			send: func(t *testing.T) { require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{oops"))) },
			code: ErrorCodeInvalidMessage,
		},
		{
			name: "unknown type",
			send: func(t *testing.T) { send(t, conn, MessageType("bet"), nil) },
			code: ErrorCodeInvalidMessage,
		},
		{
			name: "unknown mode",
			send: func(t *testing.T) { send(t, conn, MessageTypeNewRound, NewRoundData{Mode: "expert"}) },
			code: ErrorCodeInvalidMessage,
		},
		{
			name: "missing data",
			send: func(t *testing.T) { send(t, conn, MessageTypeNewRound, nil) },
			code: ErrorCodeInvalidMessage,
		},
	}

	// Subtests share one connection and run in order.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.send(t)
			assert.Equal(t, tt.code, receiveError(t, conn).Code)
		})
	}

	send(t, conn, MessageTypeNewRound, NewRoundData{Mode: "easy"})
	assert.NotNil(t, receiveState(t, conn).Round, "the connection survives rejected messages")
}

func TestSessionsAreIndependent(t *testing.T) {
	t.Parallel()

	s := startTestServer(t)
	a := dial(t, s)
	b := dial(t, s)

	stateA := receiveState(t, a)
	stateB := receiveState(t, b)
	assert.NotEqual(t, stateA.SessionID, stateB.SessionID)

	require.Eventually(t, func() bool { return s.SessionCount() == 2 }, time.Second, 10*time.Millisecond)

	send(t, a, MessageTypeNewRound, NewRoundData{Mode: "easy"})
	receiveState(t, a)

	send(t, b, MessageTypeTake, nil)
	assert.Equal(t, ErrorCodeRuleViolation, receiveError(t, b).Code)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return s.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func getStats(t *testing.T, s *Server) Stats {
	t.Helper()
	resp, err := http.Get(s.addr + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var stats Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	return stats
}

func TestStats(t *testing.T) {
	t.Parallel()

	s := startTestServer(t)
	assert.Equal(t, Stats{}, getStats(t, s))

	a := dial(t, s)
	receiveState(t, a)
	b := dial(t, s)
	receiveState(t, b)
	require.Eventually(t, func() bool { return s.Stats().Sessions == 2 }, time.Second, 10*time.Millisecond)

	send(t, a, MessageTypeNewRound, NewRoundData{Mode: "easy"})
	receiveState(t, a)
	send(t, a, MessageTypeNewRound, NewRoundData{Mode: "hard"})
	receiveState(t, a)
	assert.Equal(t, Stats{Sessions: 2, RoundsDealt: 2}, getStats(t, s))

	require.NoError(t, b.Close())
	require.Eventually(t, func() bool { return s.Stats().Sessions == 1 }, 2*time.Second, 10*time.Millisecond)
}
