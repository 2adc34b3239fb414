package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestServer(t *testing.T, maxBatch int) (*Server, *httptest.Server) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Server.MaxBatch = maxBatch
	cfg.Server.Workers = 2

	srv := NewServer(cfg, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, msgType MessageType, requestID string, data interface{}) *Message {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	msg.RequestID = requestID
	require.NoError(t, conn.WriteJSON(msg))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, requestID, reply.RequestID)
	return &reply
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer(DefaultConfig(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHTTPEvaluate(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, 3)

	query := url.Values{"hand": {"5H 4S 3S 2D AS", "AD AH AS AC AD"}}
	resp, err := http.Get(ts.URL + "/evaluate?" + query.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var data ResultsData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	require.Len(t, data.Results, 2)

	wheel := data.Results[0]
	assert.Equal(t, "Straight", wheel.Category)
	assert.Equal(t, 4, wheel.Ordinal)
	assert.Equal(t, []int{4, 3, 2, 1, 0, -1}, wheel.Rank)
	assert.Equal(t, []string{"5H", "4S", "3S", "2D", "AS"}, wheel.Cards)
	assert.Empty(t, wheel.Error)

	dup := data.Results[1]
	assert.Equal(t, "hand", dup.ErrorKind)
	assert.Contains(t, dup.Error, "same card: AD")
	assert.Empty(t, dup.Category)
}

func TestHTTPEvaluateRejectsBadRequests(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, 1)

	resp, err := http.Get(ts.URL + "/evaluate")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	query := url.Values{"hand": {"TS JS QS KS AS", "2S 3S 4S 5S 6S"}}
	resp, err = http.Get(ts.URL + "/evaluate?" + query.Encode())
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/evaluate", "text/plain", strings.NewReader("TS JS QS KS AS"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWebSocketEvaluate(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, 10)
	conn := dial(t, ts)

	reply := roundTrip(t, conn, MessageTypeEvaluate, "req-1", EvaluateData{
		Hands: []string{"TS JS QS KS AS", "PS 2S 3S 4S 5S", "4D 4H 4S KS KD"},
	})
	require.Equal(t, MessageTypeResults, reply.Type)

	var data ResultsData
	require.NoError(t, json.Unmarshal(reply.Data, &data))
	require.Len(t, data.Results, 3)
	assert.Equal(t, "Royal Flush", data.Results[0].Category)
	assert.Equal(t, "card", data.Results[1].ErrorKind)
	assert.Contains(t, data.Results[1].Error, "'PS'")
	assert.Equal(t, "Full House", data.Results[2].Category)
}

func TestWebSocketCompare(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, 10)
	conn := dial(t, ts)

	tests := []struct {
		name       string
		hands      []string
		wantResult int
		wantWinner int
	}{
		{"first wins", []string{"5D 5H 5S 4S 4D", "5D 5H 5S 3S 3D"}, 1, 0},
		{"second wins", []string{"5S 4S 3S 2S AS", "2S 3S 4S 5S 6S"}, -1, 1},
		{"tie", []string{"AS KD 9C 7H 5D", "AH KC 9D 7S 5C"}, 0, -1},
	}

	for _, tc := range tests {
		reply := roundTrip(t, conn, MessageTypeCompare, tc.name, CompareData{Hands: tc.hands})
		require.Equal(t, MessageTypeComparison, reply.Type, tc.name)

		var data ComparisonData
		require.NoError(t, json.Unmarshal(reply.Data, &data))
		assert.Equal(t, tc.wantResult, data.Result, tc.name)
		assert.Equal(t, tc.wantWinner, data.Winner, tc.name)
		assert.Len(t, data.Hands, 2)
	}
}

func TestWebSocketErrors(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, 2)
	conn := dial(t, ts)

	tests := []struct {
		name     string
		msgType  MessageType
		data     interface{}
		wantCode string
	}{
		{"unknown type", MessageType("shuffle"), struct{}{}, ErrCodeUnknownType},
		{"bad payload", MessageTypeEvaluate, "not an object", ErrCodeInvalidMessage},
		{"batch too large", MessageTypeEvaluate, EvaluateData{Hands: []string{"a", "b", "c"}}, ErrCodeBatchTooLarge},
		{"compare arity", MessageTypeCompare, CompareData{Hands: []string{"TS JS QS KS AS"}}, ErrCodeInvalidMessage},
		{"compare invalid hand", MessageTypeCompare, CompareData{Hands: []string{"TS JS QS KS AS", "AD AH AS AC AD"}}, ErrCodeInvalidHand},
	}

	for _, tc := range tests {
		reply := roundTrip(t, conn, tc.msgType, tc.name, tc.data)
		require.Equal(t, MessageTypeError, reply.Type, tc.name)

		var data ErrorData
		require.NoError(t, json.Unmarshal(reply.Data, &data))
		assert.Equal(t, tc.wantCode, data.Code, tc.name)
		assert.NotEmpty(t, data.Message, tc.name)
	}
}

func TestConnectionTracking(t *testing.T) {
	t.Parallel()
	srv, ts := newTestServer(t, 10)
	conn := dial(t, ts)

	// Wait for the evaluate round trip so registration has happened.
	roundTrip(t, conn, MessageTypeEvaluate, "warmup", EvaluateData{Hands: []string{"TS JS QS KS AS"}})
	assert.Equal(t, 1, srv.ConnectionCount())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file uses defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, "localhost:8080", cfg.Address())
		assert.NoError(t, cfg.Validate())
	})

	t.Run("partial file gets defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "server.hcl")
		require.NoError(t, os.WriteFile(path, []byte(`
server {
  port    = 9090
  workers = 4
}
`), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9090", cfg.Address())
		assert.Equal(t, 4, cfg.Server.Workers)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, 1000, cfg.Server.MaxBatch)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "server.hcl")
		require.NoError(t, os.WriteFile(path, []byte(`server {`), 0o600))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "loud" }, "invalid log level"},
		{"bad batch", func(c *Config) { c.Server.MaxBatch = -1 }, "max_batch must be positive"},
		{"bad workers", func(c *Config) { c.Server.Workers = -1 }, "workers must not be negative"},
	}

	for _, tc := range tests {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		assert.ErrorContains(t, cfg.Validate(), tc.wantErr, tc.name)
	}
}
