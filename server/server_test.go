package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dekarrin/tunamud/internal/transcript"
	"github.com/dekarrin/tunamud/internal/version"
	"github.com/dekarrin/tunamud/server/api"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

const tavernWorld = "../worlds/tavern.toml"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(db Database) Config {
	return Config{
		TokenSecret:       []byte("0123456789abcdef0123456789abcdef"),
		DB:                db,
		WorldFile:         tavernWorld,
		UnauthDelayMillis: -1,
		PasswordCost:      bcrypt.MinCost,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	s, err := New(testConfig(Database{Type: DatabaseInMemory}), nil)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, tok string, body interface{}) (*http.Response, []byte) {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+api.PathPrefix+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, buf.Bytes()
}

func login(t *testing.T, ts *httptest.Server, name, password string) string {
	resp, body := doJSON(t, ts, http.MethodPost, "/login", "", api.LoginRequest{Name: name, Password: password})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	var lr api.LoginResponse
	require.NoError(t, json.Unmarshal(body, &lr))
	return lr.Token
}

func Test_Server_login(t *testing.T) {
	testCases := []struct {
		name         string
		body         api.LoginRequest
		expectStatus int
	}{
		{name: "good credentials", body: api.LoginRequest{Name: "george", Password: "lute"}, expectStatus: http.StatusCreated},
		{name: "name ignores case", body: api.LoginRequest{Name: "George", Password: "lute"}, expectStatus: http.StatusCreated},
		{name: "wrong password", body: api.LoginRequest{Name: "george", Password: "harp"}, expectStatus: http.StatusUnauthorized},
		{name: "no such character", body: api.LoginRequest{Name: "mira", Password: "lute"}, expectStatus: http.StatusUnauthorized},
		{name: "missing password", body: api.LoginRequest{Name: "george"}, expectStatus: http.StatusBadRequest},
	}

	ts := newTestServer(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, ts, http.MethodPost, "/login", "", tc.body)
			assert.Equal(t, tc.expectStatus, resp.StatusCode, "body: %s", body)
		})
	}
}

func Test_Server_commands(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)

	tok := login(t, ts, "george", "lute")

	resp, body := doJSON(t, ts, http.MethodPost, "/commands", tok, api.CommandRequest{Input: "look at the goblin"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	var created api.CommandModel
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal("look at the goblin", created.Input)
	assert.Equal("The goblin is hunched over a mug twice the size of its head. It smells terrible.", created.Output)
	assert.NotEmpty(created.ID)

	resp, body = doJSON(t, ts, http.MethodPost, "/commands", tok, api.CommandRequest{Input: "put cracker"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", body)

	resp, body = doJSON(t, ts, http.MethodPost, "/commands", tok, api.CommandRequest{Input: "  "})
	assert.Equal(http.StatusBadRequest, resp.StatusCode, "body: %s", body)

	resp, body = doJSON(t, ts, http.MethodGet, "/commands", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var history []api.CommandModel
	require.NoError(t, json.Unmarshal(body, &history))
	if assert.Len(history, 2) {
		assert.Equal(created, history[0])
		assert.Equal("Put cracker where?", history[1].Output)
	}
}

type brokenTranscript struct{}

var errDiskGone = errors.New("disk is gone")

func (brokenTranscript) Create(ctx context.Context, e transcript.Entry) (transcript.Entry, error) {
	return transcript.Entry{}, errDiskGone
}

func (brokenTranscript) GetByID(ctx context.Context, id uuid.UUID) (transcript.Entry, error) {
	return transcript.Entry{}, errDiskGone
}

func (brokenTranscript) GetAllByCaller(ctx context.Context, callerID uuid.UUID) ([]transcript.Entry, error) {
	return nil, errDiskGone
}

func (brokenTranscript) Close() error {
	return nil
}

func Test_Server_commandsWhenHistoryFails(t *testing.T) {
	assert := assert.New(t)

	s, err := New(testConfig(Database{Type: DatabaseInMemory}), nil)
	require.NoError(t, err)
	s.api.Backend.Transcript = brokenTranscript{}
	s.router = newRouter(s.api)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})

	tok := login(t, ts, "george", "lute")

	resp, body := doJSON(t, ts, http.MethodPost, "/commands", tok, api.CommandRequest{Input: "north"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var ran api.CommandModel
	require.NoError(t, json.Unmarshal(body, &ran))
	assert.Equal("north", ran.Input)
	assert.True(strings.HasPrefix(ran.Output, "The Kitchen\n"), "got %q", ran.Output)
	assert.Empty(ran.ID)
	assert.Empty(ran.Created)

	resp, _ = doJSON(t, ts, http.MethodGet, "/commands", tok, nil)
	assert.Equal(http.StatusInternalServerError, resp.StatusCode)
}

func Test_Server_commandsRequireAuth(t *testing.T) {
	testCases := []struct {
		name   string
		method string
		tok    string
		body   interface{}
	}{
		{name: "get without token", method: http.MethodGet},
		{name: "post without token", method: http.MethodPost, body: api.CommandRequest{Input: "look"}},
		{name: "get with garbage token", method: http.MethodGet, tok: "not-a-jwt"},
	}

	ts := newTestServer(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := doJSON(t, ts, tc.method, "/commands", tc.tok, tc.body)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func Test_Server_info(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/info", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var info api.InfoModel
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(version.ServerCurrent, info.Version.Server)
	assert.Equal(version.Current, info.Version.TunaMUD)

	resp, _ = doJSON(t, ts, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(http.StatusNotFound, resp.StatusCode)
}

func Test_Server_lineSession(t *testing.T) {
	assert := assert.New(t)
	ts := newTestServer(t)

	tok := login(t, ts, "george", "lute")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + api.PathPrefix + "/ws?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	exchange := func(line string) string {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(line)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		return string(msg)
	}

	assert.Equal("Exits: north and southeast.\r\n", exchange("exits"))
	assert.Equal("\r\n", exchange("   "))
	assert.Equal("Go where?\r\n", exchange("north door"))

	kitchen := exchange("n")
	assert.True(strings.HasPrefix(kitchen, "The Kitchen\n"), "got %q", kitchen)
	assert.True(strings.HasSuffix(kitchen, "\r\n"), "got %q", kitchen)
	assert.Equal(1, strings.Count(kitchen, "\r\n"))

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func Test_Server_lineSessionRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + api.PathPrefix + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if conn != nil {
		conn.Close()
	}

	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
	if assert.NotNil(t, resp) {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func Test_Server_sqliteKeepsWorld(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	cfg := testConfig(Database{Type: DatabaseSQLite, DataDir: t.TempDir()})

	s, err := New(cfg, nil)
	require.NoError(t, err)
	george, err := s.Service().Login(ctx, "george", "lute")
	require.NoError(t, err)
	_, err = s.Service().RunCommand(ctx, george, []byte("north"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := New(cfg, nil)
	require.NoError(t, err)
	defer reopened.Close()

	again, err := reopened.Service().Login(ctx, "george", "lute")
	require.NoError(t, err)
	assert.Equal(george.ID, again.ID)
	assert.NotEqual(george.Location, again.Location, "george should still be in the kitchen")

	history, err := reopened.Service().History(ctx, george.ID)
	assert.NoError(err)
	assert.Len(history, 1)
}

func Test_Server_Serve(t *testing.T) {
	s, err := New(testConfig(Database{Type: DatabaseInMemory}), nil)
	require.NoError(t, err)
	defer s.Close()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(ctx, l)
	}()

	resp, err := http.Get("http://" + l.Addr().String() + api.PathPrefix + "/info")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	http.DefaultClient.CloseIdleConnections()

	cancel()
	assert.NoError(t, <-errCh)
}
