package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/oakwood/tworooms/internal/catalogue"
	"github.com/oakwood/tworooms/internal/controller"
	"github.com/oakwood/tworooms/internal/store"
)

type nopLogger struct{}

func (nopLogger) Infow(string, ...any) {}
func (nopLogger) Warnw(string, ...any) {}

func newTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	st := store.New(time.Hour)
	ctrl := controller.New(st, catalogue.Default(), controller.Config{
		ParlayDuration:   30 * time.Second,
		TieLimit:         3,
		JournalRetention: 500,
	}, nil, nopLogger{})

	r := chi.NewRouter()
	New(ctrl, st, nopLogger{}).Routes(r)
	ts := httptest.NewServer(r)
	return ts, ts.Close
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func TestHealthEndpointsReportReady(t *testing.T) {
	ts, closeFn := newTestServer(t)
	defer closeFn()

	resp, err := http.Get(ts.URL + "/health/live")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/health/ready")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateGameThenJoinAndSubmitCommand(t *testing.T) {
	ts, closeFn := newTestServer(t)
	defer closeFn()

	client := ts.Client()

	createResp := postJSON(t, client, ts.URL+"/games", createGameRequest{HostName: "Alice"})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	var created gameEnvelope
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))
	require.NotEmpty(t, created.GameID)
	require.NotEmpty(t, created.Code)

	hostCookie := findCookie(t, createResp, sessionCookie)

	// Five joiners bring the lobby to the six players LOCK_ROOM requires.
	for _, name := range []string{"Bob", "Carol", "Dave", "Erin", "Frank"} {
		joinResp := postJSON(t, client, ts.URL+"/games/"+created.Code+"/join", joinGameRequest{PlayerName: name})
		require.Equal(t, http.StatusOK, joinResp.StatusCode)

		var joined gameEnvelope
		require.NoError(t, json.NewDecoder(joinResp.Body).Decode(&joined))
		require.Equal(t, created.GameID, joined.GameID)
	}

	// Host locks the room using their own session cookie.
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/games/"+created.GameID+"/commands", bytes.NewReader(
		mustJSON(t, submitCommandRequest{Type: controller.CmdLockRoom}),
	))
	require.NoError(t, err)
	req.AddCookie(hostCookie)
	lockResp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, lockResp.StatusCode)
}

func TestSubmitCommandWithoutSessionIsUnauthorized(t *testing.T) {
	ts, closeFn := newTestServer(t)
	defer closeFn()

	client := ts.Client()
	createResp := postJSON(t, client, ts.URL+"/games", createGameRequest{HostName: "Alice"})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var created gameEnvelope
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/games/"+created.GameID+"/commands", bytes.NewReader(
		mustJSON(t, submitCommandRequest{Type: controller.CmdLockRoom}),
	))
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response did not set cookie %q", name)
	return nil
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
