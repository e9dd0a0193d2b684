package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/padnav/internal/hub"
)

const testScript = `// bridge
function report ( height ) {
    var message = { type : "page", viewportHeight : height };
    return JSON.stringify( message );
}
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"padnav.js":  {Data: []byte(testScript)},
		"index.html": {Data: []byte("<html><body class=\"read-bar\"></body></html>")},
	}
}

type fakeStatus struct{}

func (fakeStatus) Running() bool { return true }
func (fakeStatus) Paused() bool  { return false }
func (fakeStatus) Devices() int  { return 1 }

func startServer(t *testing.T, minifyScript bool) (*hub.Hub, *httptest.Server) {
	t.Helper()
	h := hub.NewHub(nil, nil)
	b := hub.NewBroadcaster(h, fakeStatus{}, nil)
	s, err := New(h, b, testFS(), ":0", minifyScript, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return h, srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestScriptMinified(t *testing.T) {
	_, srv := startServer(t, true)

	resp, body := get(t, srv.URL+"/padnav.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/javascript")
	assert.Less(t, len(body), len(testScript))
	assert.NotContains(t, body, "// bridge")
	assert.Contains(t, body, "viewportHeight")
}

func TestScriptVerbatim(t *testing.T) {
	_, srv := startServer(t, false)

	_, body := get(t, srv.URL+"/padnav.js")
	assert.Equal(t, testScript, body)
}

func TestStatusAndWebSocket(t *testing.T) {
	h, srv := startServer(t, true)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteJSON(hub.ClientMessage{Type: hub.TypePage, ViewportHeight: 640, Controls: 2}))
	require.Eventually(t, func() bool { return h.Pages() == 1 }, 2*time.Second, 5*time.Millisecond)

	resp, body := get(t, srv.URL+"/status")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var status hub.Status
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, hub.Status{Running: true, Devices: 1, Pages: 1}, status)
}

func TestStaticFiles(t *testing.T) {
	_, srv := startServer(t, true)

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "read-bar")

	resp, _ = get(t, srv.URL+"/missing.css")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewWithoutScript(t *testing.T) {
	h := hub.NewHub(nil, nil)
	_, err := New(h, hub.NewBroadcaster(h, nil, nil), fstest.MapFS{}, ":0", true, nil)
	assert.Error(t, err)
}

func TestLocalURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"0.0.0.0:9000":   "http://localhost:9000",
		"127.0.0.1:8080": "http://127.0.0.1:8080",
		"[::1]:8080":     "http://[::1]:8080",
		"example":        "http://example",
	}
	for addr, want := range tests {
		assert.Equal(t, want, LocalURL(addr), addr)
	}
}
