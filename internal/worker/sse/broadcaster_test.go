package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseClient connects to a live broadcaster and exposes received lines.
type sseClient struct {
	cancel context.CancelFunc
	reader *bufio.Reader
	resp   *http.Response
}

func connectSSE(t *testing.T, url string) *sseClient {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return &sseClient{cancel: cancel, reader: bufio.NewReader(resp.Body), resp: resp}
}

func (c *sseClient) close() {
	c.cancel()
	c.resp.Body.Close()
}

// nextData reads lines until the next "data:" payload.
func (c *sseClient) nextData(t *testing.T) string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		line, err := c.reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
	t.Fatal("no SSE data line before deadline")
	return ""
}

func TestBroadcastReachesConnectedClient(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(http.HandlerFunc(b.HandleSSE))
	defer srv.Close()

	client := connectSSE(t, srv.URL)
	defer client.close()

	hello := client.nextData(t)
	assert.Contains(t, hello, `"type":"connected"`)
	assert.Contains(t, hello, "client-")

	// The hello is written synchronously, so the client is registered.
	require.Equal(t, 1, b.ClientCount())

	b.Broadcast(map[string]string{"type": "moment", "label": "Engagement peak"})
	payload := client.nextData(t)
	assert.Contains(t, payload, `"type":"moment"`)
	assert.Contains(t, payload, "Engagement peak")
}

func TestClientCountTracksDisconnect(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(http.HandlerFunc(b.HandleSSE))
	defer srv.Close()

	client := connectSSE(t, srv.URL)
	client.nextData(t)
	require.Equal(t, 1, b.ClientCount())

	client.close()
	require.Eventually(t, func() bool {
		return b.ClientCount() == 0
	}, 3*time.Second, 20*time.Millisecond)
}

func TestBroadcastWithNoClientsIsANoOp(t *testing.T) {
	b := NewBroadcaster()
	b.Broadcast(map[string]string{"type": "moment"})
	assert.Equal(t, 0, b.ClientCount())
}
