package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"testing"

	"ecocoleta/internal/pkg/category"
	"ecocoleta/internal/pkg/handler"
	"ecocoleta/internal/pkg/protocol"
	"ecocoleta/internal/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConn struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func (c *testConn) do(line string) protocol.Response {
	c.t.Helper()
	_, err := fmt.Fprintf(c.conn, "%s\n", line)
	require.NoError(c.t, err)
	resp, err := protocol.ReadResponse(c.r)
	require.NoError(c.t, err)
	return resp
}

func startServer(t *testing.T, s store.Store) string {
	t.Helper()
	h, err := handler.NewHandler(handler.WithStore(s), handler.WithCredentials("admin", "12345"))
	require.NoError(t, err)
	srv, err := NewServer(WithHandler(h))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return ln.Addr().String()
}

func dial(t *testing.T, addr string) *testConn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err, "Failed to connect to server")
	t.Cleanup(func() { _ = conn.Close() })
	c := &testConn{t: t, conn: conn, r: bufio.NewReader(conn)}
	greeting, err := protocol.ReadResponse(c.r)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, greeting.Status)
	require.Equal(t, Greeting, greeting.Message)
	return c
}

func TestNewServerRequiresHandler(t *testing.T) {
	_, err := NewServer()
	require.Error(t, err)
}

func TestServerScenario(t *testing.T) {
	s := store.NewMemoryStore()
	s.Add("A", "Addr1", category.New("paper"), "x@y")
	s.Add("B", "Addr2", category.New("glass", "metal"), "z@w")
	c := dial(t, startServer(t, s))

	resp := c.do("LIST")
	require.Equal(t, protocol.StatusOK, resp.Status)
	require.Len(t, resp.Points, 2)

	resp = c.do("FILTER|glass")
	require.Len(t, resp.Points, 1)
	assert.Equal(t, 2, resp.Points[0].ID)

	resp = c.do("ADD|X|Y|paper|c")
	require.Equal(t, protocol.StatusError, resp.Status)
	assert.Equal(t, 2, s.Len())

	require.Equal(t, protocol.StatusAuthOK, c.do("LOGIN|admin|12345").Status)
	resp = c.do("ADD|X|Y|paper|c")
	require.Equal(t, protocol.StatusAddOK, resp.Status)
	assert.Equal(t, "3", resp.Message)

	require.Equal(t, protocol.StatusUpdateOK, c.do("UPDATE|3|X2|Y2|glass,metal|c2").Status)
	resp = c.do("FILTER|metal")
	require.Len(t, resp.Points, 2)
	assert.Equal(t, "X2", resp.Points[1].Name)
	assert.Equal(t, 3, resp.Points[1].ID)

	resp = c.do("FOO|bar")
	require.Equal(t, protocol.StatusError, resp.Status)
	assert.Equal(t, "unknown command: FOO", resp.Message)
	require.Equal(t, protocol.StatusOK, c.do("LIST").Status)
}

func TestServerSkipsBlankLines(t *testing.T) {
	c := dial(t, startServer(t, store.NewMemoryStore()))
	_, err := fmt.Fprint(c.conn, "\n   \r\n")
	require.NoError(t, err)
	resp := c.do("LIST")
	require.Equal(t, protocol.StatusOK, resp.Status)
	assert.Empty(t, resp.Points)
}

func TestServerExitClosesConnection(t *testing.T) {
	addr := startServer(t, store.NewMemoryStore())
	c := dial(t, addr)
	resp := c.do("EXIT")
	require.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, "Bye", resp.Message)
	_, err := c.r.ReadByte()
	require.Error(t, err)

	// the server keeps accepting after a connection ends
	other := dial(t, addr)
	require.Equal(t, protocol.StatusOK, other.do("LIST").Status)
}

func TestServerSessionsArePerConnection(t *testing.T) {
	addr := startServer(t, store.NewMemoryStore())
	admin := dial(t, addr)
	guest := dial(t, addr)

	require.Equal(t, protocol.StatusAuthOK, admin.do("LOGIN|admin|12345").Status)
	require.Equal(t, protocol.StatusAddOK, admin.do("ADD|a|b|paper|c").Status)

	resp := guest.do("ADD|a|b|paper|c")
	require.Equal(t, protocol.StatusError, resp.Status)
	assert.Len(t, guest.do("LIST").Points, 1)
}

func TestServerConcurrentAdds(t *testing.T) {
	const clients, perClient = 8, 20
	s := store.NewMemoryStore()
	addr := startServer(t, s)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{})
	)
	wg.Add(clients)
	for i := 0; i < clients; i++ {
		c := dial(t, addr)
		require.Equal(t, protocol.StatusAuthOK, c.do("LOGIN|admin|12345").Status)
		go func(i int, c *testConn) {
			defer wg.Done()
			for j := 0; j < perClient; j++ {
				_, err := fmt.Fprintf(c.conn, "ADD|p%d-%d|addr|paper|c\n", i, j)
				if !assert.NoError(t, err) {
					return
				}
				resp, err := protocol.ReadResponse(c.r)
				if !assert.NoError(t, err) || !assert.Equal(t, protocol.StatusAddOK, resp.Status) {
					return
				}
				mu.Lock()
				ids[resp.Message] = struct{}{}
				mu.Unlock()
			}
		}(i, c)
	}
	wg.Wait()

	assert.Len(t, ids, clients*perClient)
	for id := 1; id <= clients*perClient; id++ {
		_, ok := ids[fmt.Sprint(id)]
		assert.True(t, ok, "missing id %d", id)
	}
	assert.Equal(t, clients*perClient, s.Len())
}

func TestServerDisconnectDoesNotAffectOthers(t *testing.T) {
	addr := startServer(t, store.NewMemoryStore())
	dropped := dial(t, addr)
	kept := dial(t, addr)

	_, err := fmt.Fprint(dropped.conn, "LIST")
	require.NoError(t, err)
	require.NoError(t, dropped.conn.Close())

	require.Equal(t, protocol.StatusOK, kept.do("LIST").Status)
}
