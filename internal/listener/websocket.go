package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultWebsocketPath = "/ws"
	wsWriteTimeout       = 5 * time.Second
)

// WebsocketListener serves players over websockets. Each text frame from
// the client is one line of input; each write to the player is one frame.
type WebsocketListener struct {
	port     uint16
	path     string
	cm       *ConnectionManager
	upgrader websocket.Upgrader

	wg sync.WaitGroup
}

func NewWebsocketListener(port uint16, path string, cm *ConnectionManager) *WebsocketListener {
	if path == "" {
		path = DefaultWebsocketPath
	}
	return &WebsocketListener{
		port: port,
		path: path,
		cm:   cm,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}
	return l.serve(ctx, listener)
}

func (l *WebsocketListener) serve(ctx context.Context, listener net.Listener) error {
	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelConns()

	mux := http.NewServeMux()
	mux.HandleFunc(l.path, func(w http.ResponseWriter, r *http.Request) {
		l.handle(connCtx, w, r)
	})
	svr := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.InfoContext(ctx, "listening for websockets", "addr", listener.Addr().String(), "path", l.path)

	go func() {
		<-ctx.Done()
		// Hijacked connections aren't touched by Shutdown, they end with connCtx.
		cancelConns()
		_ = svr.Shutdown(context.Background())
	}()

	err := svr.Serve(listener)
	l.wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websockets: %w", err)
	}
	return nil
}

func (l *WebsocketListener) handle(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	l.wg.Add(1)
	defer l.wg.Done()

	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "websocket upgrade", "remote", r.RemoteAddr, "error", err)
		return
	}

	wc := newWsReadWriter(conn)
	defer wc.Close()

	stop := context.AfterFunc(ctx, func() { _ = wc.Close() })
	defer stop()

	l.cm.AcceptConnection(ctx, "websocket", wc)
}

// wsReadWriter adapts a websocket connection to the line oriented stream
// the player layer reads from.
type wsReadWriter struct {
	conn *websocket.Conn

	pending []byte

	mu     sync.Mutex
	closed bool
}

func newWsReadWriter(conn *websocket.Conn) *wsReadWriter {
	return &wsReadWriter{conn: conn}
}

func (c *wsReadWriter) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		kind, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		if len(msg) == 0 || msg[len(msg)-1] != '\n' {
			msg = append(msg, '\n')
		}
		c.pending = msg
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *wsReadWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, io.ErrClosedPipe
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsReadWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
