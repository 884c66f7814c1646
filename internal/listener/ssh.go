package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/crypto/ssh"
)

// SshListener serves players over ssh without authentication; the name
// prompt is the only identity check. Each shell session on a connection is
// one player.
type SshListener struct {
	port   uint16
	cm     *ConnectionManager
	config *ssh.ServerConfig
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer) *SshListener {
	config := &ssh.ServerConfig{
		NoClientAuth: true,
	}
	config.AddHostKey(hostKey)

	return &SshListener{
		port:   port,
		cm:     cm,
		config: config,
	}
}

func (l *SshListener) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}
	return l.serve(ctx, listener)
}

func (l *SshListener) serve(ctx context.Context, listener net.Listener) error {
	slog.InfoContext(ctx, "listening for ssh", "addr", listener.Addr().String())

	connCtx, cancelConns := context.WithCancel(context.WithoutCancel(ctx))
	var wg sync.WaitGroup
	defer func() {
		cancelConns()
		wg.Wait()
	}()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accepting ssh connections: %w", err)
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			l.handleConnection(connCtx, conn)
		}()
	}
}

func (l *SshListener) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, l.config)
	if err != nil {
		slog.WarnContext(ctx, "ssh handshake", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer sshConn.Close()

	slog.InfoContext(ctx, "ssh connection established", "remote", conn.RemoteAddr(), "user", sshConn.User())

	// Closing the connection ends the channel loop below.
	stop := context.AfterFunc(ctx, func() { _ = sshConn.Close() })
	defer stop()

	go ssh.DiscardRequests(reqs)

	var wg sync.WaitGroup
	defer wg.Wait()

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			_ = newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}

		ch, requests, err := newChan.Accept()
		if err != nil {
			slog.ErrorContext(ctx, "accepting ssh channel", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer ch.Close()

			if !waitForShell(ctx, requests) {
				return
			}
			l.cm.AcceptConnection(ctx, "ssh", newCRLFReadWriter(ch))
			_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{0}))
		}()
	}
}

// waitForShell answers channel requests until the client asks for a shell.
// A pty is refused so the client keeps local echo and line editing.
func waitForShell(ctx context.Context, requests <-chan *ssh.Request) bool {
	shell := make(chan bool, 1)
	go func() {
		shellSeen := false
		for req := range requests {
			ok := req.Type == "shell" && !shellSeen
			if req.WantReply {
				_ = req.Reply(ok, nil)
			}
			if ok {
				shellSeen = true
				shell <- true
			}
		}
		if !shellSeen {
			shell <- false
		}
	}()

	select {
	case ok := <-shell:
		return ok
	case <-ctx.Done():
		return false
	}
}
