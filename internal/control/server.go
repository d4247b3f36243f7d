// Package control runs the finder's optional control socket: a
// Unix-domain (or TCP-loopback on platforms without one) listener that
// accepts line-delimited action chains, parses each with the action
// package's grammar, and queues it onto the Model's event channel —
// structurally the same accept-loop-plus-per-connection-goroutine
// shape as the daemon package's JSON-RPC server, with a line-delimited
// action-chain protocol in place of JSON-RPC.
package control

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Aman-CERP/gofzy/internal/action"
	"github.com/Aman-CERP/gofzy/internal/errors"
)

// connDeadline bounds how long one control connection may stay open,
// counted from accept (the deadline is set once, not per line), mirroring the daemon server's 30s read deadline.
const connDeadline = 30 * time.Second

// Dispatcher receives one parsed action chain per accepted line. The
// Model implements this by queuing the chain onto its own event loop.
type Dispatcher interface {
	Dispatch(chain []action.Action)
}

// Server listens on a Unix-domain socket (or "tcp" network for
// loopback fallback) and feeds accepted, parsed action chains to a
// Dispatcher.
type Server struct {
	network string
	address string
	handler Dispatcher

	listener net.Listener

	mu       sync.Mutex
	shutdown bool
	wg       sync.WaitGroup
}

// NewServer creates a Server. network is "unix" (the default; address
// is a socket path) or "tcp" (address is a loopback host:port) for
// platforms without Unix-domain sockets.
func NewServer(network, address string, handler Dispatcher) *Server {
	if network == "" {
		network = "unix"
	}
	return &Server{network: network, address: address, handler: handler}
}

// ListenAndServe starts the accept loop and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.network == "unix" {
		_ = os.Remove(s.address)
	}

	listener, err := net.Listen(s.network, s.address)
	if err != nil {
		return fmt.Errorf("control: listen on %s %s: %w", s.network, s.address, err)
	}
	s.listener = listener
	defer func() {
		_ = listener.Close()
		if s.network == "unix" {
			_ = os.Remove(s.address)
		}
	}()

	slog.Info("control socket listening", slog.String("network", s.network), slog.String("address", s.address))

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			shutdown := s.shutdown
			s.mu.Unlock()
			if shutdown {
				break
			}
			slog.Error("control accept error", slog.String("error", err.Error()))
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}

	s.wg.Wait()
	return ctx.Err()
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(connDeadline)); err != nil {
		slog.Warn("control: failed to set connection deadline", slog.String("error", err.Error()))
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		chain, err := action.ParseChain(line)
		if err != nil {
			fmt.Fprintf(conn, "error: %s\n", mapParseError(err))
			continue
		}
		s.handler.Dispatch(chain)
		fmt.Fprintln(conn, "ok")
	}
}

// mapParseError translates a raw action-chain parse error into the
// FinderError taxonomy's wire form, the same boundary-translation role
// MCP's error mapper plays for its JSON-RPC replies.
func mapParseError(err error) string {
	fe := errors.Wrap(errors.ErrCodeInvalidInput, err)
	return fe.Error()
}

// Close stops the server, causing ListenAndServe to return once
// in-flight connections drain.
func (s *Server) Close() error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
