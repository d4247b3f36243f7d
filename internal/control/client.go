package control

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/Aman-CERP/gofzy/internal/errors"
)

// dialRetry governs how persistently SendChain reconnects to a socket
// that a just-started --listen session hasn't finished binding yet.
var dialRetry = errors.RetryConfig{
	MaxRetries:   3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     400 * time.Millisecond,
	Multiplier:   2.0,
	Jitter:       true,
}

// Client is a single-shot control-socket client: it connects, writes
// one action-chain line, reads the one-line acknowledgement, and
// disconnects — the shape --remote needs, adapted from the daemon
// client's Connect/IsRunning pattern with JSON-RPC framing dropped in
// favor of the plain line protocol the Server speaks.
type Client struct {
	network string
	address string
	timeout time.Duration
	cb      *errors.CircuitBreaker
}

// NewClient builds a Client. network/address follow Server's
// conventions ("unix" + socket path, or "tcp" + loopback host:port).
func NewClient(network, address string, timeout time.Duration) *Client {
	if network == "" {
		network = "unix"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		network: network,
		address: address,
		timeout: timeout,
		cb:      errors.NewCircuitBreaker("control-client"),
	}
}

// IsRunning reports whether a control socket is currently accepting
// connections at the configured address.
func (c *Client) IsRunning() bool {
	conn, err := net.DialTimeout(c.network, c.address, c.timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SendChain connects, writes spec as a single line, and returns the
// server's one-line reply ("ok" or "error: ...").
//
// A script driving --remote in a loop against a daemon that has died
// would otherwise pay the full dialRetry backoff on every single call;
// once enough consecutive sends have failed, the breaker short-circuits
// straight to the unreachable fallback instead of retrying a dead socket.
func (c *Client) SendChain(ctx context.Context, spec string) (string, error) {
	return c.cb.ExecuteWithResult(
		func() (string, error) { return c.sendChain(ctx, spec) },
		func() (string, error) {
			return "", errors.New(errors.ErrCodeControlUnreachable,
				fmt.Sprintf("control socket %s %s: circuit open after repeated failures", c.network, c.address), nil)
		},
	)
}

func (c *Client) sendChain(ctx context.Context, spec string) (string, error) {
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := errors.RetryWithResult(ctx, dialRetry, func() (net.Conn, error) {
		return dialer.DialContext(ctx, c.network, c.address)
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeControlUnreachable,
			fmt.Errorf("connect to %s %s: %w", c.network, c.address, err))
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("control: set deadline: %w", err)
	}

	if _, err := fmt.Fprintln(conn, strings.TrimSpace(spec)); err != nil {
		return "", fmt.Errorf("control: send chain: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("control: read reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "error:") {
		return reply, fmt.Errorf("control: %s", strings.TrimSpace(strings.TrimPrefix(reply, "error:")))
	}
	return reply, nil
}
