// Package netcheck observes which local TCP ports hold listening sockets.
// The primary probe is a short dial against localhost; daemons that bind
// only to external interfaces or firewall off loopback are caught by a
// secondary pass over the kernel's listening-socket table via ss, with
// netstat as a fallback on older hosts.
package netcheck

import (
	"context"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const defaultDialTimeout = 500 * time.Millisecond

// Checker implements the orchestrator's PortChecker.
type Checker struct {
	dialTimeout time.Duration
	dialFn      func(ctx context.Context, addr string) (net.Conn, error)
	tableFn     func(ctx context.Context) (string, error)
}

// NewChecker returns a Checker using real dials and the ss/netstat table.
func NewChecker() *Checker {
	c := &Checker{dialTimeout: defaultDialTimeout}
	c.dialFn = func(ctx context.Context, addr string) (net.Conn, error) {
		d := net.Dialer{Timeout: c.dialTimeout}
		return d.DialContext(ctx, "tcp", addr)
	}
	c.tableFn = listeningTable
	return c
}

// Listening reports whether the port has a listening TCP socket. It never
// starts or stops anything; repeated calls with unchanged OS state return
// the same answer.
func (c *Checker) Listening(ctx context.Context, port int) (bool, error) {
	conn, err := c.dialFn(ctx, net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err == nil {
		conn.Close()
		return true, nil
	}

	table, err := c.tableFn(ctx)
	if err != nil {
		// Neither probe available; report unbound rather than failing the
		// whole status check.
		return false, nil
	}
	return tableHasPort(table, port), nil
}

// listeningTable returns the raw listening-socket listing, preferring ss.
func listeningTable(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "ss", "-tln").Output()
	if err != nil {
		out, err = exec.CommandContext(ctx, "netstat", "-tln").Output()
		if err != nil {
			return "", err
		}
	}
	return string(out), nil
}

// tableHasPort scans ss/netstat output for a local address ending in the
// given port. Both tools print the local address:port in the fourth column
// for TCP listeners; scanning all fields keeps the parse tolerant of header
// and column drift between versions.
func tableHasPort(table string, port int) bool {
	suffix := ":" + strconv.Itoa(port)
	for _, line := range strings.Split(table, "\n") {
		fields := strings.Fields(line)
		for _, f := range fields {
			if strings.HasSuffix(f, suffix) && looksLikeAddr(f) {
				return true
			}
		}
	}
	return false
}

// looksLikeAddr filters out bare words that merely end in the port digits.
func looksLikeAddr(field string) bool {
	idx := strings.LastIndex(field, ":")
	if idx <= 0 {
		return false
	}
	host := field[:idx]
	return host == "*" || strings.ContainsAny(host, ".:[]") || host == "0" || net.ParseIP(host) != nil
}
