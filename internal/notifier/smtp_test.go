package notifier

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/account-server/internal/testutil"
)

// fakeRelay is a scripted single-connection SMTP server.
type fakeRelay struct {
	ln       net.Listener
	rcptCode int

	mu       sync.Mutex
	commands []string
	data     string
	done     chan struct{}
}

func startRelay(t *testing.T, rcptCode int) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	r := &fakeRelay{ln: ln, rcptCode: rcptCode, done: make(chan struct{})}
	t.Cleanup(func() { _ = ln.Close() })

	go r.serve()
	return r
}

func (r *fakeRelay) port() int {
	return r.ln.Addr().(*net.TCPAddr).Port
}

func (r *fakeRelay) serve() {
	defer close(r.done)

	conn, err := r.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 fake relay ready")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		r.mu.Lock()
		r.commands = append(r.commands, line)
		r.mu.Unlock()

		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO":
			_ = tp.PrintfLine("250-fake relay")
			_ = tp.PrintfLine("250 8BITMIME")
		case "HELO", "MAIL", "RSET", "NOOP":
			_ = tp.PrintfLine("250 OK")
		case "RCPT":
			if r.rcptCode == 250 {
				_ = tp.PrintfLine("250 OK")
			} else {
				_ = tp.PrintfLine("%d mailbox unavailable", r.rcptCode)
			}
		case "DATA":
			_ = tp.PrintfLine("354 go ahead")
			data, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			r.mu.Lock()
			r.data = string(data)
			r.mu.Unlock()
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("502 not implemented")
		}
	}
}

func (r *fakeRelay) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not finish")
	}
}

func newTestSMTP(port int) *SMTP {
	return NewSMTP(SMTPConfig{
		Host:    "127.0.0.1",
		Port:    port,
		From:    "no-reply@example.org",
		Timeout: 5 * time.Second,
	}, testutil.MakeNoopLogger())
}

func TestSMTP_Send(t *testing.T) {
	relay := startRelay(t, 250)
	s := newTestSMTP(relay.port())

	err := s.Send(context.Background(), "dude@example.com", "Your verification code", "This is your verification code: 42")
	require.NoError(t, err)
	relay.wait(t)

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Contains(t, relay.commands, "RCPT TO:<dude@example.com>")
	assert.Contains(t, relay.data, "Subject: Your verification code")
	assert.Contains(t, relay.data, "This is your verification code: 42")
	assert.Equal(t, "QUIT", relay.commands[len(relay.commands)-1])
}

func TestSMTP_Send_RecipientRejected(t *testing.T) {
	relay := startRelay(t, 550)
	s := newTestSMTP(relay.port())

	err := s.Send(context.Background(), "ghost@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send mail")

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Empty(t, relay.data)
}

func TestSMTP_Send_DialFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	err = newTestSMTP(port).Send(context.Background(), "dude@example.com", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send mail")
}

func TestSMTP_Send_InvalidRecipient(t *testing.T) {
	err := newTestSMTP(25).Send(context.Background(), "not an address", "s", "b")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestSMTP_Send_SilentRelayTimesOut(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, _ = bufio.NewReader(conn).ReadString('\n')
	}()

	s := newTestSMTP(ln.Addr().(*net.TCPAddr).Port)
	s.cfg.Timeout = 100 * time.Millisecond

	start := time.Now()
	err = s.Send(context.Background(), "dude@example.com", "s", "b")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}
