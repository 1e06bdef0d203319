package irclib

import (
	"bufio"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/sorcix/irc"
	"github.com/valyala/bytebufferpool"
)

var zeroTime time.Time

// transport owns the socket. Reads belong to a single goroutine at a time
// (Open during the handshake, then the reader loop); writes may come from
// anywhere and are serialized by wmu.
type transport struct {
	conn net.Conn
	r    *bufio.Reader

	// partial line carried over when a read deadline fires mid-line
	line *bytebufferpool.ByteBuffer

	wmu          sync.Mutex
	writeTimeout time.Duration
}

func newTransport(conn net.Conn, writeTimeout time.Duration) *transport {
	return &transport{
		conn:         conn,
		r:            bufio.NewReader(conn),
		line:         bytebufferpool.Get(),
		writeTimeout: writeTimeout,
	}
}

// dialTransport connects to addr, retrying up to attempts times with a
// jittered backoff. abort is checked between attempts.
func dialTransport(addr string, timeout time.Duration, attempts int, abort func() bool) (net.Conn, error) {
	if attempts < 1 {
		attempts = 1
	}

	b := &backoff.Backoff{
		Factor: 1.25,
		Jitter: true,
		Min:    500 * time.Millisecond,
		Max:    1 * time.Second,
	}

	var err error
	for i := 0; i < attempts; i++ {
		var conn net.Conn
		conn, err = net.DialTimeout("tcp", addr, timeout)
		if err == nil {
			return conn, nil
		}
		if i+1 == attempts || abort() {
			break
		}

		duration := b.Duration()

		log.Printf("Trying to connect to %s. Sleeping for %s.", addr, duration)
		time.Sleep(duration)
	}

	return nil, errors.Wrapf(err, "dial %s", addr)
}

// readLine returns the next complete line including its terminator. If no
// full line arrives within timeout it returns an error for which isTimeout
// holds, keeping any partial input for the next call. A zero timeout waits
// indefinitely.
func (t *transport) readLine(timeout time.Duration) (string, error) {
	deadline := zeroTime
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return "", err
	}

	for {
		chunk, err := t.r.ReadSlice('\n')
		_, _ = t.line.Write(chunk)

		switch {
		case err == nil:
			line := t.line.String()
			t.line.Reset()
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return "", err
		}
	}
}

func (t *transport) send(msgs ...*irc.Message) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()

	for _, msg := range msgs {
		if err := t.write(msg); err != nil {
			return err
		}
	}
	return nil
}

func (t *transport) write(msg *irc.Message) error {
	pw := pendingWritePool.acquire(msg)
	defer pendingWritePool.release(pw)

	deadline := zeroTime
	if t.writeTimeout > 0 {
		deadline = time.Now().Add(t.writeTimeout)
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	_, err := t.conn.Write(pw.buf.B)
	return err
}

func (t *transport) close() error {
	err := t.conn.Close()
	if t.line != nil {
		bytebufferpool.Put(t.line)
		t.line = nil
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
