package irclib

import (
	"iter"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultPollInterval = 10 * time.Millisecond
	DefaultWriteTimeout = 10 * time.Second
	DefaultRealName     = "Go simpleirc bot"
)

var ErrLineBreak = errors.New("irc: message text contains a line break")

// Conn is a single-channel IRC connection. The zero value is usable once
// Nick, Channel and Host are set; call Open to connect.
//
// A Conn moves through StateClosed, StateOpening, StateOpen and StateClosing.
// Once it has been open it cannot be reopened. Write after Close returns
// ErrNotOpen. Read after Close keeps returning messages that were queued
// before the connection went down.
type Conn struct {
	Nick     string
	Channel  string
	Host     string
	Port     int
	Mode     Mode
	RealName string

	PollInterval     time.Duration // read poll and writer tick, default 10ms
	HandshakeTimeout time.Duration // zero waits until the server answers
	DialTimeout      time.Duration
	DialAttempts     int
	WriteTimeout     time.Duration

	ConnState    ConnStateHandler
	OnParseError ParseErrorHandler

	once     sync.Once
	inbound  *Queue[Message]
	outbound *Queue[string]

	state atomic.Int32

	mu     sync.Mutex
	used   bool
	err    error
	tr     *transport
	halted chan struct{}

	wg sync.WaitGroup
}

// NewConn returns an unopened connection with default settings.
func NewConn(nick, channel, host string) *Conn {
	return &Conn{
		Nick:     nick,
		Channel:  channel,
		Host:     host,
		Port:     DefaultPort,
		Mode:     ModeHideHost,
		RealName: DefaultRealName,
	}
}

// Dial creates a connection and opens it. The Conn is returned even when
// Open fails so that a rejected handshake can be retried.
func Dial(nick, channel, host string, opts ...Option) (*Conn, error) {
	c := NewConn(nick, channel, host)
	for _, opt := range opts {
		opt(c)
	}
	return c, c.Open()
}

func (c *Conn) init() {
	c.once.Do(func() {
		c.inbound = NewQueue[Message]()
		c.outbound = NewQueue[string]()
	})
}

func (c *Conn) State() ConnState { return ConnState(c.state.Load()) }

// Closed reports whether the connection is closed or closing.
func (c *Conn) Closed() bool {
	s := c.State()
	return s == StateClosed || s == StateClosing
}

// Err returns the transport failure that brought the connection down, if any.
func (c *Conn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Conn) Addr() string { return HostAddr(c.Host, c.Port) }

func (c *Conn) String() string { return c.Nick + "@" + c.Addr() + "/" + c.Channel }

func (c *Conn) validate() error {
	switch {
	case c.Nick == "":
		return errors.New("irc: nick is required")
	case c.Channel == "":
		return errors.New("irc: channel is required")
	case c.Host == "":
		return errors.New("irc: host is required")
	case !c.Mode.valid():
		return errors.Errorf("irc: mode %d has bits other than w(2) and i(4)", c.Mode)
	}
	return nil
}

// Open connects, registers and joins the channel. It blocks until the server
// has sent the end of the channel's member list, or rejected the
// registration with a *ProtocolError. On failure the connection is left
// closed and Open may be called again.
func (c *Conn) Open() error {
	c.init()

	if err := c.validate(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.used || c.State() != StateClosed {
		c.mu.Unlock()
		return ErrAlreadyOpen
	}
	c.err = nil
	c.halted = make(chan struct{})
	c.state.Store(int32(StateOpening))
	c.mu.Unlock()

	c.notify(StateOpening)

	tr, err := c.handshake()

	c.mu.Lock()
	if err == nil && c.State() != StateOpening {
		err = ErrClosed
	}
	if err != nil {
		if tr != nil {
			_ = tr.close()
		}
		c.state.Store(int32(StateClosed))
		close(c.halted)
		c.mu.Unlock()

		c.notify(StateClosed)
		return err
	}

	c.tr = tr
	c.used = true
	c.state.Store(int32(StateOpen))

	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
	c.mu.Unlock()

	log.Printf("Joined %s on %s as %s.", c.Channel, c.Addr(), c.Nick)

	c.notify(StateOpen)
	return nil
}

// handshake dials and registers. The transport is returned alongside any
// error after a successful dial so the caller can release it.
func (c *Conn) handshake() (*transport, error) {
	abort := func() bool { return c.State() != StateOpening }

	conn, err := dialTransport(c.Addr(), c.DialTimeout, c.DialAttempts, abort)
	if err != nil {
		return nil, transportErr("dial", err)
	}
	tr := newTransport(conn, c.writeTimeout())

	if err := tr.send(formatHandshake(c.Nick, c.Mode, c.realName(), c.Channel)...); err != nil {
		return tr, transportErr("handshake", err)
	}

	var deadline time.Time
	if c.HandshakeTimeout > 0 {
		deadline = time.Now().Add(c.HandshakeTimeout)
	}

	for {
		if abort() {
			return tr, ErrClosed
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return tr, ErrHandshakeTimeout
		}

		line, err := tr.readLine(c.pollInterval())
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return tr, transportErr("handshake", err)
		}

		if token, ok := pingToken(line); ok {
			if err := tr.send(formatPong(token)); err != nil {
				return tr, transportErr("pong", err)
			}
			continue
		}
		if err := handshakeError(line); err != nil {
			return tr, err
		}
		if isEndOfNames(line) {
			return tr, nil
		}
	}
}

// Close leaves the channel and releases the socket. Both loops are given
// time to notice the state change and exit before QUIT is sent and the
// socket is closed. Closing a closed connection returns ErrNotOpen.
func (c *Conn) Close() error {
	c.mu.Lock()
	switch c.State() {
	case StateClosed:
		c.mu.Unlock()
		return ErrNotOpen
	case StateOpening, StateClosing:
		opening := c.State() == StateOpening
		c.state.Store(int32(StateClosing))
		halted := c.halted
		c.mu.Unlock()

		if opening {
			c.notify(StateClosing)
		}
		<-halted
		return nil
	}

	c.state.Store(int32(StateClosing))
	c.mu.Unlock()

	c.notify(StateClosing)
	return c.shutdown(true)
}

// shutdown runs once per opened connection, after the state has been moved
// to StateClosing by either Close or fail.
func (c *Conn) shutdown(quit bool) error {
	c.wg.Wait()

	var err error
	if quit {
		err = transportErr("quit", c.tr.send(formatQuit()))
	}
	if cerr := c.tr.close(); cerr != nil && err == nil {
		err = transportErr("close", cerr)
	}

	c.mu.Lock()
	c.outbound.Clear()
	c.state.Store(int32(StateClosed))
	close(c.halted)
	c.mu.Unlock()

	c.notify(StateClosed)
	return err
}

// fail records a loop failure and tears the connection down in the
// background. Only the first error is kept.
func (c *Conn) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	if c.State() != StateOpen {
		c.mu.Unlock()
		return
	}
	c.state.Store(int32(StateClosing))
	c.mu.Unlock()

	log.Printf("%s has disconnected: %v", c.Addr(), err)

	c.notify(StateClosing)
	go func() { _ = c.shutdown(false) }()
}

func (c *Conn) notify(state ConnState) {
	h := c.ConnState
	if h == nil {
		h = DefaultConnStateHandler
	}
	h.HandleConnState(c, state)
}

// Read pops the oldest unread message without blocking. ok is false when
// none is queued; err is then the transport failure, if one occurred.
func (c *Conn) Read() (msg Message, ok bool, err error) {
	c.init()
	if msg, ok = c.inbound.Pop(); ok {
		return msg, true, nil
	}
	return Message{}, false, c.Err()
}

// ReadAll drains up to limit queued messages in arrival order. A limit of
// zero or less drains everything currently queued.
func (c *Conn) ReadAll(limit int) ([]Message, error) {
	var msgs []Message
	for limit <= 0 || len(msgs) < limit {
		msg, ok, err := c.Read()
		if !ok {
			if len(msgs) == 0 {
				return nil, err
			}
			break
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Messages yields queued messages until the inbound queue is momentarily
// empty. Each call starts from the oldest message not yet consumed.
func (c *Conn) Messages() iter.Seq[Message] {
	c.init()
	return func(yield func(Message) bool) {
		for {
			msg, ok := c.inbound.Pop()
			if !ok || !yield(msg) {
				return
			}
		}
	}
}

// Write queues text for delivery to the channel.
func (c *Conn) Write(text string) error {
	return c.WriteAll(text)
}

// WriteAll queues every text in order. Nothing is queued if any of them is
// invalid or the connection is not open.
func (c *Conn) WriteAll(texts ...string) error {
	c.init()

	for _, text := range texts {
		if strings.ContainsAny(text, "\r\n") {
			return ErrLineBreak
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}
	if c.State() != StateOpen {
		return ErrNotOpen
	}
	for _, text := range texts {
		c.outbound.Push(text)
	}
	return nil
}

func (c *Conn) pollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return c.PollInterval
}

func (c *Conn) writeTimeout() time.Duration {
	if c.WriteTimeout <= 0 {
		return DefaultWriteTimeout
	}
	return c.WriteTimeout
}

func (c *Conn) realName() string {
	if c.RealName == "" {
		return DefaultRealName
	}
	return c.RealName
}
