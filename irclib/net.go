package irclib

import (
	"net"
	"strconv"
)

const DefaultPort = 6667

type ConnState int32

const (
	StateClosed ConnState = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s ConnState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	}
	return "ConnState(" + strconv.Itoa(int(s)) + ")"
}

// Mode is the user mode bitmask sent with USER during registration.
type Mode uint8

const (
	ModeHideHost  Mode = 2 // "w"
	ModeInvisible Mode = 4 // "i"

	modeMask = ModeHideHost | ModeInvisible
)

func (m Mode) valid() bool { return m&^modeMask == 0 }

// ConnStateHandler is told about every state transition. It may run on a
// loop goroutine, so it must not block or call Close.
type ConnStateHandler interface {
	HandleConnState(conn *Conn, state ConnState)
}

type ConnStateHandlerFunc func(conn *Conn, state ConnState)

func (fn ConnStateHandlerFunc) HandleConnState(conn *Conn, state ConnState) { fn(conn, state) }

var DefaultConnStateHandler ConnStateHandlerFunc = func(conn *Conn, state ConnState) {}

// ParseErrorHandler observes inbound lines the reader loop had to skip.
type ParseErrorHandler interface {
	HandleParseError(conn *Conn, err *ParseError)
}

type ParseErrorHandlerFunc func(conn *Conn, err *ParseError)

func (fn ParseErrorHandlerFunc) HandleParseError(conn *Conn, err *ParseError) { fn(conn, err) }

var DefaultParseErrorHandler ParseErrorHandlerFunc = func(conn *Conn, err *ParseError) {}

func HostAddr(host string, port int) string {
	if port <= 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
