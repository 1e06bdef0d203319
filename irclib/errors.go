package irclib

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrAlreadyOpen      = errors.New("irc: connection already open")
	ErrNotOpen          = errors.New("irc: connection not open")
	ErrClosed           = errors.New("irc: connection closed during handshake")
	ErrHandshakeTimeout = errors.New("irc: handshake timed out")
)

// ProtocolError is returned by Open when the server rejects registration
// with a numeric reply in the 400-499 range.
type ProtocolError struct {
	Code   int
	Detail string
	Line   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("irc: server replied %03d: %s", e.Code, e.Detail)
}

// TransportError wraps a socket failure. Once a loop records one, the
// connection tears itself down and the error is handed to the caller on its
// next interaction.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("irc: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Cause() error { return e.Err }

// ParseError describes an inbound line matching neither the user-originated
// nor the numeric-reply shape. It is never fatal.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("irc: cannot parse %q: %s", e.Line, e.Reason)
}

func transportErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: errors.WithStack(err)}
}
