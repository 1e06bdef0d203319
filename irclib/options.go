package irclib

import "time"

type Option func(c *Conn)

func WithPort(port int) Option { return func(c *Conn) { c.Port = port } }

func WithMode(mode Mode) Option { return func(c *Conn) { c.Mode = mode } }

func WithRealName(name string) Option { return func(c *Conn) { c.RealName = name } }

func WithPollInterval(d time.Duration) Option { return func(c *Conn) { c.PollInterval = d } }

func WithHandshakeTimeout(d time.Duration) Option { return func(c *Conn) { c.HandshakeTimeout = d } }

func WithWriteTimeout(d time.Duration) Option { return func(c *Conn) { c.WriteTimeout = d } }

// WithDialRetry retries a refused or timed out dial up to attempts times,
// backing off between tries. It only applies to Open; a connection that
// drops while open is not redialled.
func WithDialRetry(attempts int, timeout time.Duration) Option {
	return func(c *Conn) {
		c.DialAttempts = attempts
		c.DialTimeout = timeout
	}
}

func WithConnStateHandler(h ConnStateHandler) Option { return func(c *Conn) { c.ConnState = h } }

func WithParseErrorHandler(h ParseErrorHandler) Option { return func(c *Conn) { c.OnParseError = h } }
