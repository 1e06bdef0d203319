package irclib

import "github.com/pkg/errors"

// readLoop owns the read side of the transport while the connection is open.
// Keepalive probes are answered here and never reach the inbound queue.
func (c *Conn) readLoop() {
	defer c.wg.Done()

	for c.State() == StateOpen {
		line, err := c.tr.readLine(c.pollInterval())
		if err != nil {
			if isTimeout(err) {
				continue
			}
			c.fail(transportErr("read", err))
			return
		}

		if err := c.handleLine(line); err != nil {
			c.fail(err)
			return
		}
	}
}

func (c *Conn) handleLine(line string) error {
	if token, ok := pingToken(line); ok {
		return transportErr("pong", c.tr.send(formatPong(token)))
	}

	msg, err := ParseMessage(line)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			c.parseErrorHandler().HandleParseError(c, pe)
		}
		return nil
	}

	c.inbound.Push(msg)
	return nil
}

func (c *Conn) parseErrorHandler() ParseErrorHandler {
	if c.OnParseError == nil {
		return DefaultParseErrorHandler
	}
	return c.OnParseError
}
