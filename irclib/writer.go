package irclib

import "time"

// writeLoop sends at most one queued text per poll interval, oldest first.
func (c *Conn) writeLoop() {
	defer c.wg.Done()

	for {
		c.sleep(c.pollInterval())

		if c.State() != StateOpen {
			return
		}

		text, ok := c.outbound.Pop()
		if !ok {
			continue
		}

		if err := c.tr.send(formatPrivmsg(c.Channel, text)); err != nil {
			c.fail(transportErr("write", err))
			return
		}
	}
}

func (c *Conn) sleep(d time.Duration) {
	t := timerPool.acquire(d)
	<-t.C
	timerPool.release(t)
}
