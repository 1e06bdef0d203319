package irclib

import (
	"sync"

	"github.com/sorcix/irc"
	"github.com/valyala/bytebufferpool"
)

var crlf = []byte("\r\n")

type pendingWrite struct {
	buf *bytebufferpool.ByteBuffer // encoded line, CRLF terminated
}

type PendingWritePool struct {
	sp sync.Pool
	m  *PoolMetrics
}

func (p *PendingWritePool) acquire(msg *irc.Message) *pendingWrite {
	v := p.sp.Get()
	if v == nil {
		v = &pendingWrite{}
		p.m.newAcquire()
	} else {
		p.m.reuse()
	}

	pw := v.(*pendingWrite)
	pw.buf = bytebufferpool.Get()
	_, _ = pw.buf.Write(msg.Bytes())
	_, _ = pw.buf.Write(crlf)
	return pw
}

func (p *PendingWritePool) release(pw *pendingWrite) {
	bytebufferpool.Put(pw.buf)
	pw.buf = nil
	p.sp.Put(pw)
	p.m.putBack()
}
