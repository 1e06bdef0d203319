package irclib

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPoolMetrics(t *testing.T) {
	defer goleak.VerifyNone(t)

	DefaultTickerDuration = 10 * time.Millisecond
	defer func() { DefaultTickerDuration = 1 * time.Second }()

	StartPoolMetrics()

	srv := newTestServer(t)
	defer srv.Close()

	c := srv.conn("gopher")
	c.PollInterval = time.Millisecond
	sc := srv.open(t, c)

	n := 64
	for i := 0; i < n; i++ {
		require.NoError(t, c.Write(fmt.Sprintf("hello %d", i)))
	}
	for i := 0; i < n; i++ {
		sc.expect(t, fmt.Sprintf("PRIVMSG #chan :hello %d\r\n", i))
	}
	t.Logf("%s", JsonStringPoolMetrics())

	require.NoError(t, c.Close())
	sc.expect(t, "QUIT\r\n")

	ReleasePoolMetrics()
	t.Logf("%s", JsonStringPoolMetrics())

	// every acquired write buffer was put back
	m := pendingWritePool.m
	require.Equal(t, m.naa+m.nra, m.npa)
	require.GreaterOrEqual(t, m.naa+m.nra, uint64(n+4))
}
