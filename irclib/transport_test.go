package irclib

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTransport_ReadLinePartial(t *testing.T) {
	defer goleak.VerifyNone(t)

	client, server := net.Pipe()
	tr := newTransport(client, time.Second)
	defer func() {
		require.NoError(t, tr.close())
		require.NoError(t, server.Close())
	}()

	go func() {
		_, _ = server.Write([]byte(":alice!user@host PRIV"))
	}()

	// the first half arrives, but no terminator before the deadline
	_, err := tr.readLine(50 * time.Millisecond)
	require.Error(t, err)
	require.True(t, isTimeout(err))

	go func() {
		_, _ = server.Write([]byte("MSG #chan :hello\r\n"))
	}()

	line, err := tr.readLine(time.Second)
	require.NoError(t, err)
	require.Equal(t, ":alice!user@host PRIVMSG #chan :hello\r\n", line)
}

func TestTransport_ReadLineLong(t *testing.T) {
	defer goleak.VerifyNone(t)

	client, server := net.Pipe()
	tr := newTransport(client, time.Second)
	defer func() {
		require.NoError(t, tr.close())
		require.NoError(t, server.Close())
	}()

	long := make([]byte, 10000)
	for i := range long {
		long[i] = 'x'
	}

	go func() {
		_, _ = server.Write(append(long, '\r', '\n'))
	}()

	line, err := tr.readLine(time.Second)
	require.NoError(t, err)
	require.Equal(t, string(long)+"\r\n", line)
}

func TestTransport_Send(t *testing.T) {
	defer goleak.VerifyNone(t)

	client, server := net.Pipe()
	tr := newTransport(client, time.Second)
	defer func() {
		require.NoError(t, tr.close())
		require.NoError(t, server.Close())
	}()

	done := make(chan error, 1)
	go func() {
		done <- tr.send(formatHandshake("gopher", ModeHideHost, "Gopher Bot", "#chan")...)
	}()

	peer := newTransport(server, time.Second)
	for _, want := range []string{
		"NICK gopher\r\n",
		"USER gopher 2 * :Gopher Bot\r\n",
		"JOIN #chan\r\n",
	} {
		line, err := peer.readLine(time.Second)
		require.NoError(t, err)
		require.Equal(t, want, line)
	}
	require.NoError(t, <-done)
}

func TestIsTimeout(t *testing.T) {
	require.False(t, isTimeout(net.ErrClosed))
	require.False(t, isTimeout(nil))
}
