package irclib

import (
	"strconv"
	"strings"

	"github.com/sorcix/irc"
)

// Sentinel text of the end-of-names reply. Servers are not obliged to use
// this wording, so numeric 366 is accepted as well.
const endOfNames = "End of /NAMES list."

type MessageKind uint8

const (
	// KindUser lines carry a nick!user@host prefix; Hostname is set.
	KindUser MessageKind = iota + 1
	// KindReply lines are server numerics; Code is set.
	KindReply
)

// Message is one parsed inbound line.
type Message struct {
	Kind     MessageKind
	Sender   string
	Hostname string
	Code     int
	Command  string
	Target   string
	Body     string
	Raw      string
}

func (m Message) IsReply() bool { return m.Kind == KindReply }

func (m Message) String() string { return m.Body }

// ParseMessage parses a single protocol line. Lines that are neither
// user-originated nor numeric replies yield a *ParseError.
func ParseMessage(raw string) (Message, error) {
	line := strings.TrimRight(raw, "\r\n")

	msg := irc.ParseMessage(line)
	if msg == nil {
		return Message{}, &ParseError{Line: line, Reason: "malformed line"}
	}
	if msg.Prefix == nil || msg.Prefix.Name == "" {
		return Message{}, &ParseError{Line: line, Reason: "missing prefix"}
	}

	m := Message{
		Sender:  msg.Prefix.Name,
		Command: msg.Command,
		Body:    strings.TrimRight(msg.Trailing, "\r\n"),
		Raw:     line,
	}
	if len(msg.Params) > 0 {
		m.Target = msg.Params[0]
	}

	if code, ok := numeric(msg.Command); ok {
		if m.Target == "" {
			return Message{}, &ParseError{Line: line, Reason: "numeric reply without target"}
		}
		m.Kind = KindReply
		m.Code = code
		return m, nil
	}

	if msg.Prefix.Host == "" {
		return Message{}, &ParseError{Line: line, Reason: "prefix has no hostname"}
	}
	m.Kind = KindUser
	m.Hostname = msg.Prefix.Host
	if m.Target == "" {
		m.Target = m.Body
	}
	return m, nil
}

func numeric(command string) (int, bool) {
	if len(command) != 3 {
		return 0, false
	}
	for i := 0; i < len(command); i++ {
		if command[i] < '0' || command[i] > '9' {
			return 0, false
		}
	}
	code, err := strconv.Atoi(command)
	return code, err == nil
}

func isErrorCode(code int) bool { return code >= 400 && code <= 499 }

// pingToken reports whether line is a keepalive probe and returns the token
// the matching PONG must echo.
func pingToken(line string) (string, bool) {
	msg := irc.ParseMessage(strings.TrimRight(line, "\r\n"))
	if msg == nil || msg.Command != irc.PING {
		return "", false
	}
	if msg.Trailing != "" {
		return msg.Trailing, true
	}
	if len(msg.Params) > 0 {
		return msg.Params[0], true
	}
	return "", true
}

// isEndOfNames reports whether line completes the handshake.
func isEndOfNames(line string) bool {
	if strings.Contains(line, endOfNames) {
		return true
	}
	msg := irc.ParseMessage(strings.TrimRight(line, "\r\n"))
	return msg != nil && msg.Command == irc.RPL_ENDOFNAMES
}

// handshakeError returns a *ProtocolError when line is a numeric error reply.
func handshakeError(line string) error {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}
	code, ok := numeric(fields[1])
	if !ok || !isErrorCode(code) {
		return nil
	}
	detail := ""
	if msg := irc.ParseMessage(line); msg != nil {
		detail = msg.Trailing
	}
	return &ProtocolError{Code: code, Detail: detail, Line: line}
}

func formatHandshake(nick string, mode Mode, realname, channel string) []*irc.Message {
	return []*irc.Message{
		{Command: irc.NICK, Params: []string{nick}},
		{Command: irc.USER, Params: []string{nick, strconv.Itoa(int(mode)), "*"}, Trailing: realname, EmptyTrailing: true},
		{Command: irc.JOIN, Params: []string{channel}},
	}
}

func formatPrivmsg(channel, text string) *irc.Message {
	return &irc.Message{Command: irc.PRIVMSG, Params: []string{channel}, Trailing: text, EmptyTrailing: true}
}

func formatPong(token string) *irc.Message {
	return &irc.Message{Command: irc.PONG, Params: []string{token}}
}

func formatQuit() *irc.Message {
	return &irc.Message{Command: irc.QUIT}
}
