package telnet

import (
	"bufio"
	"net"
	"sync"
	"time"
)

// Telnet command and option bytes (RFC 854, 857, 858, 1184).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

// MaxLineLength bounds one line of input. Longer lines are truncated.
const MaxLineLength = 512

// Conn is one telnet client. Reads strip protocol commands; writes
// translate bare "\n" to "\r\n". Writes are safe for concurrent use, reads
// are not.
type Conn struct {
	raw net.Conn
	r   *bufio.Reader

	wmu          sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. A zero timeout disables that deadline.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		r:            bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate asks the client to suppress go-ahead.
func (c *Conn) Negotiate() error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.writeLocked([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine returns the next line of text without its terminator. Telnet
// commands and control characters other than tab are dropped.
//
// Postcondition: len(line) <= MaxLineLength.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var f iacFilter
	line := make([]byte, 0, 64)
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return string(line), err
		}
		d, ok := f.feed(b)
		if !ok {
			continue
		}
		switch {
		case d == '\n':
			return string(line), nil
		case d == '\r':
			if next, err := c.r.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.r.ReadByte()
			}
			return string(line), nil
		case d == IAC, d < 32 && d != '\t':
			continue
		}
		if len(line) < MaxLineLength {
			line = append(line, d)
		}
	}
}

// Write implements io.Writer.
func (c *Conn) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+8)
	for i, b := range p {
		if b == '\n' && (i == 0 || p[i-1] != '\r') {
			buf = append(buf, '\r')
		}
		buf = append(buf, b)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.writeLocked(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteLine writes text and a line terminator.
func (c *Conn) WriteLine(text string) error {
	_, err := c.Write([]byte(text + "\n"))
	return err
}

// WritePrompt writes prompt without a line terminator.
func (c *Conn) WritePrompt(prompt string) error {
	_, err := c.Write([]byte(prompt))
	return err
}

func (c *Conn) writeLocked(p []byte) error {
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(p)
	return err
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the client's address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

type iacState uint8

const (
	stateData iacState = iota
	stateCommand
	stateOption
	stateSub
	stateSubIAC
)

// iacFilter strips telnet commands from a byte stream one byte at a time,
// so a command split across reads is still removed.
type iacFilter struct {
	state iacState
}

// feed consumes b and returns the data byte it yields, if any. An escaped
// IAC yields a literal 0xFF.
func (f *iacFilter) feed(b byte) (byte, bool) {
	switch f.state {
	case stateData:
		if b == IAC {
			f.state = stateCommand
			return 0, false
		}
		return b, true
	case stateCommand:
		switch b {
		case WILL, WONT, DO, DONT:
			f.state = stateOption
		case SB:
			f.state = stateSub
		case IAC:
			f.state = stateData
			return IAC, true
		default:
			f.state = stateData
		}
	case stateOption:
		f.state = stateData
	case stateSub:
		if b == IAC {
			f.state = stateSubIAC
		}
	case stateSubIAC:
		if b == SE {
			f.state = stateData
		} else {
			f.state = stateSub
		}
	}
	return 0, false
}

// FilterIAC removes telnet commands from input. Incomplete trailing
// commands are dropped.
//
// Postcondition: len(result) <= len(input).
func FilterIAC(input []byte) []byte {
	var f iacFilter
	out := make([]byte, 0, len(input))
	for _, b := range input {
		if d, ok := f.feed(b); ok {
			out = append(out, d)
		}
	}
	return out
}
