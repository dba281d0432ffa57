package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
)

// SessionHandler runs the command loop for one connected client.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// fullMessage is sent to clients turned away by the session cap.
const fullMessage = "The arena is full. Try again later."

// Acceptor listens for telnet clients and hands each to a SessionHandler.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger
	// slots is nil when the session count is unlimited.
	slots chan struct{}

	mu       sync.Mutex
	listener net.Listener
	conns    map[*Conn]struct{}
	wg       sync.WaitGroup
}

// NewAcceptor creates an Acceptor.
//
// Precondition: handler and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	a := &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		conns:   make(map[*Conn]struct{}),
	}
	if cfg.MaxSessions > 0 {
		a.slots = make(chan struct{}, cfg.MaxSessions)
	}
	return a
}

// Serve accepts clients until ctx is cancelled, then closes every open
// connection and waits for the handlers to return.
//
// Postcondition: no session goroutines remain when Serve returns.
func (a *Acceptor) Serve(ctx context.Context) error {
	start := time.Now()
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("max_sessions", a.cfg.MaxSessions),
		zap.Duration("startup", time.Since(start)),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		raw, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		if !a.acquire() {
			a.logger.Warn("session cap reached", zap.String("remote_addr", raw.RemoteAddr().String()))
			c := NewConn(raw, 0, a.cfg.WriteTimeout)
			_ = c.WriteLine(fullMessage)
			_ = c.Close()
			continue
		}
		conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
		a.track(conn, true)
		a.wg.Add(1)
		go a.serveConn(ctx, conn)
	}

	a.closeAll()
	a.wg.Wait()

	a.mu.Lock()
	a.listener = nil
	a.mu.Unlock()
	a.logger.Info("telnet acceptor stopped")
	return nil
}

func (a *Acceptor) serveConn(ctx context.Context, conn *Conn) {
	defer a.wg.Done()
	defer func() {
		a.track(conn, false)
		_ = conn.Close()
	}()
	// The slot frees before the session stops counting.
	defer a.release()

	start := time.Now()
	addr := conn.RemoteAddr().String()

	a.logger.Info("client connected", zap.String("remote_addr", addr))
	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed", zap.String("remote_addr", addr), zap.Error(err))
		return
	}

	err := a.handler.HandleSession(ctx, conn)
	fields := []zap.Field{zap.String("remote_addr", addr), zap.Duration("duration", time.Since(start))}
	if err != nil {
		a.logger.Debug("session ended", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Info("session ended cleanly", fields...)
}

func (a *Acceptor) acquire() bool {
	if a.slots == nil {
		return true
	}
	select {
	case a.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (a *Acceptor) release() {
	if a.slots != nil {
		<-a.slots
	}
}

func (a *Acceptor) track(c *Conn, open bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if open {
		a.conns[c] = struct{}{}
	} else {
		delete(a.conns, c)
	}
}

// closeAll unblocks every handler waiting on a read.
func (a *Acceptor) closeAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for c := range a.conns {
		_ = c.Close()
	}
}

// Addr returns the listening address, or "" when not serving.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Sessions returns the number of connected clients.
func (a *Acceptor) Sessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}
