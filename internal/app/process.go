// Package app sequences process startup and shutdown: the listener is bound
// and serving before the database connection is attempted.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// Connector is the database handle as seen by the process.
type Connector interface {
	Connect(ctx context.Context) error
	Close() error
}

type Sweeper interface {
	Start()
	Stop(ctx context.Context)
}

// Closer is anything holding long-lived connections that must be dropped on
// shutdown, such as the realtime hub.
type Closer interface {
	Close()
}

type ServerProcess struct {
	srv     *http.Server
	db      Connector
	sweeper Sweeper
	hub     Closer
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	serveErr chan error
}

// New builds a process around srv. sweeper and hub may be nil.
func New(srv *http.Server, db Connector, sweeper Sweeper, hub Closer, logger *zap.Logger) *ServerProcess {
	return &ServerProcess{
		srv:      srv,
		db:       db,
		sweeper:  sweeper,
		hub:      hub,
		logger:   logger,
		serveErr: make(chan error, 1),
	}
}

// Start binds srv.Addr, starts serving, then connects the database and starts
// the sweeper. A bind or connect failure is returned; the caller should treat
// both as fatal and call Stop.
func (p *ServerProcess) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", p.srv.Addr, err)
	}
	p.mu.Lock()
	p.listener = ln
	p.mu.Unlock()

	go func() {
		if err := p.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Error("server failed", zap.Error(err))
			p.serveErr <- err
		}
	}()
	p.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	if err := p.db.Connect(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if p.sweeper != nil {
		p.sweeper.Start()
	}
	return nil
}

// Addr reports the bound address, or "" before Start.
func (p *ServerProcess) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listener == nil {
		return ""
	}
	return p.listener.Addr().String()
}

// Errors delivers a serve failure after Start.
func (p *ServerProcess) Errors() <-chan error {
	return p.serveErr
}

// Stop shuts everything down in reverse order, bounded by ctx.
func (p *ServerProcess) Stop(ctx context.Context) error {
	if p.sweeper != nil {
		p.sweeper.Stop(ctx)
	}
	if p.hub != nil {
		p.hub.Close()
	}

	var errs []error
	if err := p.srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown server: %w", err))
	}
	if err := p.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
