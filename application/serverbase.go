package application

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ShutdownTimeout bounds how long Shutdown waits for in-flight
// requests to finish.
const ShutdownTimeout = 5 * time.Second

// A ServerAddress describes a server's connection.
// It supports two types of connections: a TCP connection ("tcp")
// and a Unix socket connection ("unix").
//
// TCP connections are served over TLS when both a certificate and a
// private key are given, and as plain HTTP otherwise.
type ServerAddress struct {
	// Address is formatted as a url: scheme://address.
	Address string `toml:"address" yaml:"address"`
	// TLSCertPath is a path to the server's TLS Certificate.
	TLSCertPath string `toml:"cert,omitempty" yaml:"cert,omitempty"`
	// TLSKeyPath is a path to the server's TLS private key.
	TLSKeyPath string `toml:"key,omitempty" yaml:"key,omitempty"`
}

// A ServerBase represents the base features needed to implement
// a veriAI server.
// It serves an http.Handler on any number of addresses and runs
// the server's background tasks until it is shut down.
type ServerBase struct {
	Verb string

	logger *Logger

	// tasks serializes the background tasks (periodic jobs and
	// configuration reloads).
	tasks sync.Mutex

	mu      sync.Mutex
	servers []*http.Server
	addrs   []net.Addr

	stop     chan struct{}
	waitStop sync.WaitGroup

	configFilePath string
	configEncoding string
	reloadChan     chan os.Signal
}

// NewServerBase creates a new generic veriAI server base.
func NewServerBase(conf *CommonConfig, listenVerb string) (*ServerBase, error) {
	if conf.Logger == nil {
		return nil, errors.New("missing logger configuration")
	}
	logger, err := NewLogger(conf.Logger)
	if err != nil {
		return nil, err
	}
	sb := new(ServerBase)
	sb.Verb = listenVerb
	sb.logger = logger
	sb.stop = make(chan struct{})
	sb.configFilePath = conf.Path
	sb.configEncoding = conf.Encoding
	sb.reloadChan = make(chan os.Signal, 1)
	signal.Notify(sb.reloadChan, syscall.SIGUSR2)
	return sb, nil
}

// ListenAndServe listens at the given server address and serves
// handler there until the server base is shut down.
func (sb *ServerBase) ListenAndServe(addr *ServerAddress, handler http.Handler) error {
	ln, err := addr.resolveAndListen()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	sb.mu.Lock()
	sb.servers = append(sb.servers, srv)
	sb.addrs = append(sb.addrs, ln.Addr())
	sb.mu.Unlock()

	sb.waitStop.Add(1)
	go func() {
		defer sb.waitStop.Done()
		sb.logger.Info(sb.Verb, "address", addr.Address)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sb.logger.Error(err.Error(), "address", addr.Address)
		}
	}()
	return nil
}

func (addr *ServerAddress) resolveAndListen() (net.Listener, error) {
	u, err := url.Parse(addr.Address)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "tcp":
		ln, err := net.Listen(u.Scheme, u.Host)
		if err != nil {
			return nil, err
		}
		if addr.TLSCertPath == "" && addr.TLSKeyPath == "" {
			return ln, nil
		}
		cer, err := tls.LoadX509KeyPair(addr.TLSCertPath, addr.TLSKeyPath)
		if err != nil {
			ln.Close()
			return nil, err
		}
		return tls.NewListener(ln, &tls.Config{Certificates: []tls.Certificate{cer}}), nil
	case "unix":
		return net.Listen(u.Scheme, u.Path)
	default:
		return nil, fmt.Errorf("Unknown network type %q", u.Scheme)
	}
}

// Addrs returns the addresses the server base listens on.
func (sb *ServerBase) Addrs() []net.Addr {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return append([]net.Addr(nil), sb.addrs...)
}

// RunInBackground creates a new goroutine that calls function `f`.
// It automatically increments the counter `sync.WaitGroup` of the
// `ServerBase` and calls `Done` when the function execution is finished.
func (sb *ServerBase) RunInBackground(f func()) {
	sb.waitStop.Add(1)
	go func() {
		f()
		sb.waitStop.Done()
	}()
}

// Periodic runs function `f` every interval until the server base
// is shut down.
func (sb *ServerBase) Periodic(interval time.Duration, f func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-sb.stop:
			return
		case <-ticker.C:
			sb.tasks.Lock()
			f()
			sb.tasks.Unlock()
		}
	}
}

// HotReload implements hot-reloading by listening for SIGUSR2 signal.
func (sb *ServerBase) HotReload(f func()) {
	for {
		select {
		case <-sb.stop:
			return
		case <-sb.reloadChan:
			sb.tasks.Lock()
			f()
			sb.tasks.Unlock()
		}
	}
}

// Stopped returns a channel that is closed when Shutdown is called.
func (sb *ServerBase) Stopped() <-chan struct{} {
	return sb.stop
}

// Logger returns the server base's logger instance.
func (sb *ServerBase) Logger() *Logger {
	return sb.logger
}

// ConfigInfo returns the server base's config file path and encoding.
func (sb *ServerBase) ConfigInfo() (string, string) {
	return sb.configFilePath, sb.configEncoding
}

// Shutdown stops accepting connections, waits for in-flight requests
// and background tasks to finish, and shuts down the server.
func (sb *ServerBase) Shutdown() error {
	close(sb.stop)
	signal.Stop(sb.reloadChan)

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	sb.mu.Lock()
	servers := sb.servers
	sb.mu.Unlock()
	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	sb.waitStop.Wait()
	sb.logger.Sync()
	return errors.Join(errs...)
}
