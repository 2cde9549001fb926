// Package nats runs the embedded JetStream broker completed registrations
// are published to.
package nats

import (
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	readyTimeout    = 4 * time.Second
	drainTimeout    = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Broker is an embedded NATS server with an in-process client connection.
type Broker struct {
	Server *server.Server
	Conn   *nats.Conn
	JS     jetstream.JetStream
}

// Start launches an embedded server with JetStream file storage in
// storeDir and connects to it in-process. No network ports are opened.
func Start(storeDir string) (*Broker, error) {
	ns, err := startServer(storeDir)
	if err != nil {
		return nil, err
	}

	logger.Debug("Connecting to NATS server in-process")
	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		_ = shutdown(nc, ns)
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	return &Broker{Server: ns, Conn: nc, JS: js}, nil
}

func startServer(storeDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server with store dir: %s", storeDir)

	ns, err := server.NewServer(&server.Options{
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create nats server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		logger.Error("NATS server failed to start within %s", readyTimeout)
		return nil, errors.New("nats server failed to start within timeout")
	}
	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// Close drains the connection and shuts the server down.
func (b *Broker) Close() error {
	if b == nil {
		return nil
	}
	return shutdown(b.Conn, b.Server)
}

func shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drained := make(chan error, 1)
		go func() {
			drained <- nc.Drain()
		}()

		select {
		case err := <-drained:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(drainTimeout):
			logger.Warn("NATS drain timed out after %s, forcing close", drainTimeout)
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		done := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			logger.Error("NATS server shutdown timed out after %s", shutdownTimeout)
			return errors.New("nats server shutdown timed out")
		}
	}

	logger.Debug("NATS shutdown complete")
	return nil
}
