package bot

import (
	"context"
	"net"
	"time"
)

// shutdownTimeout bounds graceful HTTP shutdown and gateway stop.
const shutdownTimeout = 10 * time.Second

// StartGateway spawns the configured gateway command in GatewayDir with
// PY_URL set to EventURL. It does nothing when auto start is disabled or
// a process it spawned earlier is still running.
func (c *Client) StartGateway() error {
	if !c.cfg.AutoStartGateway {
		return nil
	}
	return c.launcher.Start()
}

// StopGateway stops a gateway process spawned by StartGateway, if any.
func (c *Client) StopGateway(ctx context.Context) error {
	return c.launcher.Stop(ctx)
}

// GatewayRunning reports whether a spawned gateway process is alive.
func (c *Client) GatewayRunning() bool {
	return c.launcher.Running()
}

// Run starts the gateway and then serves the event endpoint on the
// configured host and port until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	if err := c.StartGateway(); err != nil {
		return err
	}

	ln, err := c.server.Listen()
	if err != nil {
		c.stopGateway()
		return err
	}
	return c.Serve(ctx, ln)
}

// Serve serves the event endpoint on ln until ctx is cancelled, then
// shuts the server down and stops any spawned gateway. It does not start
// the gateway.
func (c *Client) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() { errc <- c.server.Serve(ln) }()

	select {
	case err := <-errc:
		c.stopGateway()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.server.Shutdown(shutdownCtx); err != nil {
		c.logger.Warn("http shutdown", "error", err)
	}
	c.stopGateway()
	return <-errc
}

func (c *Client) stopGateway() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.launcher.Stop(ctx); err != nil {
		c.logger.Warn("stopping gateway", "error", err)
	}
}
