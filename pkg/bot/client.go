// Package bot connects user message handlers to the messaging gateway. A
// Client receives inbound events on POST /event, runs the registered
// handlers in order, and answers with the actions they produced.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/ziadkadry99/wabridge/internal/launcher"
	"github.com/ziadkadry99/wabridge/internal/server"
	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

// GatewayURLEnv is the environment variable through which the spawned
// gateway learns where to post events.
const GatewayURLEnv = "PY_URL"

// Defaults used by DefaultConfig and for zero fields passed to New.
const (
	DefaultHost       = "127.0.0.1"
	DefaultPort       = 8000
	DefaultPrefix     = "!"
	DefaultGatewayDir = "./gateway"
)

// DefaultGatewayCmd is the command that starts the gateway.
var DefaultGatewayCmd = []string{"npm", "start"}

// Config is fixed for the lifetime of a Client.
type Config struct {
	Host             string
	Port             int
	Prefix           string // command prefix for handlers; unused by dispatch
	GatewayDir       string
	AutoStartGateway bool
	GatewayCmd       []string
	CORSAllowAll     bool // accept browser requests from any origin
}

// DefaultConfig returns the stock configuration, with gateway auto start on.
func DefaultConfig() Config {
	return Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		Prefix:           DefaultPrefix,
		GatewayDir:       DefaultGatewayDir,
		AutoStartGateway: true,
		GatewayCmd:       append([]string(nil), DefaultGatewayCmd...),
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used by the client, its HTTP server and the
// gateway launcher.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client is the bridge between the gateway and registered handlers.
type Client struct {
	cfg        Config
	logger     *slog.Logger
	dispatcher *Dispatcher
	server     *server.Server
	launcher   *launcher.Launcher
}

// New creates a Client. Empty Host, zero Port, empty GatewayDir and empty
// GatewayCmd take their defaults; AutoStartGateway is used as given.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.GatewayDir == "" {
		cfg.GatewayDir = DefaultGatewayDir
	}
	if len(cfg.GatewayCmd) == 0 {
		cfg.GatewayCmd = append([]string(nil), DefaultGatewayCmd...)
	}

	c := &Client{
		cfg:        cfg,
		logger:     slog.Default(),
		dispatcher: NewDispatcher(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.server = server.New(server.Config{Host: cfg.Host, Port: cfg.Port, AllowAll: cfg.CORSAllowAll}, c.logger)
	RegisterRoutes(c.server.Router(), c)

	c.launcher = launcher.New(launcher.Config{
		Dir:     cfg.GatewayDir,
		Command: cfg.GatewayCmd,
		Env:     []string{GatewayURLEnv + "=" + c.EventURL()},
	}, c.logger)
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() Config { return c.cfg }

// Prefix returns the configured command prefix.
func (c *Client) Prefix() string { return c.cfg.Prefix }

// EventURL is the absolute URL of the event endpoint handed to the gateway.
func (c *Client) EventURL() string {
	return "http://" + net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port)) + EventPath
}

// Handler returns the HTTP handler serving the event endpoint.
func (c *Client) Handler() http.Handler { return c.server.Router() }

// OnMessage registers h and returns it unchanged. Register all handlers
// before calling Run or Serve.
func (c *Client) OnMessage(h Handler) Handler {
	return c.dispatcher.Register(h)
}

// Dispatch runs the registered handlers for ev and returns their actions.
func (c *Client) Dispatch(ctx context.Context, ev *protocol.InboundEvent) ([]protocol.Action, error) {
	return c.dispatcher.Dispatch(ctx, NewMessage(ev), c)
}

// SendText builds a send action. No message is sent until the gateway
// executes the response.
func (c *Client) SendText(chatID, text string, mentions ...string) protocol.SendAction {
	return protocol.NewSend(chatID, text, mentions...)
}

// Delete builds a delete action for the message identified by key.
func (c *Client) Delete(key protocol.DeleteKey) protocol.DeleteAction {
	return protocol.NewDelete(key)
}

// Kick builds an action removing userID from chatID.
func (c *Client) Kick(chatID, userID string) protocol.GroupAction {
	return protocol.NewGroupAction(protocol.ActionKick, chatID, userID)
}

// Add builds an action adding userID to chatID.
func (c *Client) Add(chatID, userID string) protocol.GroupAction {
	return protocol.NewGroupAction(protocol.ActionAdd, chatID, userID)
}

// Promote builds an action making userID an admin of chatID.
func (c *Client) Promote(chatID, userID string) protocol.GroupAction {
	return protocol.NewGroupAction(protocol.ActionPromote, chatID, userID)
}

// Demote builds an action revoking userID's admin rights in chatID.
func (c *Client) Demote(chatID, userID string) protocol.GroupAction {
	return protocol.NewGroupAction(protocol.ActionDemote, chatID, userID)
}

// String identifies the client in logs.
func (c *Client) String() string {
	return fmt.Sprintf("bot.Client(%s, %d handlers)", c.EventURL(), c.dispatcher.Len())
}
