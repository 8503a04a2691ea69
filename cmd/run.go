package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/wabridge/internal/examplebot"
	"github.com/ziadkadry99/wabridge/pkg/bot"
)

var (
	runPort      int
	runNoGateway bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway and serve the example bot",
	Long: `Spawns the configured gateway command (unless disabled) with PY_URL
pointing at this bridge, then serves POST /event with the example bot's
commands until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = runPort
		}
		if runNoGateway {
			cfg.AutoStartGateway = false
		}

		logger := newLogger(cfg)
		client := bot.New(cfg.BotConfig(), bot.WithLogger(logger))
		b := examplebot.Register(client)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("wabridge starting",
			"version", Version,
			"event_url", client.EventURL(),
			"auto_start_gateway", cfg.AutoStartGateway,
			"gateway_dir", cfg.GatewayDir,
			"gateway_cmd", cfg.GatewayCmd,
			"prefix", cfg.Prefix,
			"commands", len(b.Commands()),
		)

		return client.Run(ctx)
	},
}

func init() {
	runCmd.Flags().IntVar(&runPort, "port", bot.DefaultPort, "port to listen on (overrides config)")
	runCmd.Flags().BoolVar(&runNoGateway, "no-gateway", false, "do not spawn the gateway process")
	rootCmd.AddCommand(runCmd)
}
