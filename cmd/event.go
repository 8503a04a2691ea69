package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/wabridge/internal/config"
	"github.com/ziadkadry99/wabridge/pkg/bot"
	"github.com/ziadkadry99/wabridge/pkg/eventclient"
	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

var (
	eventURL    string
	eventChat   string
	eventSender string
	eventGroup  bool
	eventAdmins []string
	eventWait   time.Duration
)

var eventCmd = &cobra.Command{
	Use:   "event [text]",
	Short: "Post a synthetic message event to a running bridge",
	Long: `Sends one message event to a running bridge, as the gateway would, and
prints the actions it returns. Useful for trying handlers without a phone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := eventURL
		if url == "" {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			url = "http://" + net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)) + bot.EventPath
		}

		ev := buildEvent(strings.Join(args, " "))

		client := eventclient.New(url).WithHTTPClient(&http.Client{Timeout: eventWait})
		resp, err := client.Post(context.Background(), ev)
		if err != nil {
			return fmt.Errorf("posting event to %s: %w", client.URL(), err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

// buildEvent fills a message event from the command flags.
func buildEvent(text string) *protocol.InboundEvent {
	msgID := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:20]
	ev := &protocol.InboundEvent{
		Type:      protocol.EventTypeMessage,
		ChatID:    eventChat,
		MsgID:     msgID,
		SenderID:  eventSender,
		Text:      text,
		Timestamp: time.Now().Unix(),
		IsGroup:   strings.HasSuffix(eventChat, "@g.us") || eventGroup,
		Key: protocol.DeleteKey{
			RemoteJID: eventChat,
			ID:        msgID,
		},
	}
	if ev.IsGroup {
		participant := eventSender
		fromMe := false
		ev.Key.Participant = &participant
		ev.Key.FromMe = &fromMe
		ev.GroupAdmins = eventAdmins
	}
	return ev
}

func init() {
	eventCmd.Flags().StringVar(&eventURL, "url", "", "event endpoint URL (default from config host/port)")
	eventCmd.Flags().StringVar(&eventChat, "chat", "5511999999999@s.whatsapp.net", "chat JID")
	eventCmd.Flags().StringVar(&eventSender, "sender", "5511999999999@s.whatsapp.net", "sender JID")
	eventCmd.Flags().BoolVar(&eventGroup, "group", false, "mark the chat as a group (implied by a @g.us chat)")
	eventCmd.Flags().StringSliceVar(&eventAdmins, "admin", nil, "group admin JID (repeatable)")
	eventCmd.Flags().DurationVar(&eventWait, "timeout", 30*time.Second, "how long to wait for the bridge to answer")
	rootCmd.AddCommand(eventCmd)
}
