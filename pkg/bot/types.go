package bot

import (
	"context"
	"strings"

	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

// Handler processes one message and returns the actions the gateway
// should execute. Returning nil contributes nothing; nil entries in the
// returned slice are dropped. A non-nil error aborts the whole dispatch.
type Handler func(ctx context.Context, msg *Message, c *Client) ([]protocol.Action, error)

// Message is the handler-facing view of an inbound event.
type Message struct {
	ChatID      string
	MsgID       string
	SenderID    string
	Text        string
	Timestamp   int64
	IsGroup     bool
	GroupAdmins []string
	Key         protocol.DeleteKey
}

// NewMessage builds the handler view of ev.
func NewMessage(ev *protocol.InboundEvent) *Message {
	return &Message{
		ChatID:      ev.ChatID,
		MsgID:       ev.MsgID,
		SenderID:    ev.SenderID,
		Text:        ev.Text,
		Timestamp:   ev.Timestamp,
		IsGroup:     ev.IsGroup,
		GroupAdmins: ev.GroupAdmins,
		Key:         ev.Key,
	}
}

// SenderNum returns the part of SenderID before the first "@".
func (m *Message) SenderNum() string {
	num, _, _ := strings.Cut(m.SenderID, "@")
	return num
}
