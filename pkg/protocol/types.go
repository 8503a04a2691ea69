// Package protocol defines the JSON contract between the messaging gateway
// and the bridge: inbound message events, outbound actions, and the response
// envelope that carries them back.
package protocol

// EventTypeMessage is the only event discriminant the gateway sends.
const EventTypeMessage = "message"

// DeleteKey identifies one message instance so the gateway can delete it.
// It is received with every event and passed back untouched in delete actions.
type DeleteKey struct {
	RemoteJID   string  `json:"remoteJid"`
	ID          string  `json:"id"`
	Participant *string `json:"participant,omitempty"`
	FromMe      *bool   `json:"fromMe,omitempty"`
}

// InboundEvent is one message notification posted by the gateway.
type InboundEvent struct {
	Type        string    `json:"type"`
	ChatID      string    `json:"chat_id"`
	MsgID       string    `json:"msg_id"`
	SenderID    string    `json:"sender_id"`
	Text        string    `json:"text"`
	Timestamp   int64     `json:"timestamp"`
	IsGroup     bool      `json:"is_group"`
	GroupAdmins []string  `json:"group_admins,omitempty"`
	Key         DeleteKey `json:"key"`
}

// Response is the envelope returned to the gateway. Actions keep the order
// in which handlers produced them.
type Response struct {
	Actions []Action `json:"actions"`
}

// NewResponse wraps actions in a Response. A nil slice is encoded as [].
func NewResponse(actions []Action) Response {
	if actions == nil {
		actions = []Action{}
	}
	return Response{Actions: actions}
}
