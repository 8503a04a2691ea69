package protocol

import "encoding/json"

// ActionType is the discriminant carried in every action's "type" field.
type ActionType string

const (
	ActionSend    ActionType = "send"
	ActionDelete  ActionType = "delete"
	ActionKick    ActionType = "kick"
	ActionAdd     ActionType = "add"
	ActionPromote ActionType = "promote"
	ActionDemote  ActionType = "demote"
)

// IsGroupUpdate reports whether t is one of the membership changes that
// share the {chat_id, user_id} shape.
func (t ActionType) IsGroupUpdate() bool {
	switch t {
	case ActionKick, ActionAdd, ActionPromote, ActionDemote:
		return true
	}
	return false
}

// Valid reports whether t is a known discriminant.
func (t ActionType) Valid() bool {
	return t == ActionSend || t == ActionDelete || t.IsGroupUpdate()
}

// Action is one instruction for the gateway to execute. The set of
// implementations is closed: SendAction, DeleteAction and GroupAction.
type Action interface {
	Type() ActionType
	// Validate checks the action's fields. Paths in the returned
	// ValidationErrors are relative to the action object.
	Validate() error
	isAction()
}

// SendAction sends a text message to a chat.
type SendAction struct {
	To       string
	Text     string
	Mentions []string
}

// DeleteAction deletes the message identified by Key.
type DeleteAction struct {
	Key DeleteKey
}

// GroupAction changes a user's membership in a group chat. Kind is one of
// kick, add, promote or demote.
type GroupAction struct {
	Kind   ActionType
	ChatID string
	UserID string
}

func (SendAction) Type() ActionType    { return ActionSend }
func (DeleteAction) Type() ActionType  { return ActionDelete }
func (a GroupAction) Type() ActionType { return a.Kind }

func (SendAction) isAction()   {}
func (DeleteAction) isAction() {}
func (GroupAction) isAction()  {}

// NewSend builds a send action. Mentions default to an empty list.
func NewSend(to, text string, mentions ...string) SendAction {
	if mentions == nil {
		mentions = []string{}
	}
	return SendAction{To: to, Text: text, Mentions: mentions}
}

// NewDelete builds a delete action for the message identified by key.
func NewDelete(key DeleteKey) DeleteAction {
	return DeleteAction{Key: key}
}

// NewGroupAction builds a membership change of the given kind.
func NewGroupAction(kind ActionType, chatID, userID string) GroupAction {
	return GroupAction{Kind: kind, ChatID: chatID, UserID: userID}
}

func (a SendAction) Validate() error {
	var errs ValidationErrors
	errs = requireString(errs, "to", a.To)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (a DeleteAction) Validate() error {
	var errs ValidationErrors
	errs = requireString(errs, "key.remoteJid", a.Key.RemoteJID)
	errs = requireString(errs, "key.id", a.Key.ID)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (a GroupAction) Validate() error {
	var errs ValidationErrors
	if !a.Kind.IsGroupUpdate() {
		errs = append(errs, unknownType(a.Kind, "type"))
	}
	errs = requireString(errs, "chat_id", a.ChatID)
	errs = requireString(errs, "user_id", a.UserID)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (a SendAction) MarshalJSON() ([]byte, error) {
	mentions := a.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	return json.Marshal(struct {
		Type     ActionType `json:"type"`
		To       string     `json:"to"`
		Text     string     `json:"text"`
		Mentions []string   `json:"mentions"`
	}{ActionSend, a.To, a.Text, mentions})
}

func (a DeleteAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type ActionType `json:"type"`
		Key  DeleteKey  `json:"key"`
	}{ActionDelete, a.Key})
}

func (a GroupAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   ActionType `json:"type"`
		ChatID string     `json:"chat_id"`
		UserID string     `json:"user_id"`
	}{a.Kind, a.ChatID, a.UserID})
}

// UnmarshalJSON decodes and validates a response body.
func (r *Response) UnmarshalJSON(data []byte) error {
	resp, err := DecodeResponse(data)
	if err != nil {
		return err
	}
	*r = *resp
	return nil
}

func requireString(errs ValidationErrors, path, v string) ValidationErrors {
	if v == "" {
		return append(errs, &ValidationError{Path: path, Reason: "field required"})
	}
	return errs
}
