// Package examplebot is the sample command set served by `wabridge run`.
package examplebot

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/wabridge/pkg/bot"
	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

// userDomain is appended to bare phone numbers given as command arguments.
const userDomain = "@s.whatsapp.net"

// command is one prefixed command. Commands taking arguments only match
// when text follows the name after a space; the others only match bare.
type command struct {
	withArgs  bool
	groupOnly bool
	run       func(msg *bot.Message, c *bot.Client, args string) []protocol.Action
}

// Bot dispatches prefixed commands to their implementations.
type Bot struct {
	prefix   string
	commands map[string]command
}

// New creates a Bot answering commands that start with prefix.
func New(prefix string) *Bot {
	b := &Bot{prefix: prefix, commands: make(map[string]command)}
	b.registerDefaults()
	return b
}

// Register adds the example bot as a handler on c, using c's prefix.
func Register(c *bot.Client) *Bot {
	b := New(c.Prefix())
	c.OnMessage(b.Handle)
	return b
}

// Commands returns the registered command names.
func (b *Bot) Commands() []string {
	names := make([]string, 0, len(b.commands))
	for name := range b.commands {
		names = append(names, name)
	}
	return names
}

// Handle is a bot.Handler. Text that is not a known command yields no actions.
func (b *Bot) Handle(_ context.Context, msg *bot.Message, c *bot.Client) ([]protocol.Action, error) {
	text := strings.TrimSpace(msg.Text)
	if b.prefix == "" || !strings.HasPrefix(text, b.prefix) {
		return nil, nil
	}

	name, args, hasArgs := strings.Cut(text[len(b.prefix):], " ")
	cmd, ok := b.commands[name]
	if !ok || cmd.withArgs != hasArgs {
		return nil, nil
	}
	if cmd.groupOnly && !msg.IsGroup {
		return nil, nil
	}
	return cmd.run(msg, c, args), nil
}

func (b *Bot) registerDefaults() {
	b.commands["ping"] = command{run: func(msg *bot.Message, c *bot.Client, _ string) []protocol.Action {
		return []protocol.Action{c.SendText(msg.ChatID, "pong ✅")}
	}}

	b.commands["say"] = command{withArgs: true, run: func(msg *bot.Message, c *bot.Client, args string) []protocol.Action {
		return []protocol.Action{c.SendText(msg.ChatID, args)}
	}}

	b.commands["id"] = command{run: func(msg *bot.Message, c *bot.Client, _ string) []protocol.Action {
		return []protocol.Action{c.SendText(msg.ChatID, fmt.Sprintf("chat_id: %s", msg.ChatID))}
	}}

	b.commands["del"] = command{run: func(msg *bot.Message, c *bot.Client, _ string) []protocol.Action {
		return []protocol.Action{c.Delete(msg.Key)}
	}}

	// Membership changes only work when the bot account is a group admin.
	membership := []struct {
		name  string
		label string
		build func(c *bot.Client, chatID, userID string) protocol.GroupAction
	}{
		{"kick", "👢 kick", (*bot.Client).Kick},
		{"add", "➕ add", (*bot.Client).Add},
		{"promote", "⬆️ promote", (*bot.Client).Promote},
		{"demote", "⬇️ demote", (*bot.Client).Demote},
	}
	for _, m := range membership {
		m := m
		b.commands[m.name] = command{withArgs: true, groupOnly: true, run: func(msg *bot.Message, c *bot.Client, args string) []protocol.Action {
			user := strings.TrimSpace(args)
			if user == "" {
				return nil
			}
			return []protocol.Action{
				c.SendText(msg.ChatID, fmt.Sprintf("%s: %s", m.label, user)),
				m.build(c, msg.ChatID, userJID(user)),
			}
		}}
	}
}

// userJID turns a bare number into a user JID; anything containing "@"
// is returned unchanged.
func userJID(user string) string {
	if strings.Contains(user, "@") {
		return user
	}
	return user + userDomain
}
