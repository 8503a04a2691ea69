package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

func TestBuildEventIsValid(t *testing.T) {
	eventChat = "123@g.us"
	eventSender = "555@s.whatsapp.net"
	eventAdmins = []string{"555@s.whatsapp.net"}
	t.Cleanup(func() {
		eventChat, eventSender, eventAdmins = "", "", nil
	})

	ev := buildEvent("!ping")
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	decoded, err := protocol.DecodeEvent(data)
	require.NoError(t, err)
	assert.True(t, decoded.IsGroup)
	assert.Equal(t, "!ping", decoded.Text)
	assert.Equal(t, decoded.MsgID, decoded.Key.ID)
	assert.Len(t, decoded.MsgID, 20)
	require.NotNil(t, decoded.Key.Participant)
	assert.Equal(t, "555@s.whatsapp.net", *decoded.Key.Participant)
	assert.Equal(t, []string{"555@s.whatsapp.net"}, decoded.GroupAdmins)
}
