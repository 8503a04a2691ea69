package bot

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ziadkadry99/wabridge/pkg/protocol"
)

// errorResponse is the body of every non-200 reply.
type errorResponse struct {
	Error  string                    `json:"error"`
	Detail protocol.ValidationErrors `json:"detail,omitempty"`
}

// HandleEvent handles POST /event. An invalid body gets 422 with the
// offending fields; any dispatch failure gets 500 and no actions.
func (c *Client) HandleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
		return
	}

	ev, err := protocol.DecodeEvent(body)
	if err != nil {
		detail, _ := protocol.AsValidation(err)
		c.logger.Debug("rejected event", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid event", Detail: detail})
		return
	}

	actions, err := c.Dispatch(r.Context(), ev)
	if err != nil {
		c.logger.Error("dispatch failed",
			"chat_id", ev.ChatID,
			"msg_id", ev.MsgID,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "dispatch failed"})
		return
	}

	c.logger.Debug("dispatched event", "chat_id", ev.ChatID, "msg_id", ev.MsgID, "actions", len(actions))
	writeJSON(w, http.StatusOK, protocol.NewResponse(actions))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
