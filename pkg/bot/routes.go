package bot

import "github.com/go-chi/chi/v5"

// EventPath is the only route the bridge serves.
const EventPath = "/event"

// RegisterRoutes mounts the event endpoint on the given router.
func RegisterRoutes(r chi.Router, c *Client) {
	r.Post(EventPath, c.HandleEvent)
}
