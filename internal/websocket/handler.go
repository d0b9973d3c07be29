package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SnapshotFunc returns the serialized current state of a session.
type SnapshotFunc func() ([]byte, error)

// ServeWs attaches a connection to sessionID and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID uuid.UUID, snapshot SnapshotFunc) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 256)}
	if err := attach(hub, client, snapshot); err != nil {
		hub.logger.Warn("Hub", "Failed to attach client", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		c.Close()
		return
	}

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}

// attach registers client before reading the snapshot, so a change is either
// already in the snapshot or delivered after it. Frames around the snapshot
// may arrive out of order; watchers keep the highest version.
func attach(hub *Hub, client *Client, snapshot SnapshotFunc) error {
	if !hub.registerClient(client) {
		return errHubStopped
	}

	initial, err := snapshot()
	if err != nil {
		hub.unregisterClient(client)
		return err
	}
	if !hub.deliverTo(client, initial) {
		return errClientDropped
	}
	return nil
}
