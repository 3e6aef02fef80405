package service

// Event types pushed to presentation clients.
const (
	EventStateChanged   = "state_changed"
	EventTurnStarted    = "turn_started"
	EventActionRejected = "action_rejected"
	EventGameEnded      = "game_ended"
	EventMintResolved   = "mint_resolved"
)

// Broadcaster sends real-time events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastGameEvent(sessionID string, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastGameEvent(string, string, any) {}
