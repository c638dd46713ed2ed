package websocket

import "github.com/stemsi/profile-directory/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action sent by the client.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError           Event = "error"
	EventReady           Event = "ready"
	EventProfilesChanged Event = "profiles_changed"
	EventPong            Event = "pong"
)

// ReadyResponse is sent once the subscription is active.
type ReadyResponse struct {
	Event Event `json:"event"`
}

// ProfilesChangedResponse tells the admin UI to re-request the list.
type ProfilesChangedResponse struct {
	Event  Event              `json:"event"`
	Action model.ChangeAction `json:"action"`
	ID     model.ProfileID    `json:"id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
