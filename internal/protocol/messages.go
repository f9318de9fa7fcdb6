// Package protocol defines the JSON wire messages exchanged with clients.
// Optional fields are pointer-typed: nil means the client did not report
// the field, which is distinct from reporting zero.
package protocol

// Inbound message types (the "type" discriminant).
const (
	MsgTypeRegister = "register"
	MsgTypeUpdate   = "update"
)

// Outbound actions (the "action" discriminant).
const (
	ActionRegistered   = "registered"
	ActionNameConflict = "name_conflict"
	ActionCorrection   = "correction"
	ActionOffline      = "offline"
)

// Outbound reason codes.
const (
	ReasonInvalidMovement = "invalid_movement"
	ReasonInactivity      = "inactivity"
)

// Register is the client's session-establishment request. PlayerID is set
// when the client resumes a previously issued identity.
type Register struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	PlayerID string `json:"player_id,omitempty"`
}

// Update is a periodic client state report. Absent fields leave the
// server-side value untouched.
type Update struct {
	Type     string   `json:"type"`
	PlayerID string   `json:"player_id"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Z        *float64 `json:"z,omitempty"`
	RX       *float64 `json:"rx,omitempty"`
	RY       *float64 `json:"ry,omitempty"`
	RZ       *float64 `json:"rz,omitempty"`
	VX       *float64 `json:"vx,omitempty"`
	VY       *float64 `json:"vy,omitempty"`
	VZ       *float64 `json:"vz,omitempty"`
	TS       *int64   `json:"ts,omitempty"`
	Action   *string  `json:"action,omitempty"`
}

// PlayerState is the outbound projection of one player's state.
type PlayerState struct {
	ID       string   `json:"id"`
	Username string   `json:"username,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Z        *float64 `json:"z,omitempty"`
	RX       *float64 `json:"rx,omitempty"`
	RY       *float64 `json:"ry,omitempty"`
	RZ       *float64 `json:"rz,omitempty"`
	VX       *float64 `json:"vx,omitempty"`
	VY       *float64 `json:"vy,omitempty"`
	VZ       *float64 `json:"vz,omitempty"`
	TS       *int64   `json:"ts,omitempty"`
	Action   *string  `json:"action,omitempty"`
}

// RegisterReply answers a register message. Sent only to the sender.
type RegisterReply struct {
	Action    string       `json:"action"` // "registered" or "name_conflict"
	PlayerID  string       `json:"player_id,omitempty"`
	Username  string       `json:"username,omitempty"`
	State     *PlayerState `json:"state,omitempty"`
	Resumed   bool         `json:"resumed,omitempty"`
	FromStore bool         `json:"from_store,omitempty"`
	Suggested string       `json:"suggested,omitempty"`
}

// Correction overrides an implausible client-reported position. Sent only
// to the offending sender.
type Correction struct {
	Action    string      `json:"action"` // "correction"
	Reason    string      `json:"reason"` // "invalid_movement"
	Corrected PlayerState `json:"corrected"`
}

// OfflineNotice tells a reaped client its session went offline.
type OfflineNotice struct {
	Action   string `json:"action"` // "offline"
	Reason   string `json:"reason"` // "inactivity"
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

// World is the full snapshot broadcast to every online client.
type World struct {
	Players map[string]PlayerState `json:"players"`
}
