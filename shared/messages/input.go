package messages

// MoveIntent carries the latest sampled movement axes. Forward and Right are
// in [-1, 1] and expressed in the sender's camera yaw space; Yaw is the
// sender's look yaw in degrees.
type MoveIntent struct {
	Sequence uint32 // Incrementing ID for reconciliation
	Forward  float64
	Right    float64
	Yaw      float64
}

// JumpIntent asks the server to jump once if the avatar is grounded.
type JumpIntent struct {
	Sequence uint32
}

// BoostIntent asks the server to start a boost if it is off cooldown.
type BoostIntent struct {
	Sequence uint32
}

// SetReadyIntent requests the sender's readiness flag be set. The server is
// the only writer of the authoritative value.
type SetReadyIntent struct {
	Ready bool
}

// ToggleReadyIntent requests the sender's readiness flag be flipped.
type ToggleReadyIntent struct{}
