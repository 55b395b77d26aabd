package messages

import (
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

// PhaseChangedEvent is broadcast when the match phase changes
type PhaseChangedEvent struct {
	From          netconfig.MatchPhase
	To            netconfig.MatchPhase
	TimeRemaining float64
}

// SpawnEvent is broadcast when a participant's avatar is (re)created
type SpawnEvent struct {
	ParticipantID netconfig.ParticipantID
	X, Y, Z       float64
	Yaw           float64
}

// LifeLostEvent is broadcast when a participant falls below the kill height
type LifeLostEvent struct {
	ParticipantID  netconfig.ParticipantID
	LivesRemaining int
}

// EliminatedEvent is broadcast when a participant has no lives left
type EliminatedEvent struct {
	ParticipantID netconfig.ParticipantID
}

// KnockbackEvent is sent when one avatar shoves another
type KnockbackEvent struct {
	AttackerID netconfig.ParticipantID
	TargetID   netconfig.ParticipantID
	HitX, HitY float64
	HitZ       float64
	Impulse    float64
	Boosted    bool
}

// BoostEvent is sent when a participant's boost starts or expires
type BoostEvent struct {
	ParticipantID netconfig.ParticipantID
	Active        bool
}
