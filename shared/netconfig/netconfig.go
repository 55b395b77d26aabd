// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on the ECS or the
// physics backend so both binaries can import it freely.
package netconfig

// MatchPhase is the server-owned lifecycle phase of the match.
type MatchPhase int

const (
	PhaseWaitingForPlayers MatchPhase = iota // Lobby: waiting for enough ready players
	PhaseCountdown                           // Pre-match countdown
	PhasePlaying                             // Active round
	PhaseGameOver                            // Round finished; terminal for this match
)

var phaseNames = map[MatchPhase]string{
	PhaseWaitingForPlayers: "WaitingForPlayers",
	PhaseCountdown:         "Countdown",
	PhasePlaying:           "Playing",
	PhaseGameOver:          "GameOver",
}

func (p MatchPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParticipantID identifies a connected participant for the lifetime of its
// session.
type ParticipantID string

// ActionID represents a logical intent a session can submit.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMove
	ActionJump
	ActionBoost
	ActionSetReady
	ActionToggleReady
	ActionCount // Must be last - used for array sizing
)
