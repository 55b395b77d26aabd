package config

import "github.com/automoto/ballguys-mp/shared/netconfig"

// Type aliases so callers can use config.MatchPhase without importing netconfig.
type MatchPhase = netconfig.MatchPhase

// Re-export match phase constants.
const (
	PhaseWaitingForPlayers = netconfig.PhaseWaitingForPlayers
	PhaseCountdown         = netconfig.PhaseCountdown
	PhasePlaying           = netconfig.PhasePlaying
	PhaseGameOver          = netconfig.PhaseGameOver
)
