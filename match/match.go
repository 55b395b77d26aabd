// Package match implements the match lifecycle as a pure state machine.
// Advance computes the next state and returns the side effects the caller
// must execute; it never touches participants or avatars itself.
package match

import (
	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

// State is the server-owned match state.
type State struct {
	Phase         netconfig.MatchPhase
	TimeRemaining float64

	// CountdownActive is set while a countdown started from the lobby is
	// running and cleared when it completes or is cancelled.
	CountdownActive bool
}

// Roster is the participant snapshot Advance reads.
type Roster struct {
	Connected int
	Ready     int
}

// Rules holds the lifecycle thresholds and durations.
type Rules struct {
	MinPlayersToStart   int
	ReadyToStart        int
	LargeLobbyThreshold int
	CountdownShort      float64
	CountdownLong       float64
	GameDuration        float64
}

// RulesFromConfig copies the match section of the configuration.
func RulesFromConfig(c config.MatchConfig) Rules {
	return Rules{
		MinPlayersToStart:   c.MinPlayersToStart,
		ReadyToStart:        c.ReadyToStart,
		LargeLobbyThreshold: c.LargeLobbyThreshold,
		CountdownShort:      c.CountdownShort,
		CountdownLong:       c.CountdownLong,
		GameDuration:        c.GameDuration,
	}
}

// NewState returns the state a server starts in.
func NewState() State {
	return State{Phase: netconfig.PhaseWaitingForPlayers}
}

// Effect is a side effect requested by Advance.
type Effect interface {
	isEffect()
}

// PhaseChanged reports a transition. It is always the first effect of the
// tick it happens on.
type PhaseChanged struct {
	From, To netconfig.MatchPhase
}

// CountdownCancelled reports that a pending countdown was dropped because too
// few participants remained.
type CountdownCancelled struct{}

// ResetLives asks the caller to restore every participant's lives.
type ResetLives struct{}

// RespawnAll asks the caller to respawn every connected participant.
type RespawnAll struct{}

func (PhaseChanged) isEffect()       {}
func (CountdownCancelled) isEffect() {}
func (ResetLives) isEffect()         {}
func (RespawnAll) isEffect()         {}

// Advance moves the match forward by dt seconds.
func Advance(s State, dt float64, roster Roster, rules Rules) (State, []Effect) {
	if dt < 0 {
		dt = 0
	}

	switch s.Phase {
	case netconfig.PhaseWaitingForPlayers:
		return advanceWaiting(s, roster, rules)

	case netconfig.PhaseCountdown:
		s.TimeRemaining -= dt
		if s.TimeRemaining > 0 {
			return s, nil
		}
		s.Phase = netconfig.PhasePlaying
		s.TimeRemaining = rules.GameDuration
		s.CountdownActive = false
		return s, []Effect{
			PhaseChanged{From: netconfig.PhaseCountdown, To: netconfig.PhasePlaying},
			ResetLives{},
			RespawnAll{},
		}

	case netconfig.PhasePlaying:
		s.TimeRemaining -= dt
		if s.TimeRemaining > 0 {
			return s, nil
		}
		s.Phase = netconfig.PhaseGameOver
		s.TimeRemaining = 0
		return s, []Effect{PhaseChanged{From: netconfig.PhasePlaying, To: netconfig.PhaseGameOver}}
	}

	// GameOver is terminal for the current match.
	return s, nil
}

func advanceWaiting(s State, roster Roster, rules Rules) (State, []Effect) {
	if roster.Connected < rules.MinPlayersToStart {
		if !s.CountdownActive && s.TimeRemaining == 0 {
			return s, nil
		}
		s.CountdownActive = false
		s.TimeRemaining = 0
		return s, []Effect{CountdownCancelled{}}
	}

	// Any ReadyToStart ready participants start the countdown, however many
	// others are still unready. A running countdown is never re-evaluated.
	if roster.Ready < rules.ReadyToStart || s.CountdownActive {
		return s, nil
	}

	s.CountdownActive = true
	s.Phase = netconfig.PhaseCountdown
	s.TimeRemaining = CountdownDuration(roster.Connected, rules)
	return s, []Effect{PhaseChanged{From: netconfig.PhaseWaitingForPlayers, To: netconfig.PhaseCountdown}}
}

// CountdownDuration picks the countdown length for a lobby of the given size.
func CountdownDuration(connected int, rules Rules) float64 {
	if connected > rules.LargeLobbyThreshold {
		return rules.CountdownLong
	}
	return rules.CountdownShort
}
