package netcomponents

import (
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// NetMatchData is the replicated match state. TimeRemaining is the countdown
// during PhaseCountdown and the round clock during PhasePlaying.
type NetMatchData struct {
	Phase         netconfig.MatchPhase
	TimeRemaining float64
}

var NetMatch = donburi.NewComponentType[NetMatchData]()
