package netcomponents

import (
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetParticipantData struct {
	ParticipantID netconfig.ParticipantID
	Name          string
	Lives         int
	Ready         bool
	LastSequence  uint32 // Last intent sequence applied by the server (for prediction reconciliation)
}

var NetParticipant = donburi.NewComponentType[NetParticipantData]()
