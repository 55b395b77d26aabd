package netcomponents

import (
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// NetAvatarData links a replicated avatar entity to its participant.
type NetAvatarData struct {
	ParticipantID netconfig.ParticipantID
	Radius        float64
}

var NetAvatar = donburi.NewComponentType[NetAvatarData]()

// NetBoostData is the observable boost state used by clients for UI and FX.
type NetBoostData struct {
	Active            bool
	TimeRemaining     float64
	CooldownRemaining float64
	Multiplier        float64
}

var NetBoost = donburi.NewComponentType[NetBoostData]()
