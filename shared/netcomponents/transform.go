package netcomponents

import (
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/yohamta/donburi"
)

// NetTransformData mirrors the physics backend's body state. It is written by
// the server after every physics step and never read back by the simulation.
type NetTransformData struct {
	Position        gamemath.Vec3
	Velocity        gamemath.Vec3
	AngularVelocity gamemath.Vec3
}

var NetTransform = donburi.NewComponentType[NetTransformData]()

// LerpNetTransform interpolates position between two snapshots and takes the
// newer velocities as-is.
func LerpNetTransform(from, to NetTransformData, t float64) *NetTransformData {
	return &NetTransformData{
		Position:        gamemath.Lerp(from.Position, to.Position, t),
		Velocity:        to.Velocity,
		AngularVelocity: to.AngularVelocity,
	}
}
