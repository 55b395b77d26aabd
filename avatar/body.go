// Package avatar holds the per-player movement and combat logic for rolling
// sphere avatars. It decides what forces to apply and when; integrating them
// is left to whatever physics backend implements Body.
package avatar

import "github.com/automoto/ballguys-mp/shared/gamemath"

// Body is the physics capability an avatar needs from the backend.
type Body interface {
	Position() gamemath.Vec3
	Radius() float64
	IsSimulatingPhysics() bool
	// AddTorque applies an angular acceleration for the next step.
	AddTorque(torque gamemath.Vec3)
	// AddImpulse applies an impulse at the centre of mass. With velChange
	// the impulse is a velocity change and ignores mass.
	AddImpulse(impulse gamemath.Vec3, velChange bool)
	// AddImpulseAtLocation applies a mass-scaled impulse at a world point.
	AddImpulseAtLocation(impulse, location gamemath.Vec3)
}

// SweepQuery answers downward shape sweeps against world-static geometry.
type SweepQuery interface {
	SweepSphereDown(center gamemath.Vec3, radius, distance float64) bool
}
