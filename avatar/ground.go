package avatar

import "github.com/automoto/ballguys-mp/shared/gamemath"

// GroundSweepScale shrinks the sweep sphere relative to the avatar so that
// walls touching the avatar's side do not count as ground.
const GroundSweepScale = 0.9

// ClampGroundCheckDistance bounds the extra sweep length to [-radius, radius].
// Below -radius the sweep length would go negative and the sweep would point
// upward; above radius the sensor reports ground the avatar cannot reach.
//
// The distance is meant to be negative. The sweep sphere is GroundSweepScale
// times the radius, so its bottom starts 0.1*radius above the avatar's and a
// distance of about -0.85*radius leaves a few units of reach below the resting
// contact. Anything near zero or positive still reports ground well after
// takeoff and lets jumps stack.
func ClampGroundCheckDistance(distance, radius float64) float64 {
	return gamemath.Clamp(distance, -radius, radius)
}

// IsGrounded sweeps a sphere of GroundSweepScale*radius downward from center
// over radius+checkDistance and reports whether it hits static geometry.
func IsGrounded(q SweepQuery, center gamemath.Vec3, radius, checkDistance float64) bool {
	if q == nil || radius <= 0 {
		return false
	}
	length := radius + ClampGroundCheckDistance(checkDistance, radius)
	return q.SweepSphereDown(center, radius*GroundSweepScale, length)
}
