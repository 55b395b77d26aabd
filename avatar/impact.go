package avatar

import "github.com/automoto/ballguys-mp/shared/gamemath"

// Knock pushes struck away from actor with an impulse of the given magnitude
// applied at contact. It reports whether an impulse was applied. Both bodies
// must be simulating; self hits and coincident centres are no-ops.
func Knock(actor, struck Body, strength float64, contact gamemath.Vec3) bool {
	if actor == nil || struck == nil || actor == struck {
		return false
	}
	if !actor.IsSimulatingPhysics() || !struck.IsSimulatingPhysics() {
		return false
	}
	dir := struck.Position().Sub(actor.Position())
	if dir.IsNearlyZero() {
		return false
	}
	struck.AddImpulseAtLocation(dir.Normalize().Scale(strength), contact)
	return true
}
