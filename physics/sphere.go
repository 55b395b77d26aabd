package physics

import (
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/solarlune/resolv"
)

// Sphere is a rolling rigid body. It implements avatar.Body.
type Sphere struct {
	Owner netconfig.ParticipantID

	pos    gamemath.Vec3
	vel    gamemath.Vec3
	angVel gamemath.Vec3

	radius  float64
	mass    float64
	inertia float64

	simulating bool
	grounded   bool
	fell       bool

	// Angular acceleration accumulated since the last step
	torque gamemath.Vec3

	object *resolv.Object
	world  *World
}

func (s *Sphere) Position() gamemath.Vec3        { return s.pos }
func (s *Sphere) Velocity() gamemath.Vec3        { return s.vel }
func (s *Sphere) AngularVelocity() gamemath.Vec3 { return s.angVel }
func (s *Sphere) Radius() float64                { return s.radius }
func (s *Sphere) Mass() float64                  { return s.mass }
func (s *Sphere) Grounded() bool                 { return s.grounded }

// IsSimulatingPhysics is false once the sphere has been removed from its
// world or frozen with SetSimulating.
func (s *Sphere) IsSimulatingPhysics() bool {
	return s.simulating && s.world != nil
}

func (s *Sphere) SetSimulating(on bool) { s.simulating = on }

func (s *Sphere) AddTorque(torque gamemath.Vec3) {
	s.torque = s.torque.Add(torque)
}

func (s *Sphere) AddImpulse(impulse gamemath.Vec3, velChange bool) {
	if velChange {
		s.vel = s.vel.Add(impulse)
		return
	}
	s.vel = s.vel.Add(impulse.Scale(1 / s.mass))
}

// AddImpulseAtLocation changes linear velocity by impulse/mass and spins the
// sphere about its centre by the impulse's moment arm.
func (s *Sphere) AddImpulseAtLocation(impulse, location gamemath.Vec3) {
	s.vel = s.vel.Add(impulse.Scale(1 / s.mass))
	arm := location.Sub(s.pos)
	s.angVel = s.angVel.Add(arm.Cross(impulse).Scale(1 / s.inertia))
}

// SetState overwrites the kinematic state, used when a client adopts a
// replicated transform.
func (s *Sphere) SetState(pos, vel, angVel gamemath.Vec3) {
	s.pos = pos
	s.vel = vel
	s.angVel = angVel
	s.fell = false
	s.syncObject()
}

// Teleport moves the sphere and stops it.
func (s *Sphere) Teleport(pos gamemath.Vec3) {
	s.SetState(pos, gamemath.Vec3{}, gamemath.Vec3{})
	s.grounded = false
}

func (s *Sphere) syncObject() {
	if s.object == nil || s.world == nil {
		return
	}
	s.object.X = s.pos.X - s.radius + s.world.margin
	s.object.Y = s.pos.Y - s.radius + s.world.margin
	s.object.Update()
}
