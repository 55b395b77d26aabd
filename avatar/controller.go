package avatar

import (
	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/shared/gamemath"
)

// Tuning is the base (un-boosted) tuning of one avatar.
type Tuning struct {
	TorqueStrength       float64
	JumpImpulse          float64
	KnockImpulseStrength float64
	GroundCheckDistance  float64
	BoostDuration        float64
	BoostCooldown        float64
	BoostMultiplier      float64
}

// TuningFromConfig copies the avatar section of the configuration.
func TuningFromConfig(c config.AvatarConfig) Tuning {
	return Tuning{
		TorqueStrength:       c.TorqueStrength,
		JumpImpulse:          c.JumpImpulse,
		KnockImpulseStrength: c.KnockImpulseStrength,
		GroundCheckDistance:  c.GroundCheckDistance,
		BoostDuration:        c.BoostDuration,
		BoostCooldown:        c.BoostCooldown,
		BoostMultiplier:      c.BoostMultiplier,
	}
}

// BoostState is the observable boost ability state. Multiplier is the factor
// currently applied to torque and knock strength (1 when inactive).
type BoostState struct {
	Active            bool
	TimeRemaining     float64
	CooldownRemaining float64
	Multiplier        float64
}

// Controller turns intents into forces for one avatar and owns its boost
// ability. An authoritative controller runs on the server and is the only
// writer of boost state; a non-authoritative one runs on the owning client for
// prediction and mirrors boost state from replication.
type Controller struct {
	tuning        Tuning
	authoritative bool

	torqueStrength float64
	knockStrength  float64
	boost          BoostState
}

func NewController(t Tuning, authoritative bool) *Controller {
	return &Controller{
		tuning:         t,
		authoritative:  authoritative,
		torqueStrength: t.TorqueStrength,
		knockStrength:  t.KnockImpulseStrength,
		boost:          BoostState{Multiplier: 1},
	}
}

func (c *Controller) Tuning() Tuning                { return c.tuning }
func (c *Controller) Authoritative() bool           { return c.authoritative }
func (c *Controller) TorqueStrength() float64       { return c.torqueStrength }
func (c *Controller) KnockImpulseStrength() float64 { return c.knockStrength }
func (c *Controller) Boost() BoostState             { return c.boost }

// Move applies rolling torque toward the (forward, right) intent, expressed in
// the yaw space of the sender's camera. Pitch and roll of the camera never
// matter. It reports whether torque was applied.
func (c *Controller) Move(body Body, forward, right, yawDeg float64) bool {
	if body == nil || !body.IsSimulatingPhysics() {
		return false
	}
	forward = gamemath.Clamp(forward, -1, 1)
	right = gamemath.Clamp(right, -1, 1)

	fwdAxis, rightAxis := gamemath.YawBasis(yawDeg)
	dir := fwdAxis.Scale(forward).Add(rightAxis.Scale(right))
	if dir.IsNearlyZero() {
		return false
	}
	dir = dir.Normalize()

	// A sphere rolls along dir when spun about up x dir.
	axis := gamemath.Up.Cross(dir)
	if axis.IsNearlyZero() {
		return false
	}
	body.AddTorque(axis.Normalize().Scale(c.torqueStrength))
	return true
}

// Jump applies the jump impulse once if the ground sensor reports contact.
// Airborne requests are dropped, not queued.
func (c *Controller) Jump(body Body, ground SweepQuery) bool {
	if body == nil || !body.IsSimulatingPhysics() {
		return false
	}
	if !IsGrounded(ground, body.Position(), body.Radius(), c.tuning.GroundCheckDistance) {
		return false
	}
	body.AddImpulse(gamemath.Up.Scale(c.tuning.JumpImpulse), true)
	return true
}

// TryBoost starts a boost if none is active and the cooldown has elapsed.
func (c *Controller) TryBoost() bool {
	if !c.authoritative {
		return false
	}
	if c.boost.Active || c.boost.CooldownRemaining > 0 {
		return false
	}
	m := c.tuning.BoostMultiplier
	c.boost = BoostState{
		Active:            true,
		TimeRemaining:     c.tuning.BoostDuration,
		CooldownRemaining: c.tuning.BoostCooldown,
		Multiplier:        m,
	}
	c.torqueStrength = c.tuning.TorqueStrength * m
	c.knockStrength = c.tuning.KnockImpulseStrength * m
	return true
}

// Tick advances the boost and cooldown timers by dt seconds. It reports true
// on the tick the boost expires; base strengths are restored on that tick only.
func (c *Controller) Tick(dt float64) bool {
	if !c.authoritative || dt <= 0 {
		return false
	}
	c.boost.CooldownRemaining = gamemath.ApproachZero(c.boost.CooldownRemaining, dt)
	if !c.boost.Active {
		return false
	}
	c.boost.TimeRemaining = gamemath.ApproachZero(c.boost.TimeRemaining, dt)
	if c.boost.TimeRemaining > 0 {
		return false
	}
	c.boost.Active = false
	c.boost.Multiplier = 1
	c.torqueStrength = c.tuning.TorqueStrength
	c.knockStrength = c.tuning.KnockImpulseStrength
	return true
}

// OnHit handles a contact between this controller's avatar and other. other
// is nil when the contact was with anything that is not an avatar. Only an
// authoritative controller knocks.
func (c *Controller) OnHit(self, other Body, contact gamemath.Vec3) bool {
	if !c.authoritative || other == nil {
		return false
	}
	return Knock(self, other, c.knockStrength, contact)
}

// MirrorBoost adopts replicated boost state on a non-authoritative controller
// so predicted torque matches the server's.
func (c *Controller) MirrorBoost(b BoostState) {
	if c.authoritative {
		return
	}
	if b.Multiplier <= 0 {
		b.Multiplier = 1
	}
	c.boost = b
	if b.Active {
		c.torqueStrength = c.tuning.TorqueStrength * b.Multiplier
		c.knockStrength = c.tuning.KnockImpulseStrength * b.Multiplier
		return
	}
	c.torqueStrength = c.tuning.TorqueStrength
	c.knockStrength = c.tuning.KnockImpulseStrength
}
