package client

import (
	"github.com/automoto/ballguys-mp/avatar"
	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/physics"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/shared/messages"
)

// Correction describes how a replicated transform was folded into the
// prediction.
type Correction struct {
	Error   float64
	Snapped bool
}

type pendingIntent struct {
	seq    uint32
	intent any
}

// Predictor runs the local avatar ahead of the server. It applies the same
// controller logic to a private physics world and eases toward the server's
// transform as snapshots arrive.
type Predictor struct {
	Buffer *PredictionBuffer

	world      *physics.World
	body       *physics.Sphere
	controller *avatar.Controller

	radius        float64
	mass          float64
	snapThreshold float64
	blendRate     float64

	seq         uint32
	pending     []pendingIntent
	initialized bool // True after the first server transform has been applied
}

// NewPredictor builds the prediction world from the same level the server
// runs.
func NewPredictor(arena *leveldata.ArenaData, a config.AvatarConfig, p config.PhysicsConfig, pred config.PredictionConfig) *Predictor {
	return &Predictor{
		Buffer:        &PredictionBuffer{},
		world:         physics.NewWorld(arena, physics.ConfigFromSettings(p)),
		controller:    avatar.NewController(avatar.TuningFromConfig(a), false),
		radius:        a.Radius,
		mass:          a.Mass,
		snapThreshold: pred.SnapThreshold,
		blendRate:     pred.BlendRate,
	}
}

func (p *Predictor) Body() *physics.Sphere          { return p.body }
func (p *Predictor) Controller() *avatar.Controller { return p.controller }
func (p *Predictor) Sequence() uint32               { return p.seq }

// Spawn places the predicted avatar on a spawn point, creating it if needed.
func (p *Predictor) Spawn(floor gamemath.Vec3) {
	centre := floor.Add(gamemath.Up.Scale(p.radius))
	if p.body == nil {
		p.body = p.world.AddSphere(centre, p.radius, p.mass)
	} else {
		p.body.Teleport(centre)
	}
	p.initialized = false
}

// Despawn removes the predicted avatar, for example after elimination.
func (p *Predictor) Despawn() {
	if p.body != nil {
		p.world.RemoveSphere(p.body)
		p.body = nil
	}
	p.initialized = false
}

// Move predicts a move and returns the intent to forward to the server.
func (p *Predictor) Move(forward, right, yaw float64) messages.MoveIntent {
	msg := messages.MoveIntent{Sequence: p.next(), Forward: forward, Right: right, Yaw: yaw}
	if p.body != nil {
		p.controller.Move(p.body, forward, right, yaw)
	}
	p.pending = append(p.pending, pendingIntent{msg.Sequence, msg})
	return msg
}

// Jump predicts a jump and returns the intent to forward. The server decides
// on its own ground check whether the jump happens.
func (p *Predictor) Jump() messages.JumpIntent {
	msg := messages.JumpIntent{Sequence: p.next()}
	if p.body != nil {
		p.controller.Jump(p.body, p.world)
	}
	p.pending = append(p.pending, pendingIntent{msg.Sequence, msg})
	return msg
}

// Boost returns a boost intent. Boost state is only ever set by the server
// and arrives through Reconcile.
func (p *Predictor) Boost() messages.BoostIntent {
	msg := messages.BoostIntent{Sequence: p.next()}
	p.pending = append(p.pending, pendingIntent{msg.Sequence, msg})
	return msg
}

func (p *Predictor) next() uint32 {
	p.seq++
	return p.seq
}

// Step advances the prediction world and records where each intent sent
// since the last step left the avatar.
func (p *Predictor) Step(dt float64) {
	p.world.Step(dt)
	if p.body == nil {
		p.pending = p.pending[:0]
		return
	}
	pos := p.body.Position()
	for _, in := range p.pending {
		p.Buffer.Store(in.seq, in.intent, pos)
	}
	p.pending = p.pending[:0]
}

// Reconcile folds the server's view of the local avatar into the prediction.
// lastAcked is the last intent sequence the server applied. Errors above the
// snap threshold, and the first transform after a spawn, snap; smaller
// errors are corrected by a fraction of the error each snapshot.
func (p *Predictor) Reconcile(server AvatarView, lastAcked uint32) Correction {
	p.controller.MirrorBoost(avatar.BoostState{
		Active:            server.Boost.Active,
		TimeRemaining:     server.Boost.TimeRemaining,
		CooldownRemaining: server.Boost.CooldownRemaining,
		Multiplier:        server.Boost.Multiplier,
	})
	if p.body == nil {
		return Correction{}
	}

	st := server.Transform
	offset := st.Position.Sub(p.body.Position())
	errLen, ok := p.Buffer.PredictionError(lastAcked, st.Position)
	if ok {
		if rec, found := p.Buffer.Get(lastAcked); found {
			offset = st.Position.Sub(rec.Predicted)
		}
	} else {
		errLen = offset.Len()
	}

	if !p.initialized || errLen > p.snapThreshold {
		p.body.SetState(st.Position, st.Velocity, st.AngularVelocity)
		p.initialized = true
		return Correction{Error: errLen, Snapped: true}
	}

	pos := p.body.Position().Add(offset.Scale(p.blendRate))
	p.body.SetState(pos, p.body.Velocity(), p.body.AngularVelocity())
	return Correction{Error: errLen}
}
