package client

import (
	"math"
	"math/rand/v2"

	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/shared/gamemath"
)

// Decision is one bot input sample.
type Decision struct {
	Forward, Right float64
	Yaw            float64
	Jump, Boost    bool
}

// Brain steers a bot avatar toward the nearest other avatar.
type Brain struct {
	cfg  config.BotDifficultyConfig
	rng  *rand.Rand
	Home gamemath.Vec3 // Where to drift when nobody else is around

	ticks int
	last  Decision
}

func NewBrain(d config.BotDifficulty, seed uint64) *Brain {
	cfg, ok := config.Bot.Difficulties[d]
	if !ok {
		cfg = config.Bot.Difficulties[config.BotDifficultyNormal]
	}
	if cfg.ReactionDelay < 1 {
		cfg.ReactionDelay = 1
	}
	return &Brain{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed+1)),
	}
}

// Decide returns the input for this tick. A fresh decision is made every
// ReactionDelay ticks; in between the last heading is held and one-shot
// actions are not repeated.
func (b *Brain) Decide(self gamemath.Vec3, others []gamemath.Vec3) Decision {
	b.ticks++
	if b.ticks%b.cfg.ReactionDelay != 1 && b.cfg.ReactionDelay > 1 {
		held := b.last
		held.Jump, held.Boost = false, false
		return held
	}

	target, dist, found := nearest(self, others)
	if !found {
		target = b.Home
		dist = target.Sub(self).Horizontal().Len()
	}

	d := Decision{Yaw: b.last.Yaw}
	if dist > 1 {
		dir := target.Sub(self)
		yaw := math.Atan2(dir.Y, dir.X) * 180 / math.Pi
		yaw += (b.rng.Float64()*2 - 1) * b.cfg.AimJitter
		d.Yaw = yaw
		d.Forward = 1
	}
	if found {
		d.Boost = dist <= b.cfg.BoostRange
		d.Jump = b.rng.Float64() < b.cfg.JumpChance
	}
	b.last = d
	return d
}

func nearest(self gamemath.Vec3, others []gamemath.Vec3) (gamemath.Vec3, float64, bool) {
	best, bestDist, found := gamemath.Vec3{}, math.Inf(1), false
	for _, o := range others {
		if d := o.Sub(self).Horizontal().Len(); d < bestDist {
			best, bestDist, found = o, d, true
		}
	}
	return best, bestDist, found
}
