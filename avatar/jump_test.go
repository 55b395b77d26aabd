package avatar_test

import (
	"testing"

	"github.com/automoto/ballguys-mp/avatar"
	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/physics"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/leveldata"
)

const tick = 1.0 / 30

func TestJumpIsRefusedOnceAirborne(t *testing.T) {
	config.Reset()
	world := physics.NewWorld(&leveldata.ArenaData{
		Platforms: []leveldata.Platform{{X: 0, Y: 0, W: 1000, H: 1000, Top: 0}},
	}, physics.ConfigFromSettings(config.Physics))
	body := world.AddSphere(gamemath.Vec3{X: 500, Y: 500, Z: config.Avatar.Radius}, config.Avatar.Radius, config.Avatar.Mass)
	c := avatar.NewController(avatar.TuningFromConfig(config.Avatar), true)

	for i := 0; i < 10; i++ {
		world.Step(tick)
	}
	if !c.Jump(body, world) {
		t.Fatal("resting avatar should be able to jump")
	}

	world.Step(tick)
	world.Step(tick)
	vz := body.Velocity().Z
	if c.Jump(body, world) {
		t.Fatalf("second jump honoured %.1f above the floor", body.Position().Z-config.Avatar.Radius)
	}
	if body.Velocity().Z != vz {
		t.Fatalf("refused jump changed vertical speed from %v to %v", vz, body.Velocity().Z)
	}

	for i := 0; i < 150; i++ {
		world.Step(tick)
	}
	if !c.Jump(body, world) {
		t.Fatalf("landed avatar at z=%.1f should jump again", body.Position().Z)
	}
}
