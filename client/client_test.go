package client

import (
	"math"
	"testing"

	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/participant"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

func TestPredictionBuffer(t *testing.T) {
	var pb PredictionBuffer

	for seq := uint32(1); seq <= 5; seq++ {
		pb.Store(seq, messages.MoveIntent{Sequence: seq}, gamemath.Vec3{X: float64(seq)})
	}

	rec, ok := pb.Get(3)
	if !ok || rec.Predicted.X != 3 {
		t.Fatalf("Get(3) = %+v, %v", rec, ok)
	}
	if _, ok := pb.Get(9); ok {
		t.Error("Get of an unstored sequence should fail")
	}
	if got := pb.NextSeq(); got != 6 {
		t.Errorf("NextSeq = %d, want 6", got)
	}

	pending := pb.Unacknowledged(3)
	if len(pending) != 2 || pending[0].Sequence != 4 || pending[1].Sequence != 5 {
		t.Errorf("Unacknowledged(3) = %+v", pending)
	}

	if e, ok := pb.PredictionError(2, gamemath.Vec3{X: 2, Y: 4}); !ok || e != 4 {
		t.Errorf("PredictionError = %v, %v; want 4, true", e, ok)
	}
}

func TestPredictionBufferOverwrite(t *testing.T) {
	var pb PredictionBuffer
	pb.Store(1, messages.JumpIntent{Sequence: 1}, gamemath.Vec3{})
	pb.Store(1+predictionBufferSize, messages.JumpIntent{Sequence: 1 + predictionBufferSize}, gamemath.Vec3{})

	if _, ok := pb.Get(1); ok {
		t.Error("overwritten slot should not return the old sequence")
	}
	if _, ok := pb.Get(1 + predictionBufferSize); !ok {
		t.Error("newest sequence should be stored")
	}
}

func TestBuildView(t *testing.T) {
	entities := []Entity{
		{ID: 1, Components: []any{netcomponents.NetMatchData{Phase: netconfig.PhaseCountdown, TimeRemaining: 7}}},
		{ID: 2, Components: []any{netcomponents.NetParticipantData{ParticipantID: "a", Name: "Ann", Lives: 9, LastSequence: 4}}},
		{ID: 3, Components: []any{
			netcomponents.NetAvatarData{ParticipantID: "a", Radius: 50},
			netcomponents.NetTransformData{Position: gamemath.Vec3{X: 1, Y: 2, Z: 3}},
			netcomponents.NetBoostData{Active: true, Multiplier: 2},
		}},
		{ID: 4, Components: []any{"unrelated"}},
	}

	v := BuildView(entities)
	if !v.HasMatch || v.Match.Phase != netconfig.PhaseCountdown || v.Match.TimeRemaining != 7 {
		t.Errorf("match = %+v (has %v)", v.Match, v.HasMatch)
	}
	p, ok := v.Participant("a")
	if !ok || p.Name != "Ann" || p.LastSequence != 4 {
		t.Errorf("participant = %+v, %v", p, ok)
	}
	av, ok := v.Avatars["a"]
	if !ok {
		t.Fatal("avatar for a missing")
	}
	if av.Radius != 50 || av.Transform.Position.Z != 3 || !av.Boost.Active {
		t.Errorf("avatar = %+v", av)
	}
	if len(v.Avatars) != 1 {
		t.Errorf("got %d avatars, want 1", len(v.Avatars))
	}
}

func TestMirrorIntoForgetsMissing(t *testing.T) {
	r := participant.NewMirror(9)

	View{Participants: []netcomponents.NetParticipantData{
		{ParticipantID: "a", Name: "Ann", Lives: 9},
		{ParticipantID: "b", Name: "Bo", Lives: 9, Ready: true},
	}}.MirrorInto(r)
	if r.Len() != 2 {
		t.Fatalf("mirror has %d entries, want 2", r.Len())
	}
	if _, ready := r.Counts(); ready != 1 {
		t.Errorf("ready = %d, want 1", ready)
	}

	View{Participants: []netcomponents.NetParticipantData{
		{ParticipantID: "b", Name: "Bo", Lives: 8},
	}}.MirrorInto(r)
	if _, ok := r.Get("a"); ok {
		t.Error("a should be forgotten")
	}
	b, _ := r.Get("b")
	if b.Lives != 8 || b.Ready {
		t.Errorf("b = %+v", b)
	}
}

func floorArena() *leveldata.ArenaData {
	return &leveldata.ArenaData{
		Platforms: []leveldata.Platform{{X: -500, Y: 0, W: 4000, H: 3000, Top: 0}},
	}
}

func newTestPredictor() *Predictor {
	config.Reset()
	return NewPredictor(floorArena(), config.Avatar, config.Physics, config.Prediction)
}

func TestPredictorMoveRecordsPrediction(t *testing.T) {
	p := newTestPredictor()
	p.Spawn(gamemath.Vec3{X: 500, Y: 1500})

	if got := p.Body().Position(); got != (gamemath.Vec3{X: 500, Y: 1500, Z: 50}) {
		t.Fatalf("spawned at %+v, want one radius above the floor", got)
	}

	msg := p.Move(1, 0, 0)
	if msg.Sequence != 1 || msg.Forward != 1 {
		t.Errorf("intent = %+v", msg)
	}
	p.Step(1.0 / 30)

	rec, ok := p.Buffer.Get(1)
	if !ok {
		t.Fatal("prediction for sequence 1 not stored")
	}
	if rec.Predicted != p.Body().Position() {
		t.Errorf("stored %+v, body at %+v", rec.Predicted, p.Body().Position())
	}
	if p.Body().AngularVelocity().Y <= 0 && p.Body().Velocity().X <= 0 {
		t.Error("forward input should start the avatar rolling toward +X")
	}
}

func TestPredictorBoostIsNotPredicted(t *testing.T) {
	p := newTestPredictor()
	p.Spawn(gamemath.Vec3{X: 500, Y: 1500})

	msg := p.Boost()
	if msg.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", msg.Sequence)
	}
	if p.Controller().Boost().Active {
		t.Error("boost must wait for the server")
	}

	p.Reconcile(AvatarView{
		Transform: netcomponents.NetTransformData{Position: p.Body().Position()},
		Boost:     netcomponents.NetBoostData{Active: true, TimeRemaining: 1.5, Multiplier: 2},
	}, 1)
	if b := p.Controller().Boost(); !b.Active || b.Multiplier != 2 {
		t.Errorf("mirrored boost = %+v", b)
	}
}

func TestPredictorReconcile(t *testing.T) {
	p := newTestPredictor()
	p.Spawn(gamemath.Vec3{X: 500, Y: 1500})
	spawnPos := p.Body().Position()

	corr := p.Reconcile(AvatarView{Transform: netcomponents.NetTransformData{Position: spawnPos}}, 0)
	if !corr.Snapped {
		t.Error("first transform after a spawn should snap")
	}

	p.Move(1, 0, 0)
	p.Step(1.0 / 30)
	predicted := p.Body().Position()

	// Small error: corrected by BlendRate of the offset.
	server := predicted.Add(gamemath.Vec3{X: 10})
	corr = p.Reconcile(AvatarView{Transform: netcomponents.NetTransformData{Position: server}}, 1)
	if corr.Snapped {
		t.Fatal("a 10 unit error should blend, not snap")
	}
	if math.Abs(corr.Error-10) > 1e-9 {
		t.Errorf("error = %v, want 10", corr.Error)
	}
	want := predicted.X + 10*config.Prediction.BlendRate
	if got := p.Body().Position().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("blended x = %v, want %v", got, want)
	}

	// Large error: adopt the server transform outright.
	far := gamemath.Vec3{X: 2000, Y: 1500, Z: 50}
	corr = p.Reconcile(AvatarView{Transform: netcomponents.NetTransformData{
		Position: far,
		Velocity: gamemath.Vec3{Y: 100},
	}}, 1)
	if !corr.Snapped {
		t.Fatal("a large error should snap")
	}
	if p.Body().Position() != far || p.Body().Velocity().Y != 100 {
		t.Errorf("after snap body = %+v vel %+v", p.Body().Position(), p.Body().Velocity())
	}
}

func TestPredictorWithoutBody(t *testing.T) {
	p := newTestPredictor()

	if msg := p.Move(1, 0, 0); msg.Sequence != 1 {
		t.Errorf("sequence = %d", msg.Sequence)
	}
	p.Jump()
	p.Step(1.0 / 30)
	if corr := p.Reconcile(AvatarView{}, 1); corr.Snapped {
		t.Error("nothing to reconcile without a body")
	}

	p.Spawn(gamemath.Vec3{})
	p.Despawn()
	if p.Body() != nil {
		t.Error("Despawn should remove the body")
	}
}

func TestBrainChasesNearest(t *testing.T) {
	config.Reset()
	b := NewBrain(config.BotDifficultyHard, 1)
	jitter := config.Bot.Difficulties[config.BotDifficultyHard].AimJitter

	self := gamemath.Vec3{}
	others := []gamemath.Vec3{{X: -2000}, {Y: 1000}}

	d := b.Decide(self, others)
	if d.Forward != 1 {
		t.Errorf("forward = %v, want 1", d.Forward)
	}
	if math.Abs(d.Yaw-90) > jitter {
		t.Errorf("yaw = %v, want 90 +/- %v", d.Yaw, jitter)
	}
	if d.Boost {
		t.Error("target out of boost range")
	}

	// Held between decisions, one-shot actions are not repeated.
	held := b.Decide(self, nil)
	if held.Yaw != d.Yaw || held.Forward != 1 || held.Jump || held.Boost {
		t.Errorf("held decision = %+v, previous %+v", held, d)
	}

	d = b.Decide(self, []gamemath.Vec3{{X: 100}})
	if !d.Boost {
		t.Error("target within boost range should trigger boost")
	}
	if math.Abs(d.Yaw) > jitter {
		t.Errorf("yaw = %v, want 0 +/- %v", d.Yaw, jitter)
	}
}

func TestBrainIdlesAtHome(t *testing.T) {
	config.Reset()
	b := NewBrain(config.BotDifficultyEasy, 7)
	b.Home = gamemath.Vec3{X: 10, Y: 10}

	d := b.Decide(gamemath.Vec3{X: 10, Y: 10}, nil)
	if d.Forward != 0 || d.Boost || d.Jump {
		t.Errorf("decision at home = %+v, want idle", d)
	}
}

func TestTrackerKeepsLastViewBetweenSnapshots(t *testing.T) {
	tr := NewTracker(9)
	tr.Observe(View{
		Participants: []netcomponents.NetParticipantData{
			{ParticipantID: "me", Lives: 9},
			{ParticipantID: "b", Lives: 3},
			{ParticipantID: "a", Lives: 9},
			{ParticipantID: "out", Lives: 0},
		},
		Avatars: map[netconfig.ParticipantID]AvatarView{
			"me":  {ParticipantID: "me", Transform: netcomponents.NetTransformData{Position: gamemath.Vec3{X: 1}}},
			"b":   {ParticipantID: "b", Transform: netcomponents.NetTransformData{Position: gamemath.Vec3{X: 2}}},
			"a":   {ParticipantID: "a", Transform: netcomponents.NetTransformData{Position: gamemath.Vec3{X: 3}}},
			"out": {ParticipantID: "out", Transform: netcomponents.NetTransformData{Position: gamemath.Vec3{X: 4}}},
		},
	})

	want := []gamemath.Vec3{{X: 3}, {X: 2}}
	for i := 0; i < 3; i++ {
		if tr.Update(nil) {
			t.Fatal("nil snapshot should not replace the view")
		}
		got := tr.Opponents("me")
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("tick %d: opponents = %v, want %v", i, got, want)
		}
	}
	if p, ok := tr.Roster().Get("b"); !ok || p.Lives != 3 {
		t.Fatalf("roster b = %+v, %v", p, ok)
	}
}
