package core

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/automoto/ballguys-mp/config"
	"github.com/automoto/ballguys-mp/physics"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/automoto/ballguys-mp/spawn"
)

const tick = 0.5

type recordingSender struct {
	mu   sync.Mutex
	msgs []any
}

func (r *recordingSender) SendMessage(msg any) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	return nil
}

func (r *recordingSender) find(match func(any) bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		for _, m := range r.msgs {
			if match(m) {
				r.mu.Unlock()
				return true
			}
		}
		r.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// sequenceSource hands out one distinct spawn point per refresh so avatars
// never spawn on top of each other.
type sequenceSource struct {
	next int
}

func (s *sequenceSource) SpawnPoints() []spawn.Transform {
	s.next++
	return []spawn.Transform{{Position: gamemath.Vec3{X: float64(s.next%10) * 300, Y: 1500}}}
}

func floorArena() *leveldata.ArenaData {
	return &leveldata.ArenaData{
		Platforms: []leveldata.Platform{{X: -500, Y: 0, W: 4000, H: 3000, Top: 0}},
		MapWidth:  3500,
		MapHeight: 3000,
	}
}

func newTestServer(t *testing.T, arena *leveldata.ArenaData, mutate func(*Options)) *Server {
	t.Helper()
	config.Reset()
	opts := OptionsFromConfig()
	opts.Arena = arena
	opts.Spawns = &sequenceSource{}
	opts.Replicator = LocalReplicator()
	opts.Seed = 1
	if mutate != nil {
		mutate(&opts)
	}
	s, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func bodyOf(s *Server, id netconfig.ParticipantID) *physics.Sphere {
	sess := s.sessions[id]
	if sess == nil || sess.avatar == nil {
		return nil
	}
	return sess.avatar.body
}

func TestThreePlayersReadyUpIntoPlaying(t *testing.T) {
	s := newTestServer(t, floorArena(), nil)
	ids := []netconfig.ParticipantID{"p1", "p2", "p3"}
	for _, id := range ids {
		s.Join(id, string(id), &recordingSender{})
	}
	s.Tick(tick)

	for _, id := range ids {
		if !s.HasAvatar(id) {
			t.Fatalf("%s has no avatar after joining", id)
		}
		s.Submit(id, messages.SetReadyIntent{Ready: true})
	}
	s.Tick(tick)

	st := s.MatchState()
	if st.Phase != netconfig.PhaseCountdown || st.TimeRemaining != 20 {
		t.Fatalf("state = %+v, want Countdown at 20", st)
	}

	before := map[netconfig.ParticipantID]*physics.Sphere{}
	for _, id := range ids {
		before[id] = bodyOf(s, id)
	}

	for i := 0; i < 40; i++ {
		s.Tick(tick)
	}

	st = s.MatchState()
	if st.Phase != netconfig.PhasePlaying || st.TimeRemaining != 300 {
		t.Fatalf("state = %+v, want Playing at 300", st)
	}
	for _, p := range s.Participants() {
		if p.Lives != 9 {
			t.Fatalf("%s lives = %d, want 9", p.ID, p.Lives)
		}
		body := bodyOf(s, p.ID)
		if body == nil {
			t.Fatalf("%s has no avatar in Playing", p.ID)
		}
		if body == before[p.ID] {
			t.Fatalf("%s avatar was not respawned", p.ID)
		}
		if before[p.ID].IsSimulatingPhysics() {
			t.Fatalf("%s old avatar still simulating", p.ID)
		}
	}

	m := netcomponents.NetMatch.Get(s.world.Entry(s.matchEntity))
	if m.Phase != netconfig.PhasePlaying || m.TimeRemaining != 300 {
		t.Fatalf("replicated match = %+v", *m)
	}
}

func TestFallingCostsALifeInEveryPhase(t *testing.T) {
	// No platforms: every avatar falls.
	s := newTestServer(t, nil, nil)
	s.Join("p1", "one", &recordingSender{})
	s.Tick(tick)

	first := bodyOf(s, "p1")
	for i := 0; i < 6 && bodyOf(s, "p1") == first; i++ {
		s.Tick(tick)
	}
	if bodyOf(s, "p1") == first {
		t.Fatal("avatar never fell and respawned")
	}
	if p := s.Participants()[0]; p.Lives != 8 {
		t.Fatalf("lives after a lobby fall = %d, want 8", p.Lives)
	}

	for _, phase := range []netconfig.MatchPhase{netconfig.PhasePlaying, netconfig.PhaseGameOver} {
		before := s.Participants()[0].Lives
		s.state.Phase = phase
		s.playerDied("p1")
		if p := s.Participants()[0]; p.Lives != before-1 {
			t.Fatalf("%s: lives = %d, want %d", phase, p.Lives, before-1)
		}
		if !s.HasAvatar("p1") {
			t.Fatalf("%s: avatar should respawn while lives remain", phase)
		}
	}
}

func TestNineDeathsEliminate(t *testing.T) {
	s := newTestServer(t, floorArena(), nil)
	s.Join("p1", "one", &recordingSender{})
	s.Tick(tick)
	s.state.Phase = netconfig.PhasePlaying
	s.state.TimeRemaining = 300

	for i := 0; i < 9; i++ {
		s.playerDied("p1")
	}
	p, _ := s.registry.Get("p1")
	if p.Lives != 0 {
		t.Fatalf("lives after 9 deaths = %d, want 0", p.Lives)
	}
	if s.HasAvatar("p1") {
		t.Fatal("eliminated participant still has an avatar")
	}

	s.playerDied("p1")
	if _, err := s.registry.LoseLife("p1"); err != nil {
		t.Fatalf("LoseLife: %v", err)
	}
	if p, _ := s.registry.Get("p1"); p.Lives != 0 {
		t.Fatalf("lives went to %d", p.Lives)
	}
}

func TestJoinRejections(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		s := newTestServer(t, floorArena(), func(o *Options) { o.Version = "1.0" })
		rec := &recordingSender{}
		s.submit(joinCommand{ID: "old", Version: "0.9", Sender: rec})
		s.Tick(tick)

		if s.registry.Len() != 0 {
			t.Fatal("mismatched version joined")
		}
		if !rec.find(func(m any) bool { _, ok := m.(messages.JoinRejected); return ok }) {
			t.Fatal("no JoinRejected sent")
		}
	})

	t.Run("full", func(t *testing.T) {
		s := newTestServer(t, floorArena(), func(o *Options) { o.MaxPlayers = 2 })
		s.Join("a", "", &recordingSender{})
		s.Join("b", "", &recordingSender{})
		s.Join("c", "", &recordingSender{})
		s.Tick(tick)
		if s.registry.Len() != 2 || s.HasAvatar("c") {
			t.Fatalf("participants = %d, want 2", s.registry.Len())
		}
	})

	t.Run("accepted", func(t *testing.T) {
		s := newTestServer(t, floorArena(), nil)
		rec := &recordingSender{}
		s.Join("a", "alpha", rec)
		s.Tick(tick)
		if !rec.find(func(m any) bool {
			acc, ok := m.(messages.JoinAccepted)
			return ok && acc.ParticipantID == "a" && acc.TickRate == config.Server.TickRate
		}) {
			t.Fatal("no JoinAccepted sent")
		}
	})
}

func TestLeaveDiscardsPendingIntents(t *testing.T) {
	s := newTestServer(t, floorArena(), nil)
	s.Join("p1", "", &recordingSender{})
	s.Tick(tick)
	body := bodyOf(s, "p1")

	s.Leave("p1")
	s.Submit("p1", messages.SetReadyIntent{Ready: true})
	s.Tick(tick)

	if s.registry.Len() != 0 {
		t.Fatal("participant still registered after leave")
	}
	if body.IsSimulatingPhysics() {
		t.Fatal("avatar body still simulating after leave")
	}
	if s.HasAvatar("p1") {
		t.Fatal("avatar survived leave")
	}
}

func TestLocalHostIntentsApplyOnce(t *testing.T) {
	s := newTestServer(t, floorArena(), nil)
	host := s.HostLocal("host")
	s.Join("remote", "", &recordingSender{})
	s.Tick(1.0 / 30)
	s.Tick(1.0 / 30)

	host.Move(1, 0, 0)
	s.Submit("remote", messages.MoveIntent{Sequence: 1, Forward: 1})
	s.Tick(1.0 / 30)

	hostSpin := bodyOf(s, host.ID()).AngularVelocity().Len()
	remoteSpin := bodyOf(s, "remote").AngularVelocity().Len()
	if hostSpin == 0 {
		t.Fatal("host intent was not applied")
	}
	if diff := hostSpin - remoteSpin; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("host spin %f != remote spin %f", hostSpin, remoteSpin)
	}

	p := netcomponents.NetParticipant.Get(s.world.Entry(s.sessions[host.ID()].entity))
	if p.LastSequence != 1 {
		t.Fatalf("host last sequence = %d, want 1", p.LastSequence)
	}
}

func TestBoostIntentAndExpiry(t *testing.T) {
	s := newTestServer(t, floorArena(), nil)
	s.Join("p1", "", &recordingSender{})
	s.Tick(tick)

	s.Submit("p1", messages.BoostIntent{Sequence: 7})
	s.Tick(tick)
	c := s.sessions["p1"].avatar.controller
	if !c.Boost().Active {
		t.Fatal("boost did not start")
	}
	if s.sessions["p1"].lastSequence != 7 {
		t.Fatalf("sequence = %d, want 7", s.sessions["p1"].lastSequence)
	}

	// 0.5s already elapsed in the tick that applied the boost.
	for i := 0; i < 3; i++ {
		s.Tick(tick)
	}
	if c.Boost().Active {
		t.Fatal("boost outlived its duration")
	}
	if c.TorqueStrength() != config.Avatar.TorqueStrength {
		t.Fatalf("torque = %f, want base", c.TorqueStrength())
	}
}

func TestContactKnocksStruckAvatar(t *testing.T) {
	s := newTestServer(t, floorArena(), nil)
	s.Join("a", "", &recordingSender{})
	s.Join("b", "", &recordingSender{})
	s.Tick(tick)

	a, b := bodyOf(s, "a"), bodyOf(s, "b")
	before := b.Velocity()
	dir := b.Position().Sub(a.Position()).Normalize()
	s.onContact(a, b, a.Position().Add(dir.Scale(a.Radius())))

	gained := b.Velocity().Sub(before)
	want := config.Avatar.KnockImpulseStrength / config.Avatar.Mass
	if d := gained.Len() - want; d > 1e-6 || d < -1e-6 {
		t.Fatalf("knock speed = %f, want %f", gained.Len(), want)
	}
	if gained.Dot(dir) <= 0 {
		t.Fatal("knock pushed toward the attacker")
	}
}

func TestJoinAndLeaveSurviveFullInbox(t *testing.T) {
	s := newTestServer(t, floorArena(), func(o *Options) { o.InboxSize = 4 })
	for _, id := range []netconfig.ParticipantID{"p1", "p2", "p3"} {
		s.Join(id, string(id), &recordingSender{})
	}
	s.Tick(tick)

	for i := 0; i < 20; i++ {
		s.Submit("p1", messages.JumpIntent{Sequence: uint32(i + 1)})
	}
	if !s.Leave("p3") {
		t.Fatal("leave refused while the inbox is full")
	}
	newcomer := &recordingSender{}
	if !s.Join("p4", "four", newcomer) {
		t.Fatal("join refused while the inbox is full")
	}
	s.Tick(tick)

	if n := s.registry.Len(); n != 3 {
		t.Fatalf("participants = %d, want 3", n)
	}
	if _, ok := s.registry.Get("p3"); ok {
		t.Fatal("p3 still registered after leaving")
	}
	if !s.HasAvatar("p4") {
		t.Fatal("p4 has no avatar")
	}
	if !newcomer.find(func(m any) bool { _, ok := m.(messages.JoinAccepted); return ok }) {
		t.Fatal("p4 never got JoinAccepted")
	}
}

func TestMoveIntentsCollapseToLatest(t *testing.T) {
	s := newTestServer(t, floorArena(), func(o *Options) { o.InboxSize = 4 })
	s.Join("flood", "", &recordingSender{})
	s.Join("calm", "", &recordingSender{})
	s.Tick(1.0 / 30)
	s.Tick(1.0 / 30)

	for i := 1; i <= 300; i++ {
		if !s.Submit("flood", messages.MoveIntent{Sequence: uint32(i), Forward: 1}) {
			t.Fatalf("move %d refused", i)
		}
	}
	s.Submit("calm", messages.MoveIntent{Sequence: 1, Forward: 1})
	if !s.Submit("calm", messages.SetReadyIntent{Ready: true}) {
		t.Fatal("moves crowded out another session's intent")
	}
	s.Tick(1.0 / 30)

	if p, _ := s.registry.Get("calm"); !p.Ready {
		t.Fatal("calm's ready intent was not applied")
	}
	floodSpin := bodyOf(s, "flood").AngularVelocity().Len()
	calmSpin := bodyOf(s, "calm").AngularVelocity().Len()
	if floodSpin == 0 || math.Abs(floodSpin-calmSpin) > 1e-9 {
		t.Fatalf("flood spin %f, calm spin %f; want one move each", floodSpin, calmSpin)
	}
	if seq := s.sessions["flood"].lastSequence; seq != 300 {
		t.Fatalf("flood last sequence = %d, want 300", seq)
	}
}

func TestGameLoopTicksUntilStopped(t *testing.T) {
	s := newTestServer(t, floorArena(), func(o *Options) { o.TickRate = 100 })
	s.Join("p1", "", &recordingSender{})

	done := make(chan struct{})
	go func() {
		s.loop.Run()
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	if !s.HasAvatar("p1") {
		t.Fatal("loop never ticked")
	}
}
