package core

import (
	"github.com/automoto/ballguys-mp/avatar"
	"github.com/automoto/ballguys-mp/physics"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/automoto/ballguys-mp/spawn"
)

// lifecycle adapts the server to spawn.Avatars.
type lifecycle struct{ s *Server }

func (l lifecycle) DestroyAvatar(id netconfig.ParticipantID) { l.s.destroyAvatar(id) }

func (l lifecycle) CreateAvatar(id netconfig.ParticipantID, at spawn.Transform) {
	l.s.createAvatar(id, at)
}

// respawn replaces the participant's avatar at a random spawn point.
func (s *Server) respawn(id netconfig.ParticipantID) {
	if _, ok := s.sessions[id]; !ok {
		return
	}
	at := s.spawns.Respawn(id)
	s.broadcast(messages.SpawnEvent{
		ParticipantID: id,
		X:             at.Position.X,
		Y:             at.Position.Y,
		Z:             at.Position.Z,
		Yaw:           at.Yaw,
	})
}

// createAvatar places a new avatar resting on the spawn point: spawn points
// mark the floor, so the centre sits one radius above it.
func (s *Server) createAvatar(id netconfig.ParticipantID, at spawn.Transform) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	if sess.avatar != nil {
		s.destroyAvatar(id)
	}

	radius := s.opts.Avatar.Radius
	centre := at.Position.Add(gamemath.Up.Scale(radius))
	body := s.physics.AddSphere(centre, radius, s.opts.Avatar.Mass)
	body.Owner = id

	entity := s.world.Create(netcomponents.NetAvatar, netcomponents.NetTransform, netcomponents.NetBoost)
	entry := s.world.Entry(entity)
	netcomponents.NetAvatar.Set(entry, &netcomponents.NetAvatarData{
		ParticipantID: id,
		Radius:        radius,
	})

	a := &avatarState{
		entity:     entity,
		body:       body,
		controller: avatar.NewController(s.tuning, true),
	}
	if err := s.replicator.TrackAvatar(s.world, &a.entity); err != nil {
		s.logf("replicate avatar %s: %v", id, err)
	}
	sess.avatar = a
	s.bodies[body] = sess
	s.writeAvatar(a)
}

func (s *Server) destroyAvatar(id netconfig.ParticipantID) {
	sess, ok := s.sessions[id]
	if !ok || sess.avatar == nil {
		return
	}
	a := sess.avatar
	delete(s.bodies, a.body)
	s.physics.RemoveSphere(a.body)
	if s.world.Valid(a.entity) {
		s.world.Remove(a.entity)
	}
	sess.avatar = nil
}

// onContact runs inside the physics step whenever two avatars start
// touching, once for each of them as the actor.
func (s *Server) onContact(self, other *physics.Sphere, point gamemath.Vec3) {
	actor, ok := s.bodies[self]
	if !ok || actor.avatar == nil {
		return
	}
	var struck avatar.Body
	target, isAvatar := s.bodies[other]
	if isAvatar {
		struck = other
	}

	c := actor.avatar.controller
	if !c.OnHit(self, struck, point) {
		return
	}
	s.broadcast(messages.KnockbackEvent{
		AttackerID: actor.id,
		TargetID:   target.id,
		HitX:       point.X,
		HitY:       point.Y,
		HitZ:       point.Z,
		Impulse:    c.KnockImpulseStrength(),
		Boosted:    c.Boost().Active,
	})
}

// onFell queues a death; deaths are resolved after the step so avatars are
// not destroyed while the world is iterating them.
func (s *Server) onFell(body *physics.Sphere) {
	if sess, ok := s.bodies[body]; ok {
		s.fallen = append(s.fallen, sess.id)
	}
}

func (s *Server) resolveDeaths() {
	fallen := s.fallen
	s.fallen = nil
	for _, id := range fallen {
		s.playerDied(id)
	}
}

// playerDied handles an avatar dropping below the kill height. Every death
// costs a life whatever the phase; lives are restored when a round starts.
func (s *Server) playerDied(id netconfig.ParticipantID) {
	sess, ok := s.sessions[id]
	if !ok || sess.avatar == nil {
		return
	}

	lives, err := s.registry.LoseLife(id)
	if err != nil {
		s.checkAuthority(err)
		return
	}
	s.broadcast(messages.LifeLostEvent{ParticipantID: id, LivesRemaining: lives})

	if lives > 0 {
		s.respawn(id)
		return
	}
	s.destroyAvatar(id)
	s.broadcast(messages.EliminatedEvent{ParticipantID: id})
	s.logf("%s eliminated", id)
}

// tickBoosts advances every avatar's boost timers.
func (s *Server) tickBoosts(dt float64) {
	for _, p := range s.registry.All() {
		sess := s.sessions[p.ID]
		if sess == nil || sess.avatar == nil {
			continue
		}
		if sess.avatar.controller.Tick(dt) {
			s.broadcast(messages.BoostEvent{ParticipantID: p.ID, Active: false})
		}
	}
}
