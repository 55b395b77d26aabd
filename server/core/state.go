package core

import (
	"log"

	"github.com/automoto/ballguys-mp/match"
	"github.com/automoto/ballguys-mp/participant"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

func (s *Server) advanceMatch(dt float64) {
	connected, ready := s.registry.Counts()
	next, effects := match.Advance(s.state, dt, match.Roster{Connected: connected, Ready: ready}, s.rules)
	s.state = next

	for _, e := range effects {
		switch e := e.(type) {
		case match.PhaseChanged:
			log.Printf("[match] %s -> %s (%.1fs)", e.From, e.To, s.state.TimeRemaining)
			s.broadcast(messages.PhaseChangedEvent{
				From:          e.From,
				To:            e.To,
				TimeRemaining: s.state.TimeRemaining,
			})
		case match.CountdownCancelled:
			log.Printf("[match] countdown cancelled, %d connected", connected)
		case match.ResetLives:
			s.checkAuthority(s.registry.ResetAll())
		case match.RespawnAll:
			for _, p := range s.registry.All() {
				s.respawn(p.ID)
			}
		}
	}
}

// MatchState returns the current match state. Call it from the tick
// goroutine or after the loop has stopped.
func (s *Server) MatchState() match.State {
	return s.state
}

// Participants returns every participant in join order.
func (s *Server) Participants() []participant.Participant {
	return s.registry.All()
}

// HasAvatar reports whether the participant currently owns an avatar.
func (s *Server) HasAvatar(id netconfig.ParticipantID) bool {
	sess := s.sessions[id]
	return sess != nil && sess.avatar != nil
}

func (s *Server) writeComponents() {
	s.writeMatch()
	for _, p := range s.registry.All() {
		sess := s.sessions[p.ID]
		if sess == nil {
			continue
		}
		s.writeParticipant(sess)
		if sess.avatar != nil {
			s.writeAvatar(sess.avatar)
		}
	}
}

func (s *Server) writeMatch() {
	if !s.world.Valid(s.matchEntity) {
		return
	}
	netcomponents.NetMatch.Set(s.world.Entry(s.matchEntity), &netcomponents.NetMatchData{
		Phase:         s.state.Phase,
		TimeRemaining: s.state.TimeRemaining,
	})
}

func (s *Server) writeParticipant(sess *session) {
	p, ok := s.registry.Get(sess.id)
	if !ok || !s.world.Valid(sess.entity) {
		return
	}
	netcomponents.NetParticipant.Set(s.world.Entry(sess.entity), &netcomponents.NetParticipantData{
		ParticipantID: p.ID,
		Name:          p.Name,
		Lives:         p.Lives,
		Ready:         p.Ready,
		LastSequence:  sess.lastSequence,
	})
}

func (s *Server) writeAvatar(a *avatarState) {
	if !s.world.Valid(a.entity) {
		return
	}
	entry := s.world.Entry(a.entity)
	netcomponents.NetTransform.Set(entry, &netcomponents.NetTransformData{
		Position:        a.body.Position(),
		Velocity:        a.body.Velocity(),
		AngularVelocity: a.body.AngularVelocity(),
	})
	b := a.controller.Boost()
	netcomponents.NetBoost.Set(entry, &netcomponents.NetBoostData{
		Active:            b.Active,
		TimeRemaining:     b.TimeRemaining,
		CooldownRemaining: b.CooldownRemaining,
		Multiplier:        b.Multiplier,
	})
}

// broadcast queues msg for every joined session.
func (s *Server) broadcast(msg any) {
	for _, p := range s.registry.All() {
		if sess := s.sessions[p.ID]; sess != nil {
			s.sendTo(sess, msg)
		}
	}
}

func (s *Server) sendTo(sess *session, msg any) {
	if sess.out != nil {
		sess.out.send(msg)
	}
}
