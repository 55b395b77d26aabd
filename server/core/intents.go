package core

import (
	"errors"

	"github.com/automoto/ballguys-mp/avatar"
	"github.com/automoto/ballguys-mp/participant"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

// handleIntent applies a forwarded intent. Movement intents from the local
// host were already applied by its prediction and are only acknowledged.
func (s *Server) handleIntent(c intentCommand) {
	sess, ok := s.sessions[c.ID]
	if !ok {
		return
	}

	switch m := c.Msg.(type) {
	case messages.MoveIntent:
		s.ack(sess, m.Sequence)
	case messages.JumpIntent:
		s.ack(sess, m.Sequence)
	case messages.BoostIntent:
		s.ack(sess, m.Sequence)
	}

	if isMovement(c.Msg) && !avatar.ShouldSimulate(avatar.RoleServer, c.FromLocalHost) {
		return
	}
	s.applyIntent(c.ID, c.Msg)
}

func isMovement(msg any) bool {
	switch msg.(type) {
	case messages.MoveIntent, messages.JumpIntent, messages.BoostIntent:
		return true
	}
	return false
}

func (s *Server) ack(sess *session, seq uint32) {
	if seq > sess.lastSequence {
		sess.lastSequence = seq
	}
}

func (s *Server) applyIntent(id netconfig.ParticipantID, msg any) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}

	switch m := msg.(type) {
	case messages.MoveIntent:
		if a := sess.avatar; a != nil {
			a.controller.Move(a.body, m.Forward, m.Right, m.Yaw)
		}

	case messages.JumpIntent:
		if a := sess.avatar; a != nil {
			a.controller.Jump(a.body, s.physics)
		}

	case messages.BoostIntent:
		if a := sess.avatar; a != nil && a.controller.TryBoost() {
			s.broadcast(messages.BoostEvent{ParticipantID: id, Active: true})
		}

	case messages.SetReadyIntent:
		s.checkAuthority(s.registry.SetReady(id, m.Ready))

	case messages.ToggleReadyIntent:
		_, err := s.registry.ToggleReady(id)
		s.checkAuthority(err)
	}
}

func (s *Server) checkAuthority(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, participant.ErrNotAuthoritative) {
		s.logf("rejected mutation: %v", err)
		return
	}
	s.logf("intent: %v", err)
}
