package core

import (
	"errors"
	"fmt"

	"github.com/automoto/ballguys-mp/participant"
	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

// Join rejection reasons sent to clients.
const (
	RejectVersion   = "version mismatch"
	RejectFull      = "server full"
	RejectDuplicate = "already joined"
)

func (s *Server) handleJoin(c joinCommand) {
	if reason := s.admit(c); reason != "" {
		s.logf("join rejected for %s: %s", c.ID, reason)
		if c.Sender != nil {
			// The session never joined, so there is no outbox to queue on.
			go func() {
				_ = c.Sender.SendMessage(messages.JoinRejected{Reason: reason})
			}()
		}
		return
	}

	if _, err := s.registry.Add(c.ID, c.Name, c.LocalHost); err != nil {
		s.logf("join %s: %v", c.ID, err)
		return
	}

	sess := &session{id: c.ID, localHost: c.LocalHost}
	if c.Sender != nil {
		id := c.ID
		sess.out = newQueuedSender(id, c.Sender, sendTimeout, func() {
			s.logf("dropping stalled session %s", id)
			s.submit(leaveCommand{ID: id})
		})
	}
	sess.entity = s.world.Create(netcomponents.NetParticipant)
	if err := s.replicator.TrackParticipant(s.world, &sess.entity); err != nil {
		s.logf("replicate participant %s: %v", c.ID, err)
	}
	s.sessions[c.ID] = sess
	s.writeParticipant(sess)

	s.sendTo(sess, messages.JoinAccepted{
		ParticipantID: c.ID,
		ServerName:    s.opts.Name,
		TickRate:      s.opts.TickRate,
		Level:         s.opts.LevelName,
	})
	s.logf("%s joined as %q (%d/%d)", c.ID, c.Name, s.registry.Len(), s.opts.MaxPlayers)

	// A joining participant gets an avatar whatever the phase.
	s.respawn(c.ID)
}

func (s *Server) admit(c joinCommand) string {
	if s.opts.Version != "" && !c.LocalHost && c.Version != s.opts.Version {
		return fmt.Sprintf("%s: server %q, client %q", RejectVersion, s.opts.Version, c.Version)
	}
	if _, ok := s.sessions[c.ID]; ok {
		return RejectDuplicate
	}
	if s.opts.MaxPlayers > 0 && s.registry.Len() >= s.opts.MaxPlayers {
		return RejectFull
	}
	return ""
}

// handleLeave drops the session and everything it owned. Intents it queued
// after this point are ignored because the session no longer exists.
func (s *Server) handleLeave(id netconfig.ParticipantID) {
	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	s.destroyAvatar(id)
	if s.world.Valid(sess.entity) {
		s.world.Remove(sess.entity)
	}
	if err := s.registry.Remove(id); err != nil && !errors.Is(err, participant.ErrUnknownParticipant) {
		s.logf("leave %s: %v", id, err)
	}
	if sess.out != nil {
		sess.out.close()
	}
	delete(s.sessions, id)
	s.logf("%s left (%d remaining)", id, s.registry.Len())
}
