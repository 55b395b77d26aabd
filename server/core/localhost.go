package core

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

// LocalHost is the in-process session of a listen server. Its movement
// intents are applied to its avatar immediately, like an owning client's
// prediction, and the forwarded copies are only acknowledged by the server.
type LocalHost struct {
	server *Server
	id     netconfig.ParticipantID
	seq    atomic.Uint32
	inbox  *localInbox
}

// HostLocal registers a local host session. It takes effect on the next
// tick.
func (s *Server) HostLocal(name string) *LocalHost {
	s.mu.Lock()
	s.nextLocalNum++
	id := netconfig.ParticipantID(fmt.Sprintf("host-%d", s.nextLocalNum))
	s.mu.Unlock()

	h := &LocalHost{server: s, id: id, inbox: &localInbox{}}
	s.submit(joinCommand{ID: id, Name: name, Sender: h.inbox, LocalHost: true})
	return h
}

func (h *LocalHost) ID() netconfig.ParticipantID { return h.id }

func (h *LocalHost) Move(forward, right, yaw float64) {
	h.predictAndForward(messages.MoveIntent{Sequence: h.seq.Add(1), Forward: forward, Right: right, Yaw: yaw})
}

func (h *LocalHost) Jump() {
	h.predictAndForward(messages.JumpIntent{Sequence: h.seq.Add(1)})
}

func (h *LocalHost) Boost() {
	h.predictAndForward(messages.BoostIntent{Sequence: h.seq.Add(1)})
}

func (h *LocalHost) SetReady(ready bool) {
	h.server.submit(intentCommand{ID: h.id, Msg: messages.SetReadyIntent{Ready: ready}, FromLocalHost: true})
}

func (h *LocalHost) ToggleReady() {
	h.server.submit(intentCommand{ID: h.id, Msg: messages.ToggleReadyIntent{}, FromLocalHost: true})
}

func (h *LocalHost) Leave() {
	h.server.submit(leaveCommand{ID: h.id})
}

// Events returns and clears the messages the server sent to the host.
func (h *LocalHost) Events() []any {
	return h.inbox.drain()
}

func (h *LocalHost) predictAndForward(msg any) {
	h.server.submit(predictCommand{ID: h.id, Msg: msg})
	h.server.submit(intentCommand{ID: h.id, Msg: msg, FromLocalHost: true})
}

// localInbox collects server messages for an in-process session.
type localInbox struct {
	mu   sync.Mutex
	msgs []any
}

func (b *localInbox) SendMessage(msg any) error {
	b.mu.Lock()
	b.msgs = append(b.msgs, msg)
	b.mu.Unlock()
	return nil
}

func (b *localInbox) drain() []any {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.msgs
	b.msgs = nil
	return out
}
