package core

import (
	"sync"

	"github.com/automoto/ballguys-mp/shared/messages"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

// Commands are submitted from connection goroutines and applied by the tick
// goroutine.

type joinCommand struct {
	ID        netconfig.ParticipantID
	Name      string
	Version   string
	Sender    Sender
	LocalHost bool
}

type leaveCommand struct {
	ID netconfig.ParticipantID
}

// intentCommand carries one intent message forwarded by a session.
type intentCommand struct {
	ID            netconfig.ParticipantID
	Msg           any
	FromLocalHost bool
}

// predictCommand applies a local host's intent to its avatar at once, the
// way an owning client predicts it.
type predictCommand struct {
	ID  netconfig.ParticipantID
	Msg any
}

// commandQueue holds the commands that must not be lost: joins and leaves
// queue without bound, and each session's move intents collapse to the
// latest one.
type commandQueue struct {
	mu        sync.Mutex
	lifecycle []any
	moves     map[netconfig.ParticipantID]intentCommand
	moveOrder []netconfig.ParticipantID
}

func (q *commandQueue) pushLifecycle(id netconfig.ParticipantID, cmd any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lifecycle = append(q.lifecycle, cmd)
	if _, leaving := cmd.(leaveCommand); leaving {
		delete(q.moves, id)
	}
}

func (q *commandQueue) pushMove(c intentCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.moves == nil {
		q.moves = make(map[netconfig.ParticipantID]intentCommand)
	}
	if _, ok := q.moves[c.ID]; !ok {
		q.moveOrder = append(q.moveOrder, c.ID)
	}
	q.moves[c.ID] = c
}

func (q *commandQueue) take() (lifecycle []any, moves []intentCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()
	lifecycle, q.lifecycle = q.lifecycle, nil
	for _, id := range q.moveOrder {
		if c, ok := q.moves[id]; ok {
			moves = append(moves, c)
			delete(q.moves, id)
		}
	}
	q.moveOrder = q.moveOrder[:0]
	return lifecycle, moves
}

// submit queues a command for the next tick and never blocks. Joins and
// leaves are always accepted, as are move intents, which replace the
// session's previous pending move. Everything else goes through the bounded
// inbox and is dropped when it is full.
func (s *Server) submit(cmd any) bool {
	switch c := cmd.(type) {
	case joinCommand:
		s.pending.pushLifecycle(c.ID, c)
		return true
	case leaveCommand:
		s.pending.pushLifecycle(c.ID, c)
		return true
	case intentCommand:
		if _, ok := c.Msg.(messages.MoveIntent); ok {
			s.pending.pushMove(c)
			return true
		}
	}

	select {
	case s.inbox <- cmd:
		return true
	default:
		s.logf("inbox full, dropping %T", cmd)
		return false
	}
}

// drainInbox applies joins and leaves first, then queued intents in receipt
// order, then the latest move of every session.
func (s *Server) drainInbox() {
	lifecycle, moves := s.pending.take()
	for _, cmd := range lifecycle {
		s.handleCommand(cmd)
	}
	for {
		select {
		case cmd := <-s.inbox:
			s.handleCommand(cmd)
		default:
			for _, c := range moves {
				s.handleIntent(c)
			}
			return
		}
	}
}

func (s *Server) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case joinCommand:
		s.handleJoin(c)
	case leaveCommand:
		s.handleLeave(c.ID)
	case intentCommand:
		s.handleIntent(c)
	case predictCommand:
		s.applyIntent(c.ID, c.Msg)
	}
}
