package core

import (
	"log"
	"time"

	"github.com/automoto/ballguys-mp/avatar"
	"github.com/automoto/ballguys-mp/physics"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

// Sender delivers server messages to one session. *router.NetworkClient
// satisfies it.
type Sender interface {
	SendMessage(msg any) error
}

// session is the server's view of one joined participant. Only the tick
// goroutine touches it.
type session struct {
	id        netconfig.ParticipantID
	out       *queuedSender
	localHost bool

	entity       donburi.Entity // NetParticipant
	lastSequence uint32
	avatar       *avatarState
}

// avatarState is a live avatar: its body, controller and replicated entity.
type avatarState struct {
	entity     donburi.Entity
	body       *physics.Sphere
	controller *avatar.Controller
}

const (
	outboxSize  = 64
	sendTimeout = 2 * time.Second
)

// queuedSender decouples the tick from slow connections. Messages are
// written by a per-session goroutine; when the queue is full new messages
// are dropped. A write that takes longer than the timeout marks the session
// stalled: onStall runs once and the queue stops draining until close.
type queuedSender struct {
	id      netconfig.ParticipantID
	queue   chan any
	closed  chan struct{}
	done    chan struct{} // Closed when the writer goroutine exits
	timeout time.Duration
	onStall func()
}

func newQueuedSender(id netconfig.ParticipantID, to Sender, timeout time.Duration, onStall func()) *queuedSender {
	q := &queuedSender{
		id:      id,
		queue:   make(chan any, outboxSize),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
		timeout: timeout,
		onStall: onStall,
	}
	go q.run(to)
	return q
}

func (q *queuedSender) run(to Sender) {
	defer close(q.done)
	for {
		select {
		case <-q.closed:
			return
		case msg := <-q.queue:
			if !q.write(to, msg) {
				<-q.closed
				return
			}
		}
	}
}

// write sends one message and reports false if the send stalled.
func (q *queuedSender) write(to Sender, msg any) bool {
	result := make(chan error, 1)
	go func() { result <- to.SendMessage(msg) }()

	timer := time.NewTimer(q.timeout)
	defer timer.Stop()
	select {
	case err := <-result:
		if err != nil {
			log.Printf("[server] send to %s failed: %v", q.id, err)
		}
		return true
	case <-q.closed:
		return true
	case <-timer.C:
		log.Printf("[server] send to %s stalled for %s", q.id, q.timeout)
		if q.onStall != nil {
			q.onStall()
		}
		return false
	}
}

func (q *queuedSender) send(msg any) {
	select {
	case q.queue <- msg:
	default:
		log.Printf("[server] outbox full for %s, dropping %T", q.id, msg)
	}
}

func (q *queuedSender) close() {
	close(q.closed)
}
