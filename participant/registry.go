// Package participant tracks the connected participants of a match: their
// readiness and remaining lives. The server owns the authoritative registry;
// clients hold a mirror that only accepts replicated values.
package participant

import (
	"errors"

	"github.com/automoto/ballguys-mp/shared/netconfig"
)

var (
	ErrNotAuthoritative     = errors.New("participant: mutation without server authority")
	ErrUnknownParticipant   = errors.New("participant: unknown participant")
	ErrDuplicateParticipant = errors.New("participant: participant already registered")
)

// Participant is one connected session's bookkeeping entry.
type Participant struct {
	ID        netconfig.ParticipantID
	Name      string
	Lives     int
	Ready     bool
	LocalHost bool
}

// Registry holds participants in join order. It is not safe for concurrent
// use; the server tick goroutine is its only writer.
type Registry struct {
	authoritative bool
	maxLives      int

	order []netconfig.ParticipantID
	byID  map[netconfig.ParticipantID]*Participant
}

// NewRegistry returns the server-side registry.
func NewRegistry(maxLives int) *Registry {
	return newRegistry(maxLives, true)
}

// NewMirror returns a client-side registry that rejects every mutation and
// only changes through Apply.
func NewMirror(maxLives int) *Registry {
	return newRegistry(maxLives, false)
}

func newRegistry(maxLives int, authoritative bool) *Registry {
	return &Registry{
		authoritative: authoritative,
		maxLives:      maxLives,
		byID:          make(map[netconfig.ParticipantID]*Participant),
	}
}

func (r *Registry) Authoritative() bool { return r.authoritative }
func (r *Registry) MaxLives() int       { return r.maxLives }

// Add registers a newly joined participant with full lives.
func (r *Registry) Add(id netconfig.ParticipantID, name string, localHost bool) (Participant, error) {
	if !r.authoritative {
		return Participant{}, ErrNotAuthoritative
	}
	if _, ok := r.byID[id]; ok {
		return Participant{}, ErrDuplicateParticipant
	}
	p := &Participant{ID: id, Name: name, Lives: r.maxLives, LocalHost: localHost}
	r.byID[id] = p
	r.order = append(r.order, id)
	return *p, nil
}

// Remove drops a participant's bookkeeping on leave.
func (r *Registry) Remove(id netconfig.ParticipantID) error {
	if !r.authoritative {
		return ErrNotAuthoritative
	}
	if _, ok := r.byID[id]; !ok {
		return ErrUnknownParticipant
	}
	delete(r.byID, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetReady stores the requested readiness. It has no other side effect.
func (r *Registry) SetReady(id netconfig.ParticipantID, ready bool) error {
	p, err := r.mutable(id)
	if err != nil {
		return err
	}
	p.Ready = ready
	return nil
}

// ToggleReady flips readiness and returns the new value.
func (r *Registry) ToggleReady(id netconfig.ParticipantID) (bool, error) {
	p, err := r.mutable(id)
	if err != nil {
		return false, err
	}
	p.Ready = !p.Ready
	return p.Ready, nil
}

// LoseLife removes one life, never going below zero. Calling it on a
// participant with no lives left changes nothing.
func (r *Registry) LoseLife(id netconfig.ParticipantID) (int, error) {
	p, err := r.mutable(id)
	if err != nil {
		return 0, err
	}
	if p.Lives > 0 {
		p.Lives--
	}
	return p.Lives, nil
}

// ResetLives restores a participant to full lives.
func (r *Registry) ResetLives(id netconfig.ParticipantID) error {
	p, err := r.mutable(id)
	if err != nil {
		return err
	}
	p.Lives = r.maxLives
	return nil
}

// ResetAll restores every participant to full lives.
func (r *Registry) ResetAll() error {
	if !r.authoritative {
		return ErrNotAuthoritative
	}
	for _, p := range r.byID {
		p.Lives = r.maxLives
	}
	return nil
}

// Apply overwrites a mirrored entry with a replicated value, adding it if it
// is new. Only mirrors accept replicated values.
func (r *Registry) Apply(p Participant) error {
	if r.authoritative {
		return ErrNotAuthoritative
	}
	if existing, ok := r.byID[p.ID]; ok {
		*existing = p
		return nil
	}
	cp := p
	r.byID[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

// Forget removes a mirrored entry whose replicated entity went away.
func (r *Registry) Forget(id netconfig.ParticipantID) {
	if r.authoritative {
		return
	}
	if _, ok := r.byID[id]; !ok {
		return
	}
	delete(r.byID, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) Get(id netconfig.ParticipantID) (Participant, bool) {
	p, ok := r.byID[id]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

func (r *Registry) Len() int { return len(r.order) }

// Counts returns the number of connected and ready participants.
func (r *Registry) Counts() (connected, ready int) {
	for _, p := range r.byID {
		if p.Ready {
			ready++
		}
	}
	return len(r.byID), ready
}

// All returns copies of every participant in join order.
func (r *Registry) All() []Participant {
	out := make([]Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

func (r *Registry) mutable(id netconfig.ParticipantID) (*Participant, error) {
	if !r.authoritative {
		return nil, ErrNotAuthoritative
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrUnknownParticipant
	}
	return p, nil
}
