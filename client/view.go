package client

import (
	"slices"

	"github.com/automoto/ballguys-mp/participant"
	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/automoto/ballguys-mp/shared/netconfig"
	"github.com/leap-fish/necs/esync"
)

// AvatarView is one replicated avatar.
type AvatarView struct {
	ParticipantID netconfig.ParticipantID
	Radius        float64
	Transform     netcomponents.NetTransformData
	Boost         netcomponents.NetBoostData
}

// View is the client's decoded picture of the replicated world.
type View struct {
	Match        netcomponents.NetMatchData
	HasMatch     bool
	Participants []netcomponents.NetParticipantData
	Avatars      map[netconfig.ParticipantID]AvatarView
}

// Entity is one replicated entity's decoded component values.
type Entity struct {
	ID         uint
	Components []any
}

// DecodeSnapshot deserializes every component of a snapshot. Components that
// fail to decode are skipped.
func DecodeSnapshot(snapshot esync.WorldSnapshot) []Entity {
	out := make([]Entity, 0, len(snapshot))
	for _, ent := range snapshot {
		e := Entity{ID: uint(ent.Id)}
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			e.Components = append(e.Components, instance)
		}
		out = append(out, e)
	}
	return out
}

// BuildView classifies decoded entities by the components they carry.
func BuildView(entities []Entity) View {
	v := View{Avatars: make(map[netconfig.ParticipantID]AvatarView)}
	for _, e := range entities {
		var (
			av       AvatarView
			isAvatar bool
		)
		for _, data := range e.Components {
			switch d := data.(type) {
			case netcomponents.NetMatchData:
				v.Match = d
				v.HasMatch = true
			case netcomponents.NetParticipantData:
				v.Participants = append(v.Participants, d)
			case netcomponents.NetAvatarData:
				av.ParticipantID = d.ParticipantID
				av.Radius = d.Radius
				isAvatar = true
			case netcomponents.NetTransformData:
				av.Transform = d
			case netcomponents.NetBoostData:
				av.Boost = d
			}
		}
		if isAvatar {
			v.Avatars[av.ParticipantID] = av
		}
	}
	return v
}

// Participant finds a replicated participant by id.
func (v View) Participant(id netconfig.ParticipantID) (netcomponents.NetParticipantData, bool) {
	for _, p := range v.Participants {
		if p.ParticipantID == id {
			return p, true
		}
	}
	return netcomponents.NetParticipantData{}, false
}

// MirrorInto copies replicated participants into a client-side registry and
// forgets the ones that are gone.
func (v View) MirrorInto(r *participant.Registry) {
	present := make(map[netconfig.ParticipantID]bool, len(v.Participants))
	for _, p := range v.Participants {
		present[p.ParticipantID] = true
		_ = r.Apply(participant.Participant{
			ID:    p.ParticipantID,
			Name:  p.Name,
			Lives: p.Lives,
			Ready: p.Ready,
		})
	}
	for _, p := range r.All() {
		if !present[p.ID] {
			r.Forget(p.ID)
		}
	}
}

// Tracker holds the latest replicated view between snapshots, along with a
// roster mirrored from it.
type Tracker struct {
	view   View
	roster *participant.Registry
}

func NewTracker(maxLives int) *Tracker {
	return &Tracker{roster: participant.NewMirror(maxLives)}
}

// Update decodes snap and replaces the view. A nil snapshot keeps the last
// view and reports false.
func (t *Tracker) Update(snap *esync.WorldSnapshot) bool {
	if snap == nil {
		return false
	}
	t.Observe(BuildView(DecodeSnapshot(*snap)))
	return true
}

// Observe replaces the view with an already built one.
func (t *Tracker) Observe(v View) {
	t.view = v
	v.MirrorInto(t.roster)
}

func (t *Tracker) View() View                    { return t.view }
func (t *Tracker) Roster() *participant.Registry { return t.roster }

// Opponents returns the last known position of every other avatar whose
// owner still has lives, ordered by participant id.
func (t *Tracker) Opponents(self netconfig.ParticipantID) []gamemath.Vec3 {
	ids := make([]netconfig.ParticipantID, 0, len(t.view.Avatars))
	for id := range t.view.Avatars {
		if id == self {
			continue
		}
		if p, ok := t.roster.Get(id); ok && p.Lives == 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]gamemath.Vec3, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.view.Avatars[id].Transform.Position)
	}
	return out
}
