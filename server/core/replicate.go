package core

import (
	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/yohamta/donburi"
)

// Replicator marks entities for replication and pushes their state to
// observers once per tick.
type Replicator interface {
	Attach(world donburi.World) error
	TrackMatch(world donburi.World, entity *donburi.Entity) error
	TrackParticipant(world donburi.World, entity *donburi.Entity) error
	TrackAvatar(world donburi.World, entity *donburi.Entity) error
	Flush() error
}

// NecsReplicator replicates through necs esync snapshots.
type NecsReplicator struct{}

func NewNecsReplicator() *NecsReplicator {
	return &NecsReplicator{}
}

func (r *NecsReplicator) Attach(world donburi.World) error {
	srvsync.UseEsync(world)
	return nil
}

func (r *NecsReplicator) TrackMatch(world donburi.World, entity *donburi.Entity) error {
	return srvsync.NetworkSync(world, entity, netcomponents.NetMatch)
}

func (r *NecsReplicator) TrackParticipant(world donburi.World, entity *donburi.Entity) error {
	return srvsync.NetworkSync(world, entity, netcomponents.NetParticipant)
}

// TrackAvatar interpolates the transform for observers; boost and identity
// are applied as-is.
func (r *NecsReplicator) TrackAvatar(world donburi.World, entity *donburi.Entity) error {
	return srvsync.NetworkSync(world, entity,
		srvsync.WithInterp(netcomponents.NetTransform),
		netcomponents.NetAvatar,
		netcomponents.NetBoost,
	)
}

func (r *NecsReplicator) Flush() error {
	return srvsync.DoSync()
}

// nopReplicator keeps state local. It backs in-process tests and tools that
// never open a transport.
type nopReplicator struct{}

func (nopReplicator) Attach(donburi.World) error                            { return nil }
func (nopReplicator) TrackMatch(donburi.World, *donburi.Entity) error       { return nil }
func (nopReplicator) TrackParticipant(donburi.World, *donburi.Entity) error { return nil }
func (nopReplicator) TrackAvatar(donburi.World, *donburi.Entity) error      { return nil }
func (nopReplicator) Flush() error                                          { return nil }

// LocalReplicator returns a replicator that sends nothing.
func LocalReplicator() Replicator { return nopReplicator{} }
