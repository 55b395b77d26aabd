package protocol

import (
	"sync"

	"github.com/automoto/ballguys-mp/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetMatch       uint = 10
	SyncIDNetParticipant uint = 11
	SyncIDNetTransform   uint = 12
	SyncIDNetAvatar      uint = 13
	SyncIDNetBoost       uint = 14
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetTransform uint8 = 12
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
// Repeated calls return the result of the first registration.
func RegisterComponents() error {
	registerOnce.Do(func() {
		registerErr = registerComponents()
	})
	return registerErr
}

func registerComponents() error {
	// Match: no interpolation (discrete phase, server-driven clock)
	if err := esync.RegisterComponent(
		SyncIDNetMatch,
		netcomponents.NetMatchData{},
		netcomponents.NetMatch,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetParticipant,
		netcomponents.NetParticipantData{},
		netcomponents.NetParticipant,
	); err != nil {
		return err
	}

	// Transform: interpolated for smooth observer rendering
	if err := esync.RegisterComponent(
		SyncIDNetTransform,
		netcomponents.NetTransformData{},
		netcomponents.NetTransform,
		esync.WithInterpFn(InterpIDNetTransform, netcomponents.LerpNetTransform),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetAvatar,
		netcomponents.NetAvatarData{},
		netcomponents.NetAvatar,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetBoost,
		netcomponents.NetBoostData{},
		netcomponents.NetBoost,
	); err != nil {
		return err
	}

	return nil
}
