// Package spawn selects spawn transforms and places participants' avatars.
package spawn

import (
	"math/rand/v2"
	"sync"

	"github.com/automoto/ballguys-mp/shared/gamemath"
	"github.com/automoto/ballguys-mp/shared/leveldata"
	"github.com/automoto/ballguys-mp/shared/netconfig"
)

// Transform is a spawn location and facing. The zero value is the fallback
// used when the level offers no spawn points.
type Transform struct {
	Position gamemath.Vec3
	Yaw      float64
}

// Source enumerates the level's current spawn points. Implementations must
// return a slice the caller may keep.
type Source interface {
	SpawnPoints() []Transform
}

// FromLevel converts parsed level spawn points.
func FromLevel(points []leveldata.SpawnPoint) []Transform {
	out := make([]Transform, 0, len(points))
	for _, p := range points {
		out = append(out, Transform{Position: gamemath.Vec3{X: p.X, Y: p.Y, Z: p.Z}, Yaw: p.Yaw})
	}
	return out
}

// StaticSource is a fixed set of spawn points.
type StaticSource []Transform

func (s StaticSource) SpawnPoints() []Transform {
	return append([]Transform(nil), s...)
}

// LiveSource is a spawn point set that can change while the server runs, for
// example when the level file is reloaded. It is safe for concurrent use.
type LiveSource struct {
	mu     sync.RWMutex
	points []Transform
}

func NewLiveSource(points []Transform) *LiveSource {
	return &LiveSource{points: append([]Transform(nil), points...)}
}

func (s *LiveSource) SpawnPoints() []Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transform(nil), s.points...)
}

// Replace swaps the whole set.
func (s *LiveSource) Replace(points []Transform) {
	s.mu.Lock()
	s.points = append([]Transform(nil), points...)
	s.mu.Unlock()
}

// Avatars is the avatar lifecycle the manager drives. The server core
// implements it against its ECS world.
type Avatars interface {
	DestroyAvatar(id netconfig.ParticipantID)
	CreateAvatar(id netconfig.ParticipantID, at Transform)
}

// Manager picks spawn points and respawns avatars.
type Manager struct {
	source  Source
	avatars Avatars
	rng     *rand.Rand
	points  []Transform
}

func NewManager(source Source, avatars Avatars, seed uint64) *Manager {
	return &Manager{
		source:  source,
		avatars: avatars,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Refresh re-reads the spawn point set. It is cheap and safe to call before
// every respawn.
func (m *Manager) Refresh() {
	if m.source == nil {
		m.points = nil
		return
	}
	m.points = m.source.SpawnPoints()
}

// Points returns the set read by the last Refresh.
func (m *Manager) Points() []Transform {
	return append([]Transform(nil), m.points...)
}

// Pick returns a uniformly random point from the last refreshed set, or the
// zero Transform if the set is empty.
func (m *Manager) Pick() Transform {
	if len(m.points) == 0 {
		return Transform{}
	}
	return m.points[m.rng.IntN(len(m.points))]
}

// Respawn destroys the participant's avatar if it has one and creates a new
// one at a freshly picked spawn point.
func (m *Manager) Respawn(id netconfig.ParticipantID) Transform {
	m.avatars.DestroyAvatar(id)
	m.Refresh()
	at := m.Pick()
	m.avatars.CreateAvatar(id, at)
	return at
}
