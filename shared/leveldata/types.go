// Package leveldata provides TMX level parsing shared between client and server.
// It has no dependencies on donburi or resolv.
//
// Tiled maps are read top-down: map X/Y become world X/Y and heights come
// from custom properties, since Tiled itself has no vertical axis.
package leveldata

// ArenaData holds all simulation-relevant data parsed from a TMX level file.
type ArenaData struct {
	Platforms   []Platform
	SpawnPoints []SpawnPoint
	KillZ       float64 // Avatars whose centre drops below this height die
	HasKillZ    bool
	MapWidth    int
	MapHeight   int
}

// Platform is a walkable slab: an axis-aligned footprint with a flat top.
type Platform struct {
	X, Y, W, H float64
	Top        float64
}

// SpawnPoint represents a player spawn location.
type SpawnPoint struct {
	X, Y, Z float64
	Yaw     float64 // Degrees
	Index   int
}
