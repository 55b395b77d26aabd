package avatar

// Role is where a controller is running.
type Role int

const (
	RoleServer Role = iota
	RoleOwningClient
)

// ShouldSimulate reports whether an intent must be executed by a simulation
// in the given role. The owning client always predicts its own intents. The
// server re-executes them unless they came from the local host session of a
// listen server, which already applied them to the authoritative world.
func ShouldSimulate(role Role, fromLocalHost bool) bool {
	if role == RoleOwningClient {
		return true
	}
	return !fromLocalHost
}
