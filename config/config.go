package config

import (
	"errors"
	"fmt"
)

// AvatarConfig contains the per-avatar movement and combat tuning
type AvatarConfig struct {
	// Body
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`

	// Movement
	TorqueStrength      float64 `yaml:"torque_strength"`       // Angular acceleration per move intent (rad/s²)
	JumpImpulse         float64 `yaml:"jump_impulse"`          // Upward velocity change
	GroundCheckDistance float64 `yaml:"ground_check_distance"` // Added to the radius to get the sweep length; clamped to ±Radius, normally negative

	// Combat
	KnockImpulseStrength float64 `yaml:"knock_impulse_strength"`

	// Boost
	BoostDuration   float64 `yaml:"boost_duration"` // Seconds
	BoostCooldown   float64 `yaml:"boost_cooldown"` // Seconds, starts counting when the boost starts
	BoostMultiplier float64 `yaml:"boost_multiplier"`
}

// MatchConfig contains the match lifecycle rules
type MatchConfig struct {
	MinPlayersToStart   int     `yaml:"min_players_to_start"`
	ReadyToStart        int     `yaml:"ready_to_start"`
	LargeLobbyThreshold int     `yaml:"large_lobby_threshold"` // More connected players than this selects the long countdown
	CountdownShort      float64 `yaml:"countdown_short"`
	CountdownLong       float64 `yaml:"countdown_long"`
	GameDuration        float64 `yaml:"game_duration"`
	MaxLives            int     `yaml:"max_lives"`
}

// PhysicsConfig contains the reference physics backend settings
type PhysicsConfig struct {
	Gravity           float64 `yaml:"gravity"`
	LinearDamping     float64 `yaml:"linear_damping"`  // Fraction of horizontal speed lost per second while grounded
	AngularDamping    float64 `yaml:"angular_damping"` // Fraction of spin lost per second
	RollingGrip       float64 `yaml:"rolling_grip"`    // How fast spin and ground speed converge (1/s)
	MaxAngularSpeed   float64 `yaml:"max_angular_speed"`
	Restitution       float64 `yaml:"restitution"`        // Avatar vs avatar
	GroundRestitution float64 `yaml:"ground_restitution"` // Landing bounce
	DefaultKillZ      float64 `yaml:"default_kill_z"`     // Used when the level declares no kill height
	CellSize          int     `yaml:"cell_size"`          // Broadphase cell size
}

// ServerConfig contains server runtime settings
type ServerConfig struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"` // Required client version (empty = accept any)
	Port       uint   `yaml:"port"`
	TickRate   int    `yaml:"tick_rate"`
	MaxPlayers int    `yaml:"max_players"`
	LevelPath  string `yaml:"level_path"`
	InboxSize  int    `yaml:"inbox_size"`
	WatchLevel bool   `yaml:"watch_level"` // Reload spawn points when the level file changes
}

// PredictionConfig contains client-side prediction tuning
type PredictionConfig struct {
	SnapThreshold float64 `yaml:"snap_threshold"` // Prediction error above which the client snaps to the server
	BlendRate     float64 `yaml:"blend_rate"`     // Fraction of the error corrected per snapshot below the threshold
	SendRate      int     `yaml:"send_rate"`      // Move intents per second
}

// Global configuration instances
var Avatar AvatarConfig
var Match MatchConfig
var Physics PhysicsConfig
var Server ServerConfig
var Prediction PredictionConfig

func init() {
	Reset()
}

// Reset restores every section to its built-in defaults.
func Reset() {
	Avatar = AvatarConfig{
		Radius: 50,
		Mass:   10,

		TorqueStrength:      30,
		JumpImpulse:         650,
		GroundCheckDistance: -42.5, // -0.85 * Radius: reaches just past the resting contact

		KnockImpulseStrength: 8000,

		BoostDuration:   2,
		BoostCooldown:   6,
		BoostMultiplier: 2,
	}

	Match = MatchConfig{
		MinPlayersToStart:   2,
		ReadyToStart:        2,
		LargeLobbyThreshold: 2,
		CountdownShort:      10,
		CountdownLong:       20,
		GameDuration:        300, // 5 minutes
		MaxLives:            9,
	}

	Physics = PhysicsConfig{
		Gravity:           980,
		LinearDamping:     0.1,
		AngularDamping:    0.6,
		RollingGrip:       8,
		MaxAngularSpeed:   60,
		Restitution:       0.5,
		GroundRestitution: 0.1,
		DefaultKillZ:      -500,
		CellSize:          64,
	}

	Server = ServerConfig{
		Name:       "BallGuys Server",
		Port:       7373,
		TickRate:   30,
		MaxPlayers: 8,
		LevelPath:  "assets/levels/arena.tmx",
		InboxSize:  256,
		WatchLevel: true,
	}

	Prediction = PredictionConfig{
		SnapThreshold: 120,
		BlendRate:     0.2,
		SendRate:      30,
	}

	resetBot()
}

// Validate reports every configuration value that cannot run.
func Validate() error {
	return current().validate()
}

func (fc fileConfig) validate() error {
	var errs []error
	if fc.Avatar.Radius <= 0 {
		errs = append(errs, fmt.Errorf("avatar.radius must be positive, got %v", fc.Avatar.Radius))
	}
	if fc.Avatar.Mass <= 0 {
		errs = append(errs, fmt.Errorf("avatar.mass must be positive, got %v", fc.Avatar.Mass))
	}
	if fc.Avatar.BoostMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("avatar.boost_multiplier must be positive, got %v", fc.Avatar.BoostMultiplier))
	}
	if fc.Match.MaxLives < 1 {
		errs = append(errs, fmt.Errorf("match.max_lives must be at least 1, got %d", fc.Match.MaxLives))
	}
	if fc.Match.MinPlayersToStart < 1 {
		errs = append(errs, fmt.Errorf("match.min_players_to_start must be at least 1, got %d", fc.Match.MinPlayersToStart))
	}
	if fc.Match.ReadyToStart < 1 {
		errs = append(errs, fmt.Errorf("match.ready_to_start must be at least 1, got %d", fc.Match.ReadyToStart))
	}
	if fc.Server.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("server.tick_rate must be positive, got %d", fc.Server.TickRate))
	}
	if fc.Server.MaxPlayers < 1 {
		errs = append(errs, fmt.Errorf("server.max_players must be at least 1, got %d", fc.Server.MaxPlayers))
	}
	if fc.Prediction.SendRate <= 0 {
		errs = append(errs, fmt.Errorf("prediction.send_rate must be positive, got %d", fc.Prediction.SendRate))
	}
	if fc.Prediction.BlendRate < 0 || fc.Prediction.BlendRate > 1 {
		errs = append(errs, fmt.Errorf("prediction.blend_rate must be in [0, 1], got %v", fc.Prediction.BlendRate))
	}
	if fc.Physics.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("physics.cell_size must be positive, got %d", fc.Physics.CellSize))
	}
	return errors.Join(errs...)
}
