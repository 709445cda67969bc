// Package config provides YAML-based game configuration loading and
// difficulty management for pileup.
package config

// PileupConfig contains all configuration for the game.
type PileupConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Health     HealthConfig     `yaml:"health"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the pit dimensions in cells.
type BoardConfig struct {
	Lanes int `yaml:"lanes"`
	Rows  int `yaml:"rows"`
}

// PhysicsConfig defines the simulation parameters.
type PhysicsConfig struct {
	Gravity   float64 `yaml:"gravity"`    // Downward acceleration
	BlockMass float64 `yaml:"block_mass"` // Mass of each block
	// Damping is the baseline linear damping on falling blocks.
	// Lower damping means faster, harder-to-control falls; this is the
	// main difficulty knob.
	Damping   float64 `yaml:"damping"`
	MoveForce float64 `yaml:"move_force"` // Lateral force per block while a key is held
	Torque    float64 `yaml:"torque"`     // Torque per block while a spin key is held

	VelocityIterations int `yaml:"velocity_iterations"`
	PositionIterations int `yaml:"position_iterations"`

	// LogicBeforeStep flips the tick order to the stale-read variant:
	// settle/clear/loss detection runs before the physics step and reads
	// the previous tick's state. Default false (physics first).
	LogicBeforeStep bool `yaml:"logic_before_step"`

	Rest RestConfig `yaml:"rest"`
}

// RestConfig defines the engine-agnostic rest signal thresholds.
type RestConfig struct {
	LinearSpeed  float64 `yaml:"linear_speed"`  // Below this linear speed...
	AngularSpeed float64 `yaml:"angular_speed"` // ...and this angular speed...
	Ticks        int     `yaml:"ticks"`         // ...for this many consecutive ticks
}

// HealthConfig defines loss tracking and the health presenter.
type HealthConfig struct {
	// LossMargin extends the removal boundary below the visible floor:
	// blocks are destroyed once they drop below floor minus this margin.
	LossMargin float64 `yaml:"loss_margin"`
	// GraceSeconds is how long a lost run lingers before the board
	// auto-resets.
	GraceSeconds float64 `yaml:"grace_seconds"`
	// Smoothing is the per-tick exponential factor for the displayed
	// health bar.
	Smoothing float64 `yaml:"smoothing"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Cleared blocks/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	// DampingDrop is subtracted from the baseline damping at max
	// difficulty, floored at MinDamping.
	DampingDrop float64 `yaml:"damping_drop"`
	MinDamping  float64 `yaml:"min_damping"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset adjusts a config in place for a named preset.
func ApplyPreset(cfg *PileupConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
