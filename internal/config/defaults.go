package config

import (
	_ "embed"
)

//go:embed defaults/pileup.yaml
var defaultPileupYAML []byte

// DefaultPileupConfig returns the hardcoded default configuration, used as
// the last-resort fallback if even the embedded YAML fails to parse.
func DefaultPileupConfig() PileupConfig {
	return PileupConfig{
		Board: BoardConfig{
			Lanes: 8,
			Rows:  20,
		},
		Physics: PhysicsConfig{
			Gravity:            10.0,
			BlockMass:          1.0,
			Damping:            3.0,
			MoveForce:          10.0,
			Torque:             20.0,
			VelocityIterations: 8,
			PositionIterations: 3,
			LogicBeforeStep:    false,
			Rest: RestConfig{
				LinearSpeed:  0.05,
				AngularSpeed: 0.05,
				Ticks:        30,
			},
		},
		Health: HealthConfig{
			LossMargin:   2.0,
			GraceSeconds: 3.0,
			Smoothing:    0.1,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{
				DampingDrop: 2.0,
				MinDamping:  0.5,
			},
		},
	}
}
