// Package physics defines the narrow contract the game logic uses to talk to
// a rigid-body engine, plus a Box2D-backed implementation of it.
//
// Game logic never touches engine internals: it holds opaque handles, issues
// create/destroy/force requests, and reads back positions and a rest signal.
// Every query tolerates a stale handle by reporting "absent" / "not resting"
// instead of failing, so a component reading a set mid-tick can never trip
// over a body another component already removed.
package physics

import "github.com/pileupgame/pileup/internal/core"

// BodyID is an opaque handle to a rigid body. The zero value is never issued.
type BodyID uint32

// JointID is an opaque handle to a joint. The zero value is never issued.
type JointID uint32

// Engine is the simulation contract consumed by game logic.
//
// The rest signal is deliberately engine-agnostic: a body counts as resting
// when the engine reports it sleeping OR when its linear and angular speeds
// have stayed below configured thresholds for enough consecutive steps.
// Relying on a specific engine's sleep heuristic alone has been observed to
// wedge settle detection entirely.
type Engine interface {
	// CreateDynamicBody creates a body that gravity and forces act upon.
	CreateDynamicBody(pos core.Vec2, mass, linearDamping float64) BodyID

	// CreateStaticBody creates an immovable body (floor, walls).
	CreateStaticBody(pos core.Vec2) BodyID

	// AttachBox attaches a box collider with the given half-extents.
	// Unknown handles are ignored.
	AttachBox(body BodyID, halfW, halfH float64)

	// CreateJoint pins two bodies together at the given local anchors.
	// Returns 0 if either handle is unknown.
	CreateJoint(a, b BodyID, anchorA, anchorB core.Vec2) JointID

	// ApplyForce applies a force to the body's center of mass for this step.
	// Unknown handles are ignored.
	ApplyForce(body BodyID, force core.Vec2)

	// ApplyTorque applies a torque to the body for this step.
	// Unknown handles are ignored.
	ApplyTorque(body BodyID, torque float64)

	// Resting reports whether the body is considered at rest.
	// Unknown handles report false.
	Resting(body BodyID) bool

	// Position returns the body's center position.
	// The second return is false for unknown handles.
	Position(body BodyID) (core.Vec2, bool)

	// DestroyBody removes a body and any joints attached to it.
	// Unknown handles are ignored.
	DestroyBody(body BodyID)

	// DestroyJoint removes a joint. Unknown or already-gone handles are
	// ignored; a joint dies implicitly when either of its bodies does.
	DestroyJoint(joint JointID)

	// Step advances the simulation by dt seconds.
	Step(dt float64)
}
