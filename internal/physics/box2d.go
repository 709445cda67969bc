package physics

import (
	"math"

	"github.com/ByteArena/box2d"

	"github.com/pileupgame/pileup/internal/core"
)

// WorldConfig tunes the Box2D-backed engine.
type WorldConfig struct {
	// Gravity is the downward acceleration in world units per second².
	Gravity float64

	// Solver iteration counts per step.
	VelocityIterations int
	PositionIterations int

	// Rest detection thresholds: a body is resting once its linear speed
	// stays below RestLinearSpeed and its angular speed below
	// RestAngularSpeed for RestTicks consecutive steps, or once Box2D
	// puts it to sleep, whichever comes first.
	RestLinearSpeed  float64
	RestAngularSpeed float64
	RestTicks        int
}

// DefaultWorldConfig returns tunings that settle a one-unit block reliably.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:            10.0,
		VelocityIterations: 8,
		PositionIterations: 3,
		RestLinearSpeed:    0.05,
		RestAngularSpeed:   0.05,
		RestTicks:          30,
	}
}

// World is an Engine backed by the Box2D port. It owns the handle arena:
// game logic sees BodyID/JointID values, never *box2d.B2Body pointers.
type World struct {
	cfg   WorldConfig
	world box2d.B2World

	bodies map[BodyID]*box2d.B2Body
	joints map[JointID]box2d.B2JointInterface
	// jointEdges remembers which bodies a joint connects so the joint
	// bookkeeping can be dropped when a body destruction takes the joint
	// with it inside Box2D.
	jointEdges map[JointID][2]BodyID

	// still counts consecutive below-threshold steps per dynamic body.
	still map[BodyID]int

	nextBody  BodyID
	nextJoint JointID
}

var _ Engine = (*World)(nil)

// NewWorld creates a physics world with the given tunings.
func NewWorld(cfg WorldConfig) *World {
	w := &World{
		cfg:        cfg,
		world:      box2d.MakeB2World(box2d.MakeB2Vec2(0, -cfg.Gravity)),
		bodies:     make(map[BodyID]*box2d.B2Body),
		joints:     make(map[JointID]box2d.B2JointInterface),
		jointEdges: make(map[JointID][2]BodyID),
		still:      make(map[BodyID]int),
	}
	w.world.SetAllowSleeping(true)
	return w
}

// CreateDynamicBody implements Engine.
func (w *World) CreateDynamicBody(pos core.Vec2, mass, linearDamping float64) BodyID {
	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_dynamicBody
	def.Position.Set(pos.X, pos.Y)
	def.LinearDamping = linearDamping
	body := w.world.CreateBody(&def)

	w.nextBody++
	id := w.nextBody
	w.bodies[id] = body
	w.still[id] = 0

	// Mass is finalized by AttachBox via fixture density; remember the
	// requested mass on the handle side.
	body.SetUserData(mass)
	return id
}

// CreateStaticBody implements Engine.
func (w *World) CreateStaticBody(pos core.Vec2) BodyID {
	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_staticBody
	def.Position.Set(pos.X, pos.Y)
	body := w.world.CreateBody(&def)

	w.nextBody++
	id := w.nextBody
	w.bodies[id] = body
	return id
}

// AttachBox implements Engine.
func (w *World) AttachBox(id BodyID, halfW, halfH float64) {
	body, ok := w.bodies[id]
	if !ok {
		return
	}

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(halfW, halfH)

	def := box2d.MakeB2FixtureDef()
	def.Shape = &shape
	def.Friction = 0.8
	def.Restitution = 0.0
	def.Density = fixtureDensity(body, halfW, halfH)
	body.CreateFixtureFromDef(&def)
}

// fixtureDensity converts a requested body mass into a box density.
// Static bodies keep zero density.
func fixtureDensity(body *box2d.B2Body, halfW, halfH float64) float64 {
	mass, ok := body.GetUserData().(float64)
	if !ok || mass <= 0 {
		return 0
	}
	area := 4 * halfW * halfH
	if area <= 0 {
		return 0
	}
	return mass / area
}

// CreateJoint implements Engine. The joint is a revolute (point) constraint:
// it pins anchorA on body a to anchorB on body b without locking rotation,
// which is what keeps a falling piece loosely coherent instead of rigid.
func (w *World) CreateJoint(a, b BodyID, anchorA, anchorB core.Vec2) JointID {
	bodyA, okA := w.bodies[a]
	bodyB, okB := w.bodies[b]
	if !okA || !okB {
		return 0
	}

	def := box2d.MakeB2RevoluteJointDef()
	def.BodyA = bodyA
	def.BodyB = bodyB
	def.LocalAnchorA.Set(anchorA.X, anchorA.Y)
	def.LocalAnchorB.Set(anchorB.X, anchorB.Y)
	def.CollideConnected = false
	joint := w.world.CreateJoint(&def)

	w.nextJoint++
	id := w.nextJoint
	w.joints[id] = joint
	w.jointEdges[id] = [2]BodyID{a, b}
	return id
}

// ApplyForce implements Engine.
func (w *World) ApplyForce(id BodyID, force core.Vec2) {
	body, ok := w.bodies[id]
	if !ok {
		return
	}
	body.ApplyForceToCenter(box2d.MakeB2Vec2(force.X, force.Y), true)
}

// ApplyTorque implements Engine.
func (w *World) ApplyTorque(id BodyID, torque float64) {
	body, ok := w.bodies[id]
	if !ok {
		return
	}
	body.ApplyTorque(torque, true)
}

// Resting implements Engine.
func (w *World) Resting(id BodyID) bool {
	body, ok := w.bodies[id]
	if !ok {
		return false
	}
	if !body.IsAwake() {
		return true
	}
	return w.still[id] >= w.cfg.RestTicks
}

// Position implements Engine.
func (w *World) Position(id BodyID) (core.Vec2, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return core.Vec2{}, false
	}
	pos := body.GetPosition()
	return core.Vec2{X: pos.X, Y: pos.Y}, true
}

// DestroyBody implements Engine.
func (w *World) DestroyBody(id BodyID) {
	body, ok := w.bodies[id]
	if !ok {
		return
	}

	// Box2D destroys attached joints along with the body; drop their
	// handles first so a later DestroyJoint on them is a clean no-op.
	for jid, edge := range w.jointEdges {
		if edge[0] == id || edge[1] == id {
			delete(w.joints, jid)
			delete(w.jointEdges, jid)
		}
	}

	w.world.DestroyBody(body)
	delete(w.bodies, id)
	delete(w.still, id)
}

// DestroyJoint implements Engine.
func (w *World) DestroyJoint(id JointID) {
	joint, ok := w.joints[id]
	if !ok {
		return
	}
	w.world.DestroyJoint(joint)
	delete(w.joints, id)
	delete(w.jointEdges, id)
}

// Step implements Engine.
func (w *World) Step(dt float64) {
	w.world.Step(dt, w.cfg.VelocityIterations, w.cfg.PositionIterations)

	for id, body := range w.bodies {
		if body.GetType() != box2d.B2BodyType.B2_dynamicBody {
			continue
		}
		lin := body.GetLinearVelocity()
		linSpeed := math.Sqrt(lin.X*lin.X + lin.Y*lin.Y)
		angSpeed := math.Abs(body.GetAngularVelocity())
		if linSpeed < w.cfg.RestLinearSpeed && angSpeed < w.cfg.RestAngularSpeed {
			w.still[id]++
		} else {
			w.still[id] = 0
		}
	}
}

// BodyCount returns the number of live bodies, static ones included.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// JointCount returns the number of live joints.
func (w *World) JointCount() int {
	return len(w.joints)
}
