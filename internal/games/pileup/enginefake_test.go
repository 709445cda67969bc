package pileup

import (
	"github.com/pileupgame/pileup/internal/core"
	"github.com/pileupgame/pileup/internal/physics"
)

// fakeEngine is a scripted physics engine for game-logic tests. Bodies do
// not move on their own; tests position them and flip their rest flags to
// stage the scenario they want the puzzle rules to observe.
type fakeEngine struct {
	nextBody  physics.BodyID
	nextJoint physics.JointID
	bodies    map[physics.BodyID]*fakeBody
	joints    map[physics.JointID]fakeJoint
	steps     int
}

type fakeBody struct {
	pos     core.Vec2
	mass    float64
	damping float64
	static  bool
	resting bool
	forces  []core.Vec2
	torques []float64
}

type fakeJoint struct {
	a, b physics.BodyID
}

var _ physics.Engine = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		bodies: make(map[physics.BodyID]*fakeBody),
		joints: make(map[physics.JointID]fakeJoint),
	}
}

func (e *fakeEngine) CreateDynamicBody(pos core.Vec2, mass, linearDamping float64) physics.BodyID {
	e.nextBody++
	e.bodies[e.nextBody] = &fakeBody{pos: pos, mass: mass, damping: linearDamping}
	return e.nextBody
}

func (e *fakeEngine) CreateStaticBody(pos core.Vec2) physics.BodyID {
	e.nextBody++
	e.bodies[e.nextBody] = &fakeBody{pos: pos, static: true, resting: true}
	return e.nextBody
}

func (e *fakeEngine) AttachBox(body physics.BodyID, halfW, halfH float64) {}

func (e *fakeEngine) CreateJoint(a, b physics.BodyID, anchorA, anchorB core.Vec2) physics.JointID {
	e.nextJoint++
	e.joints[e.nextJoint] = fakeJoint{a: a, b: b}
	return e.nextJoint
}

func (e *fakeEngine) ApplyForce(body physics.BodyID, force core.Vec2) {
	if b, ok := e.bodies[body]; ok {
		b.forces = append(b.forces, force)
	}
}

func (e *fakeEngine) ApplyTorque(body physics.BodyID, torque float64) {
	if b, ok := e.bodies[body]; ok {
		b.torques = append(b.torques, torque)
	}
}

func (e *fakeEngine) Resting(body physics.BodyID) bool {
	b, ok := e.bodies[body]
	return ok && b.resting
}

func (e *fakeEngine) Position(body physics.BodyID) (core.Vec2, bool) {
	b, ok := e.bodies[body]
	if !ok {
		return core.Vec2{}, false
	}
	return b.pos, true
}

func (e *fakeEngine) DestroyBody(body physics.BodyID) {
	delete(e.bodies, body)
	// Joints attached to a destroyed body go with it, like the real engine.
	for id, j := range e.joints {
		if j.a == body || j.b == body {
			delete(e.joints, id)
		}
	}
}

func (e *fakeEngine) DestroyJoint(joint physics.JointID) {
	delete(e.joints, joint)
}

func (e *fakeEngine) Step(dt float64) {
	e.steps++
}

// dynamicCount returns the number of live non-static bodies.
func (e *fakeEngine) dynamicCount() int {
	n := 0
	for _, b := range e.bodies {
		if !b.static {
			n++
		}
	}
	return n
}

// setPos moves a body to the given world position.
func (e *fakeEngine) setPos(body physics.BodyID, pos core.Vec2) {
	if b, ok := e.bodies[body]; ok {
		b.pos = pos
	}
}

// setResting flips a body's rest flag.
func (e *fakeEngine) setResting(body physics.BodyID, resting bool) {
	if b, ok := e.bodies[body]; ok {
		b.resting = resting
	}
}
