package orchestrator

import (
	"github.com/felixgeelhaar/statekit"
	"go.trai.ch/zerr"
)

const (
	stateIdle     = "idle"
	stateBuilding = "building"

	eventStart  = "start"
	eventFinish = "finish"
)

type cycle struct{}

// buildMachine tracks whether a build is in flight.
// It is not safe for concurrent use; the Orchestrator guards it with its mutex.
type buildMachine struct {
	interpreter *statekit.Interpreter[cycle]
	// started counts the builds that entered BUILDING.
	started int
}

func newBuildMachine() (*buildMachine, error) {
	builder := statekit.NewMachine[cycle]("build-cycle").
		WithInitial(statekit.StateID(stateIdle)).
		WithContext(cycle{})

	builder.State(stateIdle).
		On(eventStart).Target(stateBuilding).
		Done()

	builder.State(stateBuilding).
		On(eventFinish).Target(stateIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build state machine")
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &buildMachine{interpreter: interpreter}, nil
}

// start moves IDLE to BUILDING. It reports false when a build is already running.
func (m *buildMachine) start() bool {
	if m.building() {
		return false
	}
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(eventStart)})
	if !m.building() {
		return false
	}
	m.started++
	return true
}

func (m *buildMachine) finish() {
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(eventFinish)})
}

func (m *buildMachine) building() bool {
	return m.current() == stateBuilding
}

func (m *buildMachine) current() string {
	return string(m.interpreter.State().Value)
}
