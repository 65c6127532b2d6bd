package workflow

import (
	"fmt"

	"github.com/qmuntal/stateless"
)

// Machine is an optional, live view of one item's current state as a
// qmuntal/stateless state machine, built from a TypeTemplate. It exists for
// callers that want transition firing and permitted-trigger introspection
// on top of the registry's stateless query API — the registry itself never
// constructs or holds one.
//
// Unlike the engine's transition model, stateless machines distinguish
// transitions by trigger rather than by (from, to) pair alone; since §3.1
// forbids duplicate (from, to) pairs within one type, the target state name
// doubles safely as the trigger.
type Machine struct {
	fsm *stateless.StateMachine
	tpl TypeTemplate
}

// NewMachine builds a Machine for tpl, starting at tpl.InitialState.
func NewMachine(tpl TypeTemplate) *Machine {
	fsm := stateless.NewStateMachine(tpl.InitialState)

	for _, s := range tpl.States {
		fsm.Configure(s.Name)
	}
	for _, t := range tpl.Transitions {
		fsm.Configure(t.From).Permit(stateless.Trigger(t.To), t.To)
	}

	return &Machine{fsm: fsm, tpl: tpl}
}

// State returns the machine's current state name.
func (m *Machine) State() string {
	s, ok := m.fsm.MustState().(string)
	if !ok {
		return ""
	}
	return s
}

// Fire transitions the machine to state to, if a transition from the
// current state to to is configured.
func (m *Machine) Fire(to string) error {
	if err := m.fsm.Fire(stateless.Trigger(to)); err != nil {
		return fmt.Errorf("transition not allowed: cannot reach %q from %q: %w", to, m.State(), err)
	}
	return nil
}

// CanFire reports whether to is reachable from the current state.
func (m *Machine) CanFire(to string) bool {
	can, _ := m.fsm.CanFire(stateless.Trigger(to))
	return can
}

// PermittedTriggers returns the target states reachable from the current
// state.
func (m *Machine) PermittedTriggers() []string {
	triggers, _ := m.fsm.PermittedTriggers()
	out := make([]string, 0, len(triggers))
	for _, t := range triggers {
		if s, ok := t.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
