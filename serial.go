package cascade

import "github.com/petrijr/cascade/pkg/api"

// Serial is the sequential composition of steps. Each step's output becomes
// the next step's input, adapted against the value stack per the arity
// convention; the terminal continuation receives the last step's output.
type Serial struct {
	chain
}

// Ensure Serial implements Composition.
var _ api.Composition = (*Serial)(nil)

// NewSerial creates a serial chain of the given steps.
func NewSerial(name string, steps ...api.Step) *Serial {
	if name == "" {
		name = "serial"
	}
	return &Serial{chain{name: name, kind: api.KindSerial, steps: steps}}
}

// Invoke runs the chain's steps strictly in sequence, each deferred through
// the scheduler, and fires after exactly once on normal completion.
func (s *Serial) Invoke(env *api.Env, after api.Continuation, args ...any) {
	fin := s.enter(env, after)
	runSteps(env, s.name, s.steps, 0, fin, args)
}

// AsStep wraps the chain as a step so it can nest inside other compositions.
func (s *Serial) AsStep() api.Step {
	return api.Step{Fn: s.Invoke, Arity: s.arity, Name: s.name, Sub: s}
}
