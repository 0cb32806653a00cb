package cascade

import "fmt"

// Builder provides a fluent API for defining chains:
//
//	flow := cascade.New("OnboardUser").
//	    Step("createAccount", 1, createAccount).
//	    Parallel("notify",
//	        cascade.MakeStep(sendEmail, 1),
//	        cascade.MakeStep(sendSMS, 1),
//	    ).
//	    Step("finish", 1, finish).
//	    Build()
//
//	out, err := runner.Run(ctx, flow, input)
type Builder struct {
	s *Serial
}

// New creates a new chain builder with the given name.
func New(name string) *Builder {
	return &Builder{s: NewSerial(name)}
}

// Name returns the chain name.
func (b *Builder) Name() string {
	return b.s.Name()
}

// Step appends a basic step to the chain.
func (b *Builder) Step(name string, arity int, fn Callable) *Builder {
	if name == "" {
		panic("cascade: step name must not be empty")
	}
	if fn == nil {
		panic(fmt.Sprintf("cascade: step %q has nil function", name))
	}
	b.s.Append(MakeStep(fn, arity, name))
	return b
}

// Add appends a prebuilt step descriptor.
func (b *Builder) Add(st Step) *Builder {
	b.s.Append(st)
	return b
}

// Parallel is a convenience for adding a step that runs sub-steps as a
// parallel chain.
func (b *Builder) Parallel(name string, steps ...Step) *Builder {
	b.s.Append(NewParallel(name, steps...).AsStep())
	return b
}

// While adds a loop step that repeats body while cond passes true.
func (b *Builder) While(name string, cond Step, body ...Step) *Builder {
	b.s.Append(NewLoop(name, cond, body...).AsStep())
	return b
}

// If adds a conditional branching step.
func (b *Builder) If(name string, cond, onTrue, onFalse Step) *Builder {
	b.s.Append(NewBranch(name, cond, onTrue, onFalse).AsStep())
	return b
}

// OnError attaches an exception handler to the chain being built.
func (b *Builder) OnError(h Handler) *Builder {
	b.s.OnError(h)
	return b
}

// BindEnv makes the built chain pass the Environment as the terminal
// continuation's implicit first argument.
func (b *Builder) BindEnv() *Builder {
	b.s.BindEnv(true)
	return b
}

// Build returns the underlying serial chain.
func (b *Builder) Build() *Serial {
	return b.s
}
