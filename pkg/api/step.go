package api

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// Continuation is the callback a step invokes to pass control (and zero or
// more result values) to whatever comes next.
type Continuation func(args ...any)

// Callable is the function shape of a step body. It receives the current
// Environment, the continuation to invoke on completion, and the step's
// adapted arguments.
//
// A Callable must eventually invoke after exactly once, or raise through
// env.ThrowException. Panics raised synchronously from a Callable are caught
// by the invoking composition and redirected into env.ThrowException.
type Callable func(env *Env, after Continuation, args ...any)

// Handler is an exception handler attached to a composition. It receives the
// Environment the exception was raised on, the error (annotated with a
// back-trace), and any extra values passed to ThrowException.
//
// A Handler that considers the exception dealt with calls env.CatchException
// to resume at the composition's continuation. A Handler that re-raises via
// env.ThrowException forwards the exception to the next enclosing scope.
type Handler func(env *Env, err error, extra ...any)

// Kind tags the composition variants.
type Kind string

const (
	KindSerial   Kind = "serial"
	KindLoop     Kind = "loop"
	KindParallel Kind = "parallel"
	KindBranch   Kind = "branch"
)

// Composition is the capability shared by all composition kinds. A
// composition is invokable like a single step, and exposes its participant
// list and type tag read-only so external renderers can walk the structure
// without re-implementing traversal.
type Composition interface {
	// Invoke runs the composition against env, calling after exactly once
	// on normal completion. after may be nil.
	Invoke(env *Env, after Continuation, args ...any)

	// Steps returns a copy of the composition's step list. For branches
	// this is [condition, true-path, false-path].
	Steps() []Step

	// Kind returns the composition's type tag.
	Kind() Kind

	// Name returns the composition's display name.
	Name() string
}

// Step is an immutable descriptor around a Callable: the callable itself,
// its declared arity (argument count excluding the implicit environment and
// continuation parameters), and a display name. Descriptors are created once
// when a step is added to a composition and replaced wholesale on edits.
type Step struct {
	Fn    Callable
	Arity int
	Name  string

	// Sub is set when the step wraps a nested composition, so renderers
	// can descend into it. Nil for plain callables.
	Sub Composition
}

// MakeStep builds a step descriptor. The arity is authored explicitly; it is
// never inferred from the callable. If no name is given, the callable's
// runtime function name is used, with anonymous functions rendered as
// "(anonymous)".
func MakeStep(fn Callable, arity int, name ...string) Step {
	n := ""
	if len(name) > 0 {
		n = name[0]
	}
	if n == "" {
		n = DisplayName(fn)
	}
	if arity < 0 {
		arity = 0
	}
	return Step{Fn: fn, Arity: arity, Name: n}
}

var anonFunc = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// FuncName returns the fully qualified runtime name of fn, or "" if fn is
// not a non-nil function.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	return rf.Name()
}

// DisplayName derives a human-facing name for fn: the bare function name for
// named functions and methods, "(anonymous)" for closures and nil.
func DisplayName(fn any) string {
	name := FuncName(fn)
	if name == "" || anonFunc.MatchString(name) {
		return "(anonymous)"
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	// Method values carry a "-fm" suffix.
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
