// Package api contains the core building blocks used by the cascade
// control-flow engine. It provides the low-level primitives for describing
// steps, carrying per-invocation execution state, reconstructing call traces,
// and observing engine behavior.
//
// Most users interact with the higher-level cascade package, which re-exports
// selected types and helpers from this package and adds the composition
// kinds (Serial, Loop, Parallel, Branch). The api package is intended for
// advanced use cases, custom integrations, or contributors extending the
// engine itself.
//
// # Concepts
//
// The api package centers around a small set of concepts:
//
//   - Steps and step descriptors
//   - The Environment
//   - Call-context traces
//   - Scheduling
//   - Observability
//
// # Steps and Step Descriptors
//
// A step is a single unit of asynchronous work. Its callable receives the
// Environment, a continuation to invoke when the step is done, and zero or
// more arguments. Every step carries an explicitly authored arity — the
// number of arguments its callable expects beyond the environment and
// continuation. The engine never infers arity at runtime; the descriptor is
// mandatory, built with MakeStep.
//
// # The Environment
//
// An Environment is created once per top-level invocation and passed by
// reference through every step of that invocation. It owns an auxiliary
// value stack used for argument adaptation, an exception-handler stack that
// substitutes for native panic propagation across asynchronous boundaries,
// and a call-context tree used to reconstruct traces after the native stack
// has unwound. Environments are never reused across independent invocations.
//
// Parallel compositions derive a local Environment per branch. A local
// environment owns its own value stack, handler stack, and context subtree,
// and holds a back-reference to its parent so traces read as "global
// context, then local context".
//
// # Scheduling
//
// All step invocations are deferred through a Scheduler, never invoked
// synchronously with respect to the caller's stack frame. The Scheduler is
// an injectable dependency so tests can run compositions deterministically;
// the cascade package provides the batching default.
package api
