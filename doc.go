// Package cascade is a continuation-passing-style control-flow engine for Go.
//
// Cascade lets a program compose sequences, loops, parallel fan-outs, and
// conditional branches of asynchronous steps that communicate through a
// shared mutable Environment and an explicit terminal continuation, instead
// of through goroutine/channel plumbing or panic propagation. It runs fully
// in-process, has no operational dependencies, and integrates cleanly into
// existing codebases.
//
// # Core Concepts
//
// The cascade programming model is intentionally small:
//
//  1. Step
//  2. Environment
//  3. Compositions (Serial, Loop, Parallel, Branch)
//  4. Scheduler
//  5. Runner
//
// # Step
//
// A Step is the fundamental executable unit: a callable plus an explicitly
// authored arity and a display name, built with MakeStep:
//
//	fetch := cascade.MakeStep(func(env *cascade.Env, after cascade.Continuation, args ...any) {
//	    after(lookup(args[0].(string)))
//	}, 1, "fetch")
//
// The callable receives the Environment, the continuation to the next step,
// and its adapted arguments. The arity drives argument adaptation: a step
// declaring fewer parameters than its predecessor produced silently stashes
// the extras on the Environment's value stack for a later step to consume,
// and an under-supplied step is backfilled from previously stashed values.
//
// # Environment
//
// An Environment is created once per top-level invocation and passed by
// reference through every step. It owns the value stack, the
// exception-handler stack that substitutes for panic propagation across
// asynchronous boundaries (ThrowException / CatchException / CheckError),
// and the call-context tree used to reconstruct execution and back traces
// after the native stack has unwound.
//
// # Compositions
//
// Serial runs steps in sequence. Loop repeats its body while a condition
// step passes true. Parallel initiates every step in the same scheduling
// pass, giving each branch an isolated local Environment, and fans results
// back in ordered by branch index. Branch dispatches between a true-path
// and a false-path composition. Every composition is itself usable as a
// step via AsStep, so compositions nest arbitrarily.
//
//	flow := cascade.New("Signup").
//	    Step("createAccount", 1, createAccount).
//	    Parallel("notify",
//	        cascade.MakeStep(sendEmail, 1),
//	        cascade.MakeStep(sendSMS, 1),
//	    ).
//	    Build()
//
// "Parallel" means concurrently-initiated, cooperatively-interleaved
// asynchronous work, not multi-threading: all step bodies execute on a
// single scheduler goroutine.
//
// # Scheduler
//
// Every step invocation is deferred through a Scheduler, so a composition's
// caller always regains control before any step body runs. The default
// Ticker batches continuations into FIFO drain passes; a Synchronous
// scheduler is available for deterministic tests.
//
// # Runner
//
// Runner bundles a shared Ticker with environment configuration and drives a
// composition to completion synchronously:
//
//	runner := cascade.NewRunner()
//	out, err := runner.Run(ctx, flow, "gopher")
//
// # Observability
//
// An Observer receives chain/step/throw lifecycle callbacks; implementations
// include a slog-based LoggingObserver, BasicMetrics counters, and a
// RecordingObserver that appends trace events to an EventStore (in-memory
// or SQLite) for post-mortem inspection. The dot package renders composed
// graphs as Graphviz text or ASCII trees.
package cascade
