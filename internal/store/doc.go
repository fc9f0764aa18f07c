// Package store provides the stateful navigation orchestrator.
//
// A Store owns the live stack and an ordered middleware list. Execute is the
// only way the stack changes:
//
//  1. Conditionals and sequences are unwrapped by the store itself. A false
//     predicate returns ConditionNotMet without touching any middleware; a
//     true predicate re-enters Execute with the nested command. Sequences
//     call Execute on every step and aggregate into Multiple.
//  2. For a primitive command, WillExecute runs across middlewares in
//     registration order, each receiving the previous one's output. The
//     first veto stops the chain.
//  3. On veto, DidExecute(original, Cancelled, state) runs for every
//     middleware whose WillExecute ran, and the engine is never called.
//  4. Otherwise the engine applies the transformed command to the live
//     stack (which includes any nested commands hooks executed), the store
//     commits, fires the change handler once if the path changed, then runs
//     DidExecute(transformed, result, state) on every middleware.
//
// # Confinement
//
// A store is meant to be driven from one goroutine (the UI loop). The
// internal mutex guards reads and writes of the stack and middleware list
// and is never held while hooks run, so hooks may read the store or execute
// nested commands.
package store
