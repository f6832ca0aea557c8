// Package domain contains the core data model of the intake assistant:
// decision nodes and their options, slot specifications, per-user session
// state, and archived final results.
//
// Types here are plain data. The decision tree and slot catalog are built
// once at startup and treated as immutable; sessions are owned by the
// session manager and mutated only by the dialog engine.
package domain
