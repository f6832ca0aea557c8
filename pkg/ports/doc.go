// Package ports defines the boundary interfaces of the intake assistant:
// session persistence, final-result archival, distributed locking, and the
// language-understanding service contract. Adapters implement these; the
// dialog engine consumes them.
package ports
