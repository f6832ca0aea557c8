/*
Package session implements per-user session management and persistence
orchestration.

The Manager serializes all reads and writes of one user's session while
allowing full parallelism across distinct user ids. It combines in-process
reference-counted mutexes with an optional distributed locker for
multi-replica deployments, on top of a pluggable SessionStore adapter.
*/
package session
