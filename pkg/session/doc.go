/*
Package session implements run access and persistence orchestration.

It provides high-level abstractions for handling concurrent access to
titration runs across multiple replicas, integrating per-run serialization
with distributed locking and long-term storage adapters.
*/
package session
