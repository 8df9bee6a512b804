/*
Package domain contains the core domain models for the Burette engine.

It defines the fundamental entities of a titration experiment: the solutions
being mixed, the run lifecycle, and the recorded curve. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Solute: An acid or base solution with concentration, volume and strength.
  - Config: A validated pairing of analyte and titrant for one experiment.
  - Run: The serializable snapshot of a session (phase, delivered volume, curve).
  - Curve: The append-only record of (volume, pH) samples.
  - LifecycleHooks: Observability callbacks fired on run transitions.
*/
package domain
