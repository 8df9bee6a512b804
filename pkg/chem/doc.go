/*
Package chem implements the pure titration arithmetic: pH as a function
of delivered titrant volume, and the stoichiometric equivalence point.

Everything here is a stateless function over domain types. No I/O, no
logging, no mutation; callers are expected to pass configs that passed
domain validation. Results follow classical titration theory for the
strong/strong and weak/strong pairings; weak/weak and same-kind pairings
fall back to a documented full-dissociation approximation.
*/
package chem
