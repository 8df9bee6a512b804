/*
Package runner drives a titration engine against wall-clock time.

The core never advances on its own: it only moves through injected
ticks. Runner is the one place real time enters the system, mapping
elapsed wall time to simulated time units at a configurable speed and
feeding every recorded sample to a pluggable sink (plain text, NDJSON,
or anything implementing Sink).
*/
package runner
