/*
Package observability adapts titration lifecycle events to Prometheus
collectors.

Wire the hooks into an engine or bench and expose the registry with
promhttp; the serve command does both.
*/
package observability
