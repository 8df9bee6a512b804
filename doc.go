/*
Package burette is a deterministic acid-base titration engine for building
virtual chemistry labs, teaching tools, and automation workflows.

It separates the experiment setup (Config) from the execution state (Run)
and from observation (LifecycleHooks), so the same core can drive a CLI,
an HTTP API, or an MCP server.

# Concept

A titration run is a small state machine: idle, running, paused, complete.
While running, simulated time advances in explicit ticks; each tick
delivers titrant at the configured rate, computes the solution pH, and
appends one sample to the titration curve. The engine manages phase
transitions, curve recording, and persistence, while your application
("Host") manages IO and scheduling. This hexagonal architecture allows
burette to be embedded in any interface.

# Key Features

  - Deterministic execution: the same config and tick sequence always
    produce the same curve.
  - Hexagonal architecture: core logic is decoupled from adapters
    (storage, UI, transports).
  - Run persistence: built-in support for long-running experiments
    ("Stop & Resume") via pluggable stores.
  - Strict contracts: configs are validated up front and curve volumes
    must never regress.

# Usage

Drive a single run with Engine, or many with Bench:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/burette"
		"github.com/aretw0/burette/pkg/domain"
	)

	func main() {
		cfg := domain.Config{
			Analyte: domain.Solute{
				Kind: domain.Acid, Strength: domain.Strong,
				Concentration: 0.1, Volume: 25,
			},
			Titrant: domain.Titrant{
				Solute: domain.Solute{
					Kind: domain.Base, Strength: domain.Strong,
					Concentration: 0.1, Volume: 50,
				},
				DeliveryRate: 0.5,
			},
		}

		eng, err := burette.New(cfg)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if err := eng.Start(ctx); err != nil {
			log.Fatal(err)
		}

		// Main loop: tick until the run completes.
		for eng.Phase() == domain.PhaseRunning {
			if err := eng.Tick(ctx, 1); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("v=%.1f mL pH=%.2f\n", eng.Volume(), eng.PH())
		}
	}
*/
package burette
