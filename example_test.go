package burette_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/burette"
	"github.com/aretw0/burette/pkg/adapters/memory"
	"github.com/aretw0/burette/pkg/domain"
)

// ExampleEngine drives one strong/strong titration to completion and
// prints the landmark readings.
func ExampleEngine() {
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
			DeliveryRate: 2.5,
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
	fmt.Printf("start: pH %.2f\n", eng.PH())

	eq := eng.Equivalence()
	for eng.Phase() == domain.PhaseRunning {
		if err := eng.Tick(ctx, 1); err != nil {
			log.Fatal(err)
		}
		if eng.Volume() == eq.Volume {
			fmt.Printf("equivalence at %.1f mL: pH %.2f\n", eng.Volume(), eng.PH())
		}
	}
	fmt.Printf("complete at %.1f mL: pH %.2f\n", eng.Volume(), eng.PH())

	// Output:
	// start: pH 1.00
	// equivalence at 25.0 mL: pH 7.00
	// complete at 50.0 mL: pH 12.52
}

// ExampleBench shows durable runs: a bench persists every mutation, so a
// second bench over the same store can pick an experiment up where the
// first one left it.
func ExampleBench() {
	store := memory.NewStore()
	ctx := context.Background()

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

	bench := burette.NewBench(store)
	if _, err := bench.StartRun(ctx, "demo", cfg); err != nil {
		log.Fatal(err)
	}
	if _, err := bench.Tick(ctx, "demo", 10); err != nil {
		log.Fatal(err)
	}
	if _, err := bench.Pause(ctx, "demo"); err != nil {
		log.Fatal(err)
	}

	// A fresh bench stands in for a new process after a restart.
	revived := burette.NewBench(store)
	run, err := revived.Get(ctx, "demo")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("revived %s: %s at %.1f mL\n", run.ID, run.Phase, run.Volume)

	// Output:
	// revived demo: paused at 5.0 mL
}
