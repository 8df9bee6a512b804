/*
Package dsl provides a fluent builder for programmatically constructing
titration experiments.

It lets developers define setups in type-safe Go instead of external
YAML or JSON files, which is particularly useful for dynamic experiment
generation, unit tests and IDE autocompletion.

Example usage:

	cfg, err := dsl.NewExperiment().
		Analyte(dsl.WeakAcid(1.8e-5).Molar(0.1).Milliliters(25)).
		Titrant(dsl.StrongBase().Molar(0.1).Milliliters(50)).
		DeliveryRate(5).
		Build()

	// The resulting config can be passed to burette.New(...)
*/
package dsl
