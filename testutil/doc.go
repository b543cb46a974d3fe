// Package testutil provides testing utilities for bkio.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(seed)
//	g := testutil.RandomGraph[int32, uint8](rng, 100, 50, 400)
//	q := testutil.RandomQpbo[float64](rng, 100, 80, 300)
//	grid := testutil.GridGraph[int32, int32](4, 3, 7)
package testutil
