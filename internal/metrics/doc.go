// Package metrics observes simulated frames and exports runtime counters.
//
// Frame observers follow one shape: Observe a [Frame], read Value, Reset.
//
//   - [Energy]: mean kinetic plus potential energy per frame
//   - [EnergyDrift]: worst relative drift from the first observed energy
//   - [Stability]: fraction of frames whose largest step stays under a bound
//   - [Displacement]: mean vertex step length
//
// [Recorder] publishes world, registry and aggregation events to Prometheus.
package metrics
