// Package paramstore holds the live parameter values of registered GAMs.
//
// # Purpose
//
// Every parameter a module declares gets a live value, seeded from its
// declared default when the module registers. The host engine and the module's
// Setup read these values; the engine overwrites them between executions.
//
// # Keying
//
// Values are keyed by (module, parameter). Two modules that both declare a
// parameter called "T" own two independent values.
//
// # Trust Boundary
//
// Set does not re-check a value's shape against the declaring descriptor. The
// caller is responsible for handing over a value that fits; see
// descriptor.Normalize.
//
// # Concurrency Model
//
// The store is backed by a sync.Map. Seeding a module is not atomic with
// respect to concurrent Gets of the same module; the registry serializes
// seeding behind its own lock.
package paramstore
