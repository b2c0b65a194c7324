// Package engine is the host side of the module contract. It owns the set of
// attached modules, makes sure every module's descriptors are registered,
// calls Setup exactly once per module and drives Execute cycles.
//
// The engine treats modules as untrusted: inputs are checked against the
// registered input descriptor before Execute is called, and outputs are
// checked against the registered output descriptor before they are returned.
// A module that breaks its own contract fails with ErrContract.
package engine
