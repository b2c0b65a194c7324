// Package registry is the owned, validated store of GAM descriptors.
//
// The Registry maps a module name to its three validated descriptors (inputs,
// outputs, parameters) and owns the live parameter values of every registered
// module. It is populated at load time, either from a gam.Module's built-in
// declarations or from manifest files, and then queried by the host engine
// through the accessor methods.
//
// Registration is validate-then-commit: all three descriptors are validated
// before anything is stored, so a malformed declaration never replaces a good
// one. A successful re-registration replaces the entry and resets the module's
// parameters to their declared defaults.
package registry
