// Package config resolves the default values of the command-line options from
// the environment and an optional configuration file.
//
// Every option can be preset with a GAMREG_* environment variable, e.g.
// GAMREG_LOG_LEVEL=debug, or with a YAML file named by GAMREG_CONFIG. Explicit
// command-line flags always win over both.
package config
