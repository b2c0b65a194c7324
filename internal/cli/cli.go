package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/gamreg/internal/app"
	"github.com/specialistvlad/gamreg/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. Flag defaults are resolved from the
// environment first. It returns a populated Config, a boolean indicating if
// the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	defaults, err := config.LoadFromEnvironment()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return ParseWithDefaults(args, output, defaults)
}

// ParseWithDefaults is Parse with explicit flag defaults.
func ParseWithDefaults(args []string, output io.Writer, defaults config.Defaults) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("gamreg", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
gamreg - Validates, registers and drives GAM computation modules.

Usage:
  gamreg [options] [MODULES_PATH]

Arguments:
  MODULES_PATH
    Path to a manifest file (.hcl, .yaml, .yml) or a directory of manifests.
    Overrides -modules-path.

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprintf(output, "\nEvery option may also be set with a %s_* environment variable, or in the\nYAML file named by %s_CONFIG.\n", config.EnvPrefix, config.EnvPrefix)
	}

	var overrides []string
	modulesPathFlag := flagSet.String("modules-path", defaults.ModulesPath, "Path to the manifest file or directory. Empty registers built-in descriptors only.")
	healthPortFlag := flagSet.Int("healthcheck-port", defaults.HealthcheckPort, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	cyclesFlag := flagSet.Int("cycles", defaults.Cycles, "Number of Execute cycles to run per module.")
	flagSet.Func("set", "Override a parameter value, e.g. -set pid.Kp=2. May be repeated.", func(s string) error {
		overrides = append(overrides, s)
		return nil
	})

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *modulesPathFlag
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "at most one MODULES_PATH argument is accepted"}
	}
	if flagSet.NArg() == 1 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Modules path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		ModulesPath:     path,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Cycles:          *cyclesFlag,
		Overrides:       overrides,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
