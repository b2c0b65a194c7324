package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable the package reads.
const EnvPrefix = "GAMREG"

// Defaults holds the resolved defaults of the command-line options.
type Defaults struct {
	ModulesPath     string `mapstructure:"modules_path"`
	LogFormat       string `mapstructure:"log_format"`
	LogLevel        string `mapstructure:"log_level"`
	HealthcheckPort int    `mapstructure:"healthcheck_port"`
	Cycles          int    `mapstructure:"cycles"`
}

// Load resolves the defaults. lookupEnv is used to find the configuration file
// path; pass os.LookupEnv outside of tests.
func Load(lookupEnv func(string) (string, bool)) (Defaults, error) {
	v := viper.New()

	v.SetDefault("modules_path", "modules")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("healthcheck_port", 0)
	v.SetDefault("cycles", 1)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, ok := lookupEnv(EnvPrefix + "_CONFIG"); ok && path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Defaults{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var d Defaults
	if err := v.Unmarshal(&d); err != nil {
		return Defaults{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return d, nil
}

// LoadFromEnvironment is Load against the process environment.
func LoadFromEnvironment() (Defaults, error) {
	return Load(os.LookupEnv)
}
