// Package internal holds the command line flags and the settings they resolve to.
package internal

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Settings resolved from flags and environment variables.
var (
	Env        string
	LogLevel   string
	Port       uint
	HealthPort uint

	Host string

	AdminUser     string
	AdminPassword string
	Seed          bool
)

// Flag is a command line flag whose default comes from an environment variable.
type Flag struct {
	Name    string
	EnvVar  string
	Usage   string
	Default interface{}
	// Value points at the setting the flag writes to: *string, *uint or *bool.
	Value interface{}
}

// Flags shared by every command.
var (
	EnvFlag = Flag{
		Name:    "env",
		EnvVar:  "ECOCOLETA_ENV",
		Usage:   "deployment environment: local, dev or prod",
		Default: "local",
		Value:   &Env,
	}
	LogLevelFlag = Flag{
		Name:    "log-level",
		EnvVar:  "ECOCOLETA_LOG_LEVEL",
		Usage:   "log level: trace, debug, info, warn or error",
		Default: "error",
		Value:   &LogLevel,
	}
	PortFlag = Flag{
		Name:    "port",
		EnvVar:  "ECOCOLETA_PORT",
		Usage:   "registry port",
		Default: uint(12345),
		Value:   &Port,
	}
	HealthPortFlag = Flag{
		Name:    "health-port",
		EnvVar:  "ECOCOLETA_HEALTH_PORT",
		Usage:   "port serving /healthz and /metrics, 0 disables it",
		Default: uint(0),
		Value:   &HealthPort,
	}
)

// Client flags.
var (
	HostFlag = Flag{
		Name:    "host",
		EnvVar:  "ECOCOLETA_HOST",
		Usage:   "registry server host",
		Default: "localhost",
		Value:   &Host,
	}
)

// Server flags.
var (
	AdminUserFlag = Flag{
		Name:    "admin-user",
		EnvVar:  "ECOCOLETA_ADMIN_USER",
		Usage:   "administrator username",
		Default: "admin",
		Value:   &AdminUser,
	}
	AdminPasswordFlag = Flag{
		Name:    "admin-password",
		EnvVar:  "ECOCOLETA_ADMIN_PASSWORD",
		Usage:   "administrator password",
		Default: "12345",
		Value:   &AdminPassword,
	}
	SeedFlag = Flag{
		Name:    "seed",
		EnvVar:  "ECOCOLETA_SEED",
		Usage:   "load the demo collection points at startup",
		Default: true,
		Value:   &Seed,
	}
)

var validEnvs = []string{"local", "dev", "prod"}

var validLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// RegisterCommandFlags registers flags as persistent flags of cmd.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		if err := registerFlag(cmd.PersistentFlags(), f); err != nil {
			return errors.Wrapf(err, "register flag %s failed", f.Name)
		}
	}
	return nil
}

func registerFlag(fs *pflag.FlagSet, f *Flag) error {
	env, fromEnv := os.LookupEnv(f.EnvVar)
	usage := f.Usage + " (env " + f.EnvVar + ")"
	switch v := f.Value.(type) {
	case *string:
		def, ok := f.Default.(string)
		if !ok {
			return errors.New("default must be a string")
		}
		if fromEnv {
			def = env
		}
		fs.StringVar(v, f.Name, def, usage)
	case *uint:
		def, ok := f.Default.(uint)
		if !ok {
			return errors.New("default must be a uint")
		}
		if fromEnv {
			parsed, err := strconv.ParseUint(env, 10, 16)
			if err != nil {
				return errors.Wrapf(err, "parse %s failed", f.EnvVar)
			}
			def = uint(parsed)
		}
		fs.UintVar(v, f.Name, def, usage)
	case *bool:
		def, ok := f.Default.(bool)
		if !ok {
			return errors.New("default must be a bool")
		}
		if fromEnv {
			parsed, err := strconv.ParseBool(env)
			if err != nil {
				return errors.Wrapf(err, "parse %s failed", f.EnvVar)
			}
			def = parsed
		}
		fs.BoolVar(v, f.Name, def, usage)
	default:
		return errors.Errorf("unsupported flag value type %T", f.Value)
	}
	return nil
}

// ValidateEnv checks the shared settings once flags are parsed.
func ValidateEnv() error {
	if !oneOf(Env, validEnvs) {
		return errors.Errorf("invalid env %q, want one of %s", Env, strings.Join(validEnvs, ", "))
	}
	if !oneOf(strings.ToLower(LogLevel), validLogLevels) {
		return errors.Errorf("invalid log level %q, want one of %s", LogLevel, strings.Join(validLogLevels, ", "))
	}
	if Port == 0 || Port > 65535 {
		return errors.Errorf("invalid port %d", Port)
	}
	if HealthPort > 65535 {
		return errors.Errorf("invalid health port %d", HealthPort)
	}
	return nil
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
