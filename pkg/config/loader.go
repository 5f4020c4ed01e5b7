package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// Load parses the process environment into v using its env struct tags.
// Every call parses afresh; nothing is cached between calls.
//
// Example:
//
//	type QRConfig struct {
//		BaseURL string `env:"CLDF_QR_BASE_URL" envDefault:"https://crushlog.pro"`
//		Size    int    `env:"CLDF_QR_SIZE" envDefault:"256"`
//	}
//
//	var cfg QRConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	return LoadFrom(v, environ())
}

// LoadFrom parses the given variables, and only those, into v.
func LoadFrom[T any](v *T, vars map[string]string) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.ParseWithOptions(v, env.Options{Environment: vars}); err != nil {
		return errors.Wrapf(ErrParsingConfig, "%T: %v", v, err)
	}
	return nil
}

// LoadFiles parses v from the process environment overlaid on the given
// .env files. Process variables win over file values and later files win
// over earlier ones. The process environment itself is not modified.
func LoadFiles[T any](v *T, paths ...string) error {
	if v == nil {
		return ErrNilPointer
	}
	vars := make(map[string]string)
	for _, p := range paths {
		fileVars, err := godotenv.Read(p)
		if err != nil {
			return errors.Wrapf(ErrLoadingEnvFile, "%s: %v", p, err)
		}
		for k, val := range fileVars {
			vars[k] = val
		}
	}
	for k, val := range environ() {
		vars[k] = val
	}
	return LoadFrom(v, vars)
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. With no paths it reads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Wrapf(ErrLoadingEnvFile, "%v", err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("Failed to load env files: %v", err))
	}
}

func environ() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}
