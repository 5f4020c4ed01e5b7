// Package config loads configuration structs from environment variables
// and .env files.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for .env files:
//
//   - Load parses the process environment into any struct with env tags.
//   - LoadFrom parses an explicit variable map, which keeps tests hermetic.
//   - LoadFiles overlays the process environment on one or more .env files
//     without touching os.Environ.
//   - LoadEnv copies .env files into the process environment.
//   - MustLoad and MustLoadEnv panic on failure for start-up code.
//
// Loaders are stateless: each call parses again, so there is no cache to
// reset between tests.
//
// # Usage
//
//	type Config struct {
//		BaseURL string `env:"CLDF_QR_BASE_URL" envDefault:"https://crushlog.pro"`
//		Size    int    `env:"CLDF_QR_SIZE" envDefault:"256"`
//	}
//
//	var cfg Config
//	if err := config.LoadFiles(&cfg, ".env"); err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Parse failures are marked with ErrParsingConfig, unreadable files with
// ErrLoadingEnvFile and nil targets return ErrNilPointer. Use errors.Is to
// check for them.
package config
