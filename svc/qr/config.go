package qr

import (
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/crushlog/cldfqr/pkg/config"
	"github.com/crushlog/cldfqr/pkg/logger"
	"github.com/crushlog/cldfqr/pkg/payload"
	"github.com/crushlog/cldfqr/pkg/qrcode"
	"github.com/crushlog/cldfqr/pkg/raster"
)

// Config holds the service defaults read from the environment.
type Config struct {
	BaseURL         string                      `env:"CLDF_QR_BASE_URL" envDefault:"https://crushlog.pro"`
	Format          payload.Format              `env:"CLDF_QR_FORMAT" envDefault:"json"`
	Size            int                         `env:"CLDF_QR_SIZE" envDefault:"256"`
	Margin          int                         `env:"CLDF_QR_MARGIN" envDefault:"4"`
	ErrorCorrection qrcode.ErrorCorrectionLevel `env:"CLDF_QR_ERROR_CORRECTION" envDefault:"M"`
	Foreground      raster.RGB                  `env:"CLDF_QR_FOREGROUND" envDefault:"#000000"`
	Background      raster.RGB                  `env:"CLDF_QR_BACKGROUND" envDefault:"#ffffff"`

	// LogLevel enables service logging to stderr; empty keeps it off.
	LogLevel  string        `env:"CLDF_QR_LOG_LEVEL"`
	LogFormat logger.Format `env:"CLDF_QR_LOG_FORMAT" envDefault:"json"`
}

// DefaultConfig matches the envDefault tags.
func DefaultConfig() Config {
	img := qrcode.DefaultImageOptions()
	return Config{
		BaseURL:         payload.DefaultBaseURL,
		Format:          payload.FormatJSON,
		Size:            img.Size,
		Margin:          img.Margin,
		ErrorCorrection: img.ErrorCorrection,
		Foreground:      img.Foreground,
		Background:      img.Background,
		LogFormat:       logger.FormatJSON,
	}
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFrom reads Config from vars only.
func LoadConfigFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := config.LoadFrom(&cfg, vars); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalises the level and format and checks the image options.
func (c *Config) Validate() error {
	level, err := qrcode.ParseLevel(string(c.ErrorCorrection))
	if err != nil {
		return errors.Mark(err, config.ErrParsingConfig)
	}
	c.ErrorCorrection = level
	format, err := payload.ParseFormat(string(c.Format))
	if err != nil {
		return errors.Mark(err, config.ErrParsingConfig)
	}
	c.Format = format
	if err := c.ImageOptions().Validate(); err != nil {
		return errors.Mark(err, config.ErrParsingConfig)
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return errors.Mark(err, config.ErrParsingConfig)
		}
	}
	if c.LogFormat != "" {
		f, err := logger.ParseFormat(string(c.LogFormat))
		if err != nil {
			return errors.Mark(err, config.ErrParsingConfig)
		}
		c.LogFormat = f
	}
	return nil
}

// Logger builds the service logger described by LogLevel and LogFormat,
// writing to w. Without a level it returns a discarding logger.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := logger.ParseLevel(c.LogLevel)
	if c.LogLevel == "" || err != nil {
		return logger.Discard()
	}
	format := c.LogFormat
	if f, err := logger.ParseFormat(string(format)); err == nil {
		format = f
	} else {
		format = logger.FormatJSON
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(w),
		logger.WithAttr(slog.String("service", "cldfqr")),
	)
}

// ImageOptions returns the default image options with the configured
// overrides applied.
func (c Config) ImageOptions() qrcode.ImageOptions {
	o := qrcode.DefaultImageOptions()
	o.Size = c.Size
	o.Margin = c.Margin
	o.ErrorCorrection = c.ErrorCorrection
	o.Foreground = c.Foreground
	o.Background = c.Background
	return o
}

// PayloadOptions returns payload options for the configured base URL and
// format.
func (c Config) PayloadOptions() payload.Options {
	o := payload.DefaultOptions()
	if c.BaseURL != "" {
		o.BaseURL = c.BaseURL
	}
	if c.Format != "" {
		o.Format = c.Format
	}
	return o
}
