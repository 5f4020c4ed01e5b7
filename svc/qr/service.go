package qr

import (
	"log/slog"
	"os"

	"github.com/crushlog/cldfqr/pkg/logger"
	"github.com/crushlog/cldfqr/pkg/payload"
	"github.com/crushlog/cldfqr/pkg/qrcode"
)

// Output selects the artefact produced by the Generate methods.
type Output string

const (
	OutputPNG Output = "png"
	OutputSVG Output = "svg"
)

// Artifact is the result of a generation. Exactly one of PNG and SVG is
// set, matching the requested Output. Envelope is nil for GenerateText.
type Artifact struct {
	Payload  string
	Envelope *payload.Envelope
	PNG      []byte
	SVG      string
}

// GenerateOptions combine the payload and image settings of one call.
type GenerateOptions struct {
	Payload payload.Options
	Image   qrcode.ImageOptions
	Output  Output
}

// Service turns climbing entities into QR artefacts and back. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	cfg       Config
	encoder   *payload.Encoder
	decoder   *payload.Decoder
	generator *qrcode.Generator
	logger    *slog.Logger

	encoderOpts   []payload.EncoderOption
	generatorOpts []qrcode.Option
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig replaces the defaults used by DefaultOptions and the logging
// settings.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithEncoderOptions passes options to the payload encoder.
func WithEncoderOptions(opts ...payload.EncoderOption) Option {
	return func(s *Service) { s.encoderOpts = append(s.encoderOpts, opts...) }
}

// WithSymbolEncoder replaces the QR symbol encoder.
func WithSymbolEncoder(e qrcode.SymbolEncoder) Option {
	return func(s *Service) { s.generatorOpts = append(s.generatorOpts, qrcode.WithSymbolEncoder(e)) }
}

// WithSymbolDecoder replaces the QR symbol decoder.
func WithSymbolDecoder(d qrcode.SymbolDecoder) Option {
	return func(s *Service) { s.generatorOpts = append(s.generatorOpts, qrcode.WithSymbolDecoder(d)) }
}

// WithFileReader replaces the reader used to load logos.
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(s *Service) { s.generatorOpts = append(s.generatorOpts, qrcode.WithFileReader(fn)) }
}

// New builds a Service. Without options it uses DefaultConfig and skip2
// and gozxing for symbols. Unless WithLogger is given, the logger comes
// from Config.Logger, which discards records when no level is configured.
func New(opts ...Option) *Service {
	s := &Service{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = s.cfg.Logger(os.Stderr)
	}
	base := s.logger
	s.logger = base.With(logger.Component("qr"))

	s.encoder = payload.NewEncoder(append([]payload.EncoderOption{payload.WithLogger(base)}, s.encoderOpts...)...)
	s.decoder = payload.NewDecoder(base)
	s.generator = qrcode.NewGenerator(append([]qrcode.Option{qrcode.WithLogger(base)}, s.generatorOpts...)...)
	return s
}

// Config returns the configuration the service was built with.
func (s *Service) Config() Config { return s.cfg }

// DefaultOptions derives GenerateOptions from the configuration with PNG
// output.
func (s *Service) DefaultOptions() GenerateOptions {
	return GenerateOptions{
		Payload: s.cfg.PayloadOptions(),
		Image:   s.cfg.ImageOptions(),
		Output:  OutputPNG,
	}
}
