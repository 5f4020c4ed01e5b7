package qr

import (
	"strings"

	"github.com/crushlog/cldfqr/pkg/logger"
	"github.com/crushlog/cldfqr/pkg/payload"
	"github.com/crushlog/cldfqr/pkg/qrcode"
)

// GenerateRoute encodes route as payload text and renders it. A nil route
// or a route without a name panics.
func (s *Service) GenerateRoute(route *payload.Route, opts GenerateOptions) (*Artifact, error) {
	env, err := s.encoder.BuildRoute(route, opts.Payload)
	if err != nil {
		return nil, err
	}
	return s.fromEnvelope(env, opts)
}

// GenerateLocation encodes loc as payload text and renders it. A nil
// location panics.
func (s *Service) GenerateLocation(loc *payload.Location, opts GenerateOptions) (*Artifact, error) {
	env, err := s.encoder.BuildLocation(loc, opts.Payload)
	if err != nil {
		return nil, err
	}
	return s.fromEnvelope(env, opts)
}

// GenerateText renders arbitrary payload text. Empty text panics.
func (s *Service) GenerateText(text string, opts GenerateOptions) (*Artifact, error) {
	if strings.TrimSpace(text) == "" {
		panic("qr: GenerateText called with empty text")
	}
	return s.artifact(text, opts)
}

func (s *Service) fromEnvelope(env *payload.Envelope, opts GenerateOptions) (*Artifact, error) {
	text, err := payload.Render(env, opts.Payload.Format)
	if err != nil {
		return nil, err
	}
	art, err := s.artifact(text, opts)
	if err != nil {
		return nil, err
	}
	art.Envelope = env
	return art, nil
}

func (s *Service) artifact(text string, opts GenerateOptions) (*Artifact, error) {
	output := opts.Output
	if output == "" {
		output = OutputPNG
	}
	if output != OutputPNG && output != OutputSVG {
		return nil, payload.NewError(payload.KindGeneration, "unknown output", string(output), nil)
	}

	bm, err := s.generator.Symbol(text, opts.Image)
	if err != nil {
		return nil, payload.NewError(payload.KindGeneration, "encode symbol", "", err)
	}

	art := &Artifact{Payload: text}
	switch output {
	case OutputSVG:
		art.SVG = qrcode.ToSVG(bm, opts.Image)
	default:
		png, err := s.generator.Render(bm, opts.Image)
		if err != nil {
			return nil, payload.NewError(payload.KindImage, "render png", "", err)
		}
		art.PNG = png
	}

	s.logger.Debug("artifact generated",
		logger.OutputFormat(string(output)),
		logger.Size(opts.Image.Size),
	)
	return art, nil
}
