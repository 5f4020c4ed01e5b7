package qr

import (
	"bytes"

	"github.com/crushlog/cldfqr/pkg/logger"
	"github.com/crushlog/cldfqr/pkg/payload"
	"github.com/crushlog/cldfqr/pkg/qrcode"
	"github.com/crushlog/cldfqr/pkg/raster"
)

// ScanEnvelope reads payload text from a PNG image, an SVG document or
// raw text and decodes it. Image failures are ScanError.
func (s *Service) ScanEnvelope(input []byte) (*payload.Envelope, error) {
	text, err := s.text(input)
	if err != nil {
		return nil, err
	}
	env, err := s.decoder.Decode(text)
	if err != nil {
		s.logger.Debug("payload rejected", logger.Kind(string(payload.KindOf(err))))
		return nil, err
	}
	return env, nil
}

// Scan returns the entity carried by input: the route when the payload
// has one, otherwise the location. Payloads with neither are MissingData.
func (s *Service) Scan(input []byte) (payload.Entity, error) {
	env, err := s.ScanEnvelope(input)
	if err != nil {
		return nil, err
	}
	switch {
	case env.Route != nil:
		route, err := s.decoder.ToRoute(env)
		if err != nil {
			return nil, err
		}
		return route, nil
	case env.Location != nil:
		loc, err := s.decoder.ToLocation(env)
		if err != nil {
			return nil, err
		}
		return loc, nil
	default:
		return nil, payload.NewError(payload.KindMissingData, "payload carries no entity data", env.CLID, nil)
	}
}

// ScanRoute scans input and maps it to a route.
func (s *Service) ScanRoute(input []byte) (*payload.Route, error) {
	env, err := s.ScanEnvelope(input)
	if err != nil {
		return nil, err
	}
	return s.decoder.ToRoute(env)
}

// ScanLocation scans input and maps it to a location.
func (s *Service) ScanLocation(input []byte) (*payload.Location, error) {
	env, err := s.ScanEnvelope(input)
	if err != nil {
		return nil, err
	}
	return s.decoder.ToLocation(env)
}

// Validate checks payload text without materialising an entity.
func (s *Service) Validate(text string) error {
	return s.decoder.Validate(text)
}

func (s *Service) text(input []byte) (string, error) {
	if !isImage(input) {
		return string(input), nil
	}
	text, err := s.generator.Scan(input)
	if err == nil {
		return text, nil
	}
	msg := "unreadable image"
	if qrcode.IsDecodeFailure(err) {
		msg = "no QR code found in image"
	}
	s.logger.Debug("image scan failed", logger.Error(err))
	return "", payload.NewError(payload.KindScan, msg, "", err)
}

func isImage(input []byte) bool {
	if raster.IsPNG(input) {
		return true
	}
	trimmed := bytes.TrimSpace(input)
	return len(trimmed) > 0 && trimmed[0] == '<' && qrcode.IsSVG(trimmed)
}
