package payload

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/crushlog/cldfqr/pkg/clid"
	"github.com/crushlog/cldfqr/pkg/logger"
)

// DefaultBaseURL is used for links when Options.BaseURL is empty.
const DefaultBaseURL = "https://crushlog.pro"

// Format selects the wire representation of a payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatURL  Format = "url"
	FormatURI  Format = "uri"
)

// ParseFormat accepts json, url or uri in any case. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatURL, FormatURI:
		return f, nil
	default:
		return "", errors.Newf("payload: unknown format %q", s)
	}
}

// Options controls what an encoded payload contains.
type Options struct {
	Format  Format
	BaseURL string

	// IncludeIPFS emits the content hash in JSON payloads. URI payloads
	// carry a configured hash regardless.
	IncludeIPFS bool
	ContentHash string
	// ArchiveData is hashed when ContentHash is empty.
	ArchiveData []byte

	// BlockchainRecord flags outdoor locations for on-chain recording.
	BlockchainRecord  bool
	BlockchainNetwork string

	// Location is embedded into route payloads.
	Location *Location
}

// DefaultOptions returns JSON payloads linking to DefaultBaseURL.
func DefaultOptions() Options {
	return Options{Format: FormatJSON, BaseURL: DefaultBaseURL}
}

func (o Options) baseURL() string {
	if o.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(o.BaseURL, "/")
}

func (o Options) format() Format {
	if o.Format == "" {
		return FormatJSON
	}
	return o.Format
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithClock replaces time.Now for the meta.created timestamp.
func WithClock(now func() time.Time) EncoderOption {
	return func(e *Encoder) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets the generator used for entities without a CLID.
// A nil generator makes such entities fail with a generation error.
func WithIDGenerator(g clid.Generator) EncoderOption {
	return func(e *Encoder) { e.ids = g }
}

func WithLogger(l *slog.Logger) EncoderOption {
	return func(e *Encoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func defaultEncoder() *Encoder {
	return &Encoder{
		now:    time.Now,
		ids:    clid.NewRandomGenerator(),
		logger: logger.Discard(),
	}
}
