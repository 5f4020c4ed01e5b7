// Package payload implements the CLDF QR payload protocol: the text stored
// inside a QR symbol that identifies a climbing route or location.
//
// Three wire formats carry the same information at different densities:
//
//	JSON  {"v":"1","clid":"clid:v1:route:…","url":"…","route":{…},"meta":{…}}
//	URL   https://crushlog.pro/g/550e8400
//	URI   cldf://global/route/550e8400-…?v=1&name=The+Nose&grade=5.14a&gradeSystem=yds
//
// JSON embeds route and location details for offline use, the URL is the
// shortest form and only resolves online, and the URI targets mobile apps.
//
// # Encoding
//
// An Encoder builds an Envelope from a Route or Location and renders it:
//
//	enc := payload.NewEncoder(payload.WithLogger(log))
//	text, err := enc.EncodeRoute(route, payload.Options{Format: payload.FormatJSON})
//
// JSON keys are written in a fixed order and absent fields are omitted, so
// output is byte-stable for a fixed clock (see WithClock). Entities without
// a CLID get a random one from the configured clid.Generator. Grades are
// chosen by SelectGrade and always travel with their system name.
//
// # Decoding
//
// Decode detects the format from the leading characters of the text:
// "{" is JSON, "http://" or "https://" a short link, "cldf://" a URI.
// ToRoute and ToLocation turn the resulting Envelope back into entities.
// A Decoder created with NewDecoder logs recoverable oddities; the package
// level functions use a discarding one.
//
// # Error Handling
//
// Failures on untrusted input are *Error values carrying a Kind. Match them
// with errors.Is against the sentinels:
//
//	env, err := payload.Decode(text)
//	switch {
//	case errors.Is(err, payload.ErrInvalidFormat):
//		// not a CLDF payload at all
//	case errors.Is(err, payload.ErrParse):
//		// a CLDF payload, but malformed
//	}
//
// Caller mistakes panic instead: a nil entity, a route without a name or a
// nil envelope passed to ToRoute.
package payload
