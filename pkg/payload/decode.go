package payload

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"

	"github.com/crushlog/cldfqr/pkg/logger"
)

var (
	urlPattern = regexp.MustCompile(`https?://[^/]+/([gl])/([a-zA-Z0-9-]+)`)
	uriPattern = regexp.MustCompile(`cldf://global/route/([a-zA-Z0-9-]+)`)
)

// Decoder parses payload text. The zero value is not usable; call
// NewDecoder.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder returns a Decoder that reports recoverable oddities (unknown
// grade systems, grades without a system) to l. A nil logger discards them.
func NewDecoder(l *slog.Logger) *Decoder {
	if l == nil {
		l = logger.Discard()
	}
	return &Decoder{logger: l}
}

var defaultDecoder = NewDecoder(nil)

// Decode parses text with a discarding logger. See Decoder.Decode.
func Decode(text string) (*Envelope, error) { return defaultDecoder.Decode(text) }

// Validate checks text with a discarding logger. See Decoder.Validate.
func Validate(text string) error { return defaultDecoder.Validate(text) }

// Decode detects the wire format of text and parses it. JSON objects,
// http(s) short links and cldf:// URIs are recognised; anything else fails
// with ErrInvalidFormat. A successful result always has a version of at
// least 1 and a CLID, URL or content hash.
func (d *Decoder) Decode(text string) (*Envelope, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, NewError(KindParse, "payload is empty", "", nil)
	}

	var (
		env *Envelope
		err error
	)
	switch {
	case strings.HasPrefix(trimmed, "{"):
		env, err = d.decodeJSON(trimmed)
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		env, err = decodeURL(trimmed)
	case strings.HasPrefix(trimmed, "cldf://"):
		env, err = d.decodeURI(trimmed)
	default:
		return nil, NewError(KindInvalidFormat, "unrecognized payload format", trimmed, nil)
	}
	if err != nil {
		return nil, err
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// Validate reports whether text decodes to a usable payload. Semantic gaps
// (version below 1, no CLID, URL or hash) fail with ErrValidation, malformed
// text with its parse error.
func (d *Decoder) Validate(text string) error {
	_, err := d.Decode(text)
	return err
}

func decodeURL(text string) (*Envelope, error) {
	m := urlPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, NewError(KindInvalidFormat, "unrecognized URL format", text, nil)
	}
	return &Envelope{Version: Version, URL: text, ShortCLID: m[2]}, nil
}

func (d *Decoder) decodeURI(text string) (*Envelope, error) {
	m := uriPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, NewError(KindInvalidFormat, "unrecognized URI format", text, nil)
	}
	env := &Envelope{
		Version: Version,
		URL:     text,
		CLID:    "clid:v1:route:" + m[1],
	}

	_, query, ok := strings.Cut(text, "?")
	if !ok {
		return env, nil
	}
	var (
		route    RouteInfo
		hasRoute bool
	)
	for _, param := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		switch key {
		case "cldf":
			env.ContentHash = unescape(value)
		case "name":
			route.Name, hasRoute = unescape(value), true
		case "grade":
			route.Grade, hasRoute = unescape(value), true
		case "gradeSystem":
			route.GradeSystem, hasRoute = unescape(value), true
		case "v":
			v, err := strconv.Atoi(value)
			if err != nil {
				return nil, NewError(KindParse, "invalid version in URI", value, err)
			}
			env.Version = v
		default:
			d.logger.Debug("ignoring unknown URI parameter", logger.Component("payload"), slog.String("key", key))
		}
	}
	if hasRoute {
		env.Route = &route
		env.HasOfflineData = true
	}
	return env, nil
}

func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}

func (d *Decoder) decodeJSON(text string) (*Envelope, error) {
	data := []byte(text)
	if !json.Valid(data) {
		return nil, NewError(KindParse, "invalid JSON in payload", text, nil)
	}

	env := &Envelope{Version: Version}
	var loc, locAlt *LocationInfo
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		var err error
		switch k := string(key); k {
		case "v":
			env.Version, err = versionValue(value, typ)
		case "clid":
			env.CLID, err = stringValue(k, value, typ)
		case "url":
			env.URL, err = stringValue(k, value, typ)
		case "cldf":
			env.ContentHash, err = stringValue(k, value, typ)
		case "route":
			env.Route, err = decodeRouteObject(value, typ)
		case "loc":
			loc, err = decodeLocationObject(value, typ)
		case "location":
			locAlt, err = decodeLocationObject(value, typ)
		case "meta":
			env.Meta, err = decodeMetaObject(value, typ)
		}
		return err
	})
	if err != nil {
		return nil, NewError(KindParse, "invalid JSON in payload", text, err)
	}

	env.Location = loc
	if env.Location == nil {
		env.Location = locAlt
	}
	if env.Meta != nil {
		env.BlockchainVerified = env.Meta.Blockchain
	}
	env.HasOfflineData = env.Route != nil || env.Location != nil
	return env, nil
}

func decodeRouteObject(data []byte, typ jsonparser.ValueType) (*RouteInfo, error) {
	if typ == jsonparser.Null {
		return nil, nil
	}
	if typ != jsonparser.Object {
		return nil, fieldTypeError("route", "object", typ)
	}
	r := &RouteInfo{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		var err error
		switch k := "route." + string(key); k {
		case "route.id":
			r.ID, err = intValue(k, value, typ)
		case "route.name":
			r.Name, err = stringValue(k, value, typ)
		case "route.grade":
			r.Grade, err = stringValue(k, value, typ)
		case "route.gradeSystem":
			r.GradeSystem, err = stringValue(k, value, typ)
		case "route.type":
			r.Type, err = stringValue(k, value, typ)
		case "route.height":
			r.Height, err = floatValue(k, value, typ)
		case "route.fa":
			r.FirstAscent, err = decodeFirstAscent(value, typ)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func decodeFirstAscent(data []byte, typ jsonparser.ValueType) (*FirstAscent, error) {
	if typ == jsonparser.Null {
		return nil, nil
	}
	if typ != jsonparser.Object {
		return nil, fieldTypeError("route.fa", "object", typ)
	}
	fa := &FirstAscent{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		var err error
		switch k := "route.fa." + string(key); k {
		case "route.fa.name":
			fa.Name, err = stringValue(k, value, typ)
		case "route.fa.year":
			fa.Year, err = intValue(k, value, typ)
		case "route.fa.date":
			fa.Date, err = stringValue(k, value, typ)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return fa, nil
}

func decodeLocationObject(data []byte, typ jsonparser.ValueType) (*LocationInfo, error) {
	if typ == jsonparser.Null {
		return nil, nil
	}
	if typ != jsonparser.Object {
		return nil, fieldTypeError("loc", "object", typ)
	}
	l := &LocationInfo{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		var err error
		switch k := "loc." + string(key); k {
		case "loc.clid":
			l.CLID, err = stringValue(k, value, typ)
		case "loc.id":
			l.ID, err = intValue(k, value, typ)
		case "loc.name":
			l.Name, err = stringValue(k, value, typ)
		case "loc.country":
			l.Country, err = stringValue(k, value, typ)
		case "loc.state":
			l.State, err = stringValue(k, value, typ)
		case "loc.city":
			l.City, err = stringValue(k, value, typ)
		case "loc.indoor":
			l.Indoor, err = boolValue(k, value, typ)
		case "loc.coords":
			l.Coordinates, err = decodeCoordinates(value, typ)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func decodeCoordinates(data []byte, typ jsonparser.ValueType) (*Coordinates, error) {
	if typ == jsonparser.Null {
		return nil, nil
	}
	if typ != jsonparser.Object {
		return nil, fieldTypeError("loc.coords", "object", typ)
	}
	c := &Coordinates{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		var err error
		switch k := "loc.coords." + string(key); k {
		case "loc.coords.lat":
			c.Latitude, err = floatValue(k, value, typ)
		case "loc.coords.lng":
			c.Longitude, err = floatValue(k, value, typ)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func decodeMetaObject(data []byte, typ jsonparser.ValueType) (*Meta, error) {
	if typ == jsonparser.Null {
		return nil, nil
	}
	if typ != jsonparser.Object {
		return nil, fieldTypeError("meta", "object", typ)
	}
	m := &Meta{}
	err := jsonparser.ObjectEach(data, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		var (
			err error
			n   int
		)
		switch k := "meta." + string(key); k {
		case "meta.created":
			n, err = intValue(k, value, typ)
			m.Created = int64(n)
		case "meta.timestamp":
			n, err = intValue(k, value, typ)
			m.Timestamp = int64(n)
		case "meta.blockchain":
			m.Blockchain, err = boolValue(k, value, typ)
		case "meta.verified":
			m.Verified, err = boolValue(k, value, typ)
		case "meta.network":
			m.Network, err = stringValue(k, value, typ)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// versionValue accepts "v" as a number or a numeric string.
func versionValue(data []byte, typ jsonparser.ValueType) (int, error) {
	switch typ {
	case jsonparser.Null:
		return Version, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, errors.Newf("field \"v\": %q is not a version number", s)
		}
		return v, nil
	default:
		return intValue("v", data, typ)
	}
}

func stringValue(key string, data []byte, typ jsonparser.ValueType) (string, error) {
	switch typ {
	case jsonparser.Null:
		return "", nil
	case jsonparser.String:
		return jsonparser.ParseString(data)
	default:
		return "", fieldTypeError(key, "string", typ)
	}
}

func intValue(key string, data []byte, typ jsonparser.ValueType) (int, error) {
	switch typ {
	case jsonparser.Null:
		return 0, nil
	case jsonparser.Number:
		n, err := jsonparser.ParseInt(data)
		if err != nil {
			f, ferr := jsonparser.ParseFloat(data)
			if ferr != nil {
				return 0, errors.Wrapf(err, "field %q", key)
			}
			return int(f), nil
		}
		return int(n), nil
	default:
		return 0, fieldTypeError(key, "number", typ)
	}
}

func floatValue(key string, data []byte, typ jsonparser.ValueType) (float64, error) {
	switch typ {
	case jsonparser.Null:
		return 0, nil
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(data)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q", key)
		}
		return f, nil
	default:
		return 0, fieldTypeError(key, "number", typ)
	}
}

func boolValue(key string, data []byte, typ jsonparser.ValueType) (bool, error) {
	switch typ {
	case jsonparser.Null:
		return false, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(data)
	default:
		return false, fieldTypeError(key, "boolean", typ)
	}
}

func fieldTypeError(key, want string, got jsonparser.ValueType) error {
	return errors.Newf("field %q: expected %s, got %s", key, want, got)
}
