package payload

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/crushlog/cldfqr/pkg/clid"
	"github.com/crushlog/cldfqr/pkg/contenthash"
	"github.com/crushlog/cldfqr/pkg/logger"
)

// Grade system names as they appear on the wire.
const (
	SystemVScale = "vScale"
	SystemFont   = "font"
	SystemYDS    = "yds"
	SystemFrench = "french"
	SystemUIAA   = "uiaa"
)

// Encoder turns routes and locations into payload text. It holds no mutable
// state and is safe for concurrent use.
type Encoder struct {
	now    func() time.Time
	ids    clid.Generator
	logger *slog.Logger
}

// NewEncoder returns an Encoder using the wall clock, random CLIDs and a
// discarding logger unless overridden.
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := defaultEncoder()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode dispatches on the entity type. A nil entity panics.
func (e *Encoder) Encode(entity Entity, opts Options) (string, error) {
	switch v := entity.(type) {
	case *Route:
		return e.EncodeRoute(v, opts)
	case *Location:
		return e.EncodeLocation(v, opts)
	default:
		panic("payload: Encode called with a nil entity")
	}
}

// EncodeRoute renders route in opts.Format. A nil route or a route without
// a name panics.
func (e *Encoder) EncodeRoute(route *Route, opts Options) (string, error) {
	env, err := e.BuildRoute(route, opts)
	if err != nil {
		return "", err
	}
	return Render(env, opts.format())
}

// EncodeLocation renders loc in opts.Format. The URI format does not
// support locations and fails with ErrUnsupportedFormat.
func (e *Encoder) EncodeLocation(loc *Location, opts Options) (string, error) {
	env, err := e.BuildLocation(loc, opts)
	if err != nil {
		return "", err
	}
	return Render(env, opts.format())
}

// BuildRoute assembles the envelope EncodeRoute renders.
func (e *Encoder) BuildRoute(route *Route, opts Options) (*Envelope, error) {
	if route == nil {
		panic("payload: nil route")
	}
	if strings.TrimSpace(route.Name) == "" {
		panic("payload: route has no name")
	}

	id, err := e.ensureCLID(route.CLID, clid.Route, route.Name)
	if err != nil {
		return nil, err
	}
	env, err := e.envelope(id, "g", opts)
	if err != nil {
		return nil, err
	}
	env.Route = routeInfo(route)
	if opts.Location != nil {
		env.Location = locationInfo(opts.Location)
	}
	env.Meta = e.meta(opts, opts.Location)
	return env, nil
}

// BuildLocation assembles the envelope EncodeLocation renders.
func (e *Encoder) BuildLocation(loc *Location, opts Options) (*Envelope, error) {
	if loc == nil {
		panic("payload: nil location")
	}

	id, err := e.ensureCLID(loc.CLID, clid.Location, loc.Name)
	if err != nil {
		return nil, err
	}
	env, err := e.envelope(id, "l", opts)
	if err != nil {
		return nil, err
	}
	env.Location = locationInfo(loc)
	env.Meta = e.meta(opts, loc)
	return env, nil
}

func (e *Encoder) envelope(id, linkPrefix string, opts Options) (*Envelope, error) {
	short := clid.ExtractShort(id)
	env := &Envelope{
		Version:        Version,
		CLID:           id,
		ShortCLID:      short,
		URL:            opts.baseURL() + "/" + linkPrefix + "/" + short,
		HasOfflineData: true,
	}

	hash := opts.ContentHash
	if hash == "" && len(opts.ArchiveData) > 0 {
		h, err := contenthash.Compute(opts.ArchiveData)
		if err != nil {
			return nil, NewError(KindGeneration, "compute content hash", "", err)
		}
		hash = h
	}
	if hash != "" && (opts.IncludeIPFS || opts.format() == FormatURI) {
		env.ContentHash = hash
	}
	return env, nil
}

func (e *Encoder) ensureCLID(id string, t clid.EntityType, name string) (string, error) {
	if id != "" {
		return id, nil
	}
	if e.ids == nil {
		return "", NewError(KindGeneration, "entity has no CLID and no generator is configured", name, nil)
	}
	gen, err := e.ids.GenerateRandom(t)
	if err != nil {
		return "", NewError(KindGeneration, "generate CLID", name, err)
	}
	e.logger.Warn("entity missing CLID, generated a random one",
		logger.Component("payload"),
		slog.String("entity", string(t)),
		slog.String("name", name),
		logger.CLID(gen.String()),
	)
	return gen.String(), nil
}

func (e *Encoder) meta(opts Options, loc *Location) *Meta {
	m := &Meta{Created: e.now().UnixMilli()}
	if opts.BlockchainRecord && loc != nil && !loc.Indoor {
		m.Blockchain = true
		m.Network = opts.BlockchainNetwork
	}
	return m
}

// SelectGrade picks the grade a payload shows. Boulders prefer V-scale then
// Fontainebleau; everything falls back to the first set grade among YDS,
// French, UIAA, V-scale and Fontainebleau.
func SelectGrade(r *Route) (value, system string, ok bool) {
	g := r.Grades
	if r.Type == RouteTypeBoulder {
		switch {
		case g.VScale != "":
			return g.VScale, SystemVScale, true
		case g.Font != "":
			return g.Font, SystemFont, true
		}
	}
	switch {
	case g.YDS != "":
		return g.YDS, SystemYDS, true
	case g.French != "":
		return g.French, SystemFrench, true
	case g.UIAA != "":
		return g.UIAA, SystemUIAA, true
	case g.VScale != "":
		return g.VScale, SystemVScale, true
	case g.Font != "":
		return g.Font, SystemFont, true
	}
	return "", "", false
}

func routeInfo(r *Route) *RouteInfo {
	info := &RouteInfo{
		ID:          r.ID,
		Name:        r.Name,
		Type:        strings.ToLower(string(r.Type)),
		Height:      r.Height,
		FirstAscent: r.FirstAscent,
	}
	if v, sys, ok := SelectGrade(r); ok {
		info.Grade, info.GradeSystem = v, sys
	}
	return info
}

func locationInfo(l *Location) *LocationInfo {
	return &LocationInfo{
		CLID:        l.CLID,
		ID:          l.ID,
		Name:        l.Name,
		Country:     l.Country,
		State:       l.State,
		City:        l.City,
		Indoor:      l.Indoor,
		Coordinates: l.Coordinates,
	}
}

// Render writes env in the requested wire format.
func Render(env *Envelope, f Format) (string, error) {
	switch f {
	case FormatJSON, "":
		return renderJSON(env)
	case FormatURL:
		if env.URL == "" {
			return "", NewError(KindGeneration, "envelope has no URL", env.CLID, nil)
		}
		return env.URL, nil
	case FormatURI:
		return renderURI(env)
	default:
		return "", NewError(KindGeneration, "unknown payload format", string(f), nil)
	}
}

func renderURI(env *Envelope) (string, error) {
	if env.Route == nil {
		return "", &Error{Kind: KindGeneration, Message: ErrUnsupportedFormat.Message, Details: "uri"}
	}
	id, ok := clid.ExtractUUID(env.CLID)
	if !ok {
		return "", NewError(KindGeneration, "invalid CLID format", env.CLID, nil)
	}

	var sb strings.Builder
	sb.WriteString("cldf://global/route/")
	sb.WriteString(id)
	sb.WriteString("?v=")
	sb.WriteString(strconv.Itoa(Version))
	query := func(key, value string) {
		if value == "" {
			return
		}
		sb.WriteString("&")
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(value))
	}
	query("cldf", env.ContentHash)
	query("name", env.Route.Name)
	if env.Route.Grade != "" && env.Route.GradeSystem != "" {
		query("grade", env.Route.Grade)
		query("gradeSystem", env.Route.GradeSystem)
	}
	return sb.String(), nil
}

// Wire structs. Field order is the emitted key order.
type (
	jsonEnvelope struct {
		V     string        `json:"v"`
		CLID  string        `json:"clid,omitempty"`
		URL   string        `json:"url,omitempty"`
		CLDF  string        `json:"cldf,omitempty"`
		Route *jsonRoute    `json:"route,omitempty"`
		Loc   *jsonLocation `json:"loc,omitempty"`
		Meta  *jsonMeta     `json:"meta,omitempty"`
	}
	jsonRoute struct {
		ID          int              `json:"id,omitempty"`
		Name        string           `json:"name,omitempty"`
		Grade       string           `json:"grade,omitempty"`
		GradeSystem string           `json:"gradeSystem,omitempty"`
		Type        string           `json:"type,omitempty"`
		Height      float64          `json:"height,omitempty"`
		FA          *jsonFirstAscent `json:"fa,omitempty"`
	}
	jsonFirstAscent struct {
		Name string `json:"name,omitempty"`
		Year int    `json:"year,omitempty"`
		Date string `json:"date,omitempty"`
	}
	jsonLocation struct {
		CLID    string      `json:"clid,omitempty"`
		ID      int         `json:"id,omitempty"`
		Name    string      `json:"name,omitempty"`
		Country string      `json:"country,omitempty"`
		State   string      `json:"state,omitempty"`
		City    string      `json:"city,omitempty"`
		Indoor  bool        `json:"indoor"`
		Coords  *jsonCoords `json:"coords,omitempty"`
	}
	jsonCoords struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	jsonMeta struct {
		Created    int64  `json:"created"`
		Blockchain bool   `json:"blockchain,omitempty"`
		Network    string `json:"network,omitempty"`
	}
)

func renderJSON(env *Envelope) (string, error) {
	out := jsonEnvelope{
		V:    strconv.Itoa(env.Version),
		CLID: env.CLID,
		URL:  env.URL,
		CLDF: env.ContentHash,
	}
	if r := env.Route; r != nil {
		out.Route = &jsonRoute{
			ID:     r.ID,
			Name:   r.Name,
			Type:   r.Type,
			Height: r.Height,
		}
		if r.Grade != "" && r.GradeSystem != "" {
			out.Route.Grade, out.Route.GradeSystem = r.Grade, r.GradeSystem
		}
		if fa := r.FirstAscent; fa != nil {
			out.Route.FA = &jsonFirstAscent{Name: fa.Name, Year: fa.Year, Date: fa.Date}
		}
	}
	if l := env.Location; l != nil {
		out.Loc = &jsonLocation{
			CLID:    l.CLID,
			ID:      l.ID,
			Name:    l.Name,
			Country: l.Country,
			State:   l.State,
			City:    l.City,
			Indoor:  l.Indoor,
		}
		if c := l.Coordinates; c != nil {
			out.Loc.Coords = &jsonCoords{Lat: c.Latitude, Lng: c.Longitude}
		}
	}
	if m := env.Meta; m != nil {
		out.Meta = &jsonMeta{Created: m.Created, Blockchain: m.Blockchain}
		if m.Blockchain {
			out.Meta.Network = m.Network
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", NewError(KindGeneration, "serialize payload", env.CLID, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
