package payload

import (
	"log/slog"
	"strings"

	"github.com/crushlog/cldfqr/pkg/logger"
)

// ToRoute maps env with a discarding logger. See Decoder.ToRoute.
func ToRoute(env *Envelope) (*Route, error) { return defaultDecoder.ToRoute(env) }

// ToLocation maps env with a discarding logger. See Decoder.ToLocation.
func ToLocation(env *Envelope) (*Location, error) { return defaultDecoder.ToLocation(env) }

// ToRoute materialises the embedded route. It fails with ErrMissingData
// when env has no route and with ErrParse when the route has no name.
// The grade is stored under its declared system; unknown systems are kept
// as YDS and a grade without a system is dropped.
func (d *Decoder) ToRoute(env *Envelope) (*Route, error) {
	if env == nil {
		panic("payload: ToRoute called with a nil envelope")
	}
	info := env.Route
	if info == nil {
		return nil, NewError(KindMissingData, "no route data found in payload", env.CLID, nil)
	}
	if strings.TrimSpace(info.Name) == "" {
		return nil, NewError(KindParse, "failed to convert to route", "route name is missing", nil)
	}

	r := &Route{
		ID:          info.ID,
		CLID:        env.CLID,
		Name:        info.Name,
		Height:      info.Height,
		FirstAscent: info.FirstAscent,
	}
	if info.Type != "" {
		r.Type = RouteTypeRoute
		if strings.EqualFold(info.Type, string(RouteTypeBoulder)) {
			r.Type = RouteTypeBoulder
		}
	}
	switch {
	case info.Grade != "" && info.GradeSystem != "":
		r.Grades = d.gradesFor(info.Grade, info.GradeSystem)
	case info.Grade != "":
		d.logger.Warn("grade without grade system, ignoring",
			logger.Component("payload"), logger.CLID(env.CLID), slog.String("grade", info.Grade))
	}
	if env.Location != nil {
		r.LocationID = env.Location.ID
	}
	return r, nil
}

// ToLocation materialises the embedded location, failing with
// ErrMissingData when there is none and ErrParse when it has no name.
func (d *Decoder) ToLocation(env *Envelope) (*Location, error) {
	if env == nil {
		panic("payload: ToLocation called with a nil envelope")
	}
	info := env.Location
	if info == nil {
		return nil, NewError(KindMissingData, "no location data found in payload", env.CLID, nil)
	}
	if strings.TrimSpace(info.Name) == "" {
		return nil, NewError(KindParse, "failed to convert to location", "location name is missing", nil)
	}
	id := info.CLID
	if id == "" && env.Route == nil {
		// Location payloads carry the location's own CLID at the top level.
		id = env.CLID
	}
	return &Location{
		ID:          info.ID,
		CLID:        id,
		Name:        info.Name,
		Country:     info.Country,
		State:       info.State,
		City:        info.City,
		Indoor:      info.Indoor,
		Coordinates: info.Coordinates,
	}, nil
}

func (d *Decoder) gradesFor(grade, system string) Grades {
	var g Grades
	switch strings.ToLower(system) {
	case "vscale", "v_scale":
		g.VScale = grade
	case "font", "fontainebleau":
		g.Font = grade
	case "french":
		g.French = grade
	case "yds":
		g.YDS = grade
	case "uiaa":
		g.UIAA = grade
	default:
		d.logger.Warn("unknown grade system, storing as YDS",
			logger.Component("payload"), slog.String("system", system))
		g.YDS = grade
	}
	return g
}
