package payload

import "github.com/crushlog/cldfqr/pkg/clid"

// RouteType distinguishes boulder problems from roped routes.
type RouteType string

const (
	RouteTypeRoute   RouteType = "route"
	RouteTypeBoulder RouteType = "boulder"
)

// Grades holds a route's grade in each supported system. Empty means unset.
type Grades struct {
	VScale string
	Font   string
	French string
	YDS    string
	UIAA   string
}

// IsZero reports whether no grade is set.
func (g Grades) IsZero() bool { return g == Grades{} }

// FirstAscent records who first climbed a route.
type FirstAscent struct {
	Name string
	Year int
	Date string
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Route is a climbing route or boulder problem.
type Route struct {
	ID          int
	CLID        string
	LocationID  int
	Name        string
	Type        RouteType
	Grades      Grades
	Height      float64
	FirstAscent *FirstAscent
}

// Location is a crag or gym.
type Location struct {
	ID          int
	CLID        string
	Name        string
	Country     string
	State       string
	City        string
	Indoor      bool
	Coordinates *Coordinates
}

// Entity is implemented by *Route and *Location.
type Entity interface {
	EntityType() clid.EntityType
}

func (*Route) EntityType() clid.EntityType    { return clid.Route }
func (*Location) EntityType() clid.EntityType { return clid.Location }
