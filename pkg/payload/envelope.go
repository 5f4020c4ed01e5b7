package payload

// Version is the protocol version this package emits.
const Version = 1

// Envelope is the protocol-neutral form of a payload, whichever wire format
// it came from.
type Envelope struct {
	Version     int
	CLID        string
	ShortCLID   string
	URL         string
	ContentHash string
	Route       *RouteInfo
	Location    *LocationInfo
	Meta        *Meta

	// HasOfflineData is set when route or location details are embedded,
	// so the payload is usable without a network lookup.
	HasOfflineData     bool
	BlockchainVerified bool
}

// RouteInfo is the route object embedded in a payload.
type RouteInfo struct {
	ID          int
	Name        string
	Grade       string
	GradeSystem string
	Type        string
	Height      float64
	FirstAscent *FirstAscent
}

// LocationInfo is the location object embedded in a payload.
type LocationInfo struct {
	CLID        string
	ID          int
	Name        string
	Country     string
	State       string
	City        string
	Indoor      bool
	Coordinates *Coordinates
}

// Meta carries generation metadata.
type Meta struct {
	// Created is a Unix timestamp in milliseconds.
	Created    int64
	Blockchain bool
	Network    string
	Verified   bool
	Timestamp  int64
}

func (e *Envelope) validate() error {
	if e.Version < 1 {
		return NewError(KindValidation, "invalid or missing version", "", nil)
	}
	if e.CLID == "" && e.URL == "" && e.ContentHash == "" {
		return NewError(KindValidation, "payload must contain a CLID, URL or content hash", "", nil)
	}
	return nil
}
