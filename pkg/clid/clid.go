package clid

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const (
	// Prefix precedes the type segment of every version 1 CLID.
	Prefix = "clid:v1:"

	// ShortLength is the number of UUID characters kept by ShortForm.
	ShortLength = 8

	scheme  = "clid"
	version = "v1"
)

// EntityType is the second segment of a CLID.
type EntityType string

const (
	Route    EntityType = "route"
	Location EntityType = "location"
	Sector   EntityType = "sector"
	Climb    EntityType = "climb"
	Session  EntityType = "session"
	Media    EntityType = "media"
)

var knownTypes = map[EntityType]struct{}{
	Route: {}, Location: {}, Sector: {}, Climb: {}, Session: {}, Media: {},
}

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

func (t EntityType) String() string { return string(t) }

// ID is a parsed CLID.
type ID struct {
	Type EntityType
	UUID uuid.UUID
}

// New builds an ID for the given type and UUID.
func New(t EntityType, id uuid.UUID) ID {
	return ID{Type: t, UUID: id}
}

// Parse parses a full CLID string.
func Parse(s string) (ID, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 || parts[0] != scheme {
		return ID{}, errors.Wrapf(ErrInvalidFormat, "%q", s)
	}
	if parts[1] != version {
		return ID{}, errors.Wrapf(ErrUnsupportedVersion, "%q", parts[1])
	}
	t := EntityType(parts[2])
	if !t.Valid() {
		return ID{}, errors.Wrapf(ErrUnknownType, "%q", parts[2])
	}
	u, err := uuid.Parse(parts[3])
	if err != nil {
		return ID{}, errors.Wrapf(ErrInvalidUUID, "%q: %v", parts[3], err)
	}
	return ID{Type: t, UUID: u}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical clid:v1:<type>:<uuid> form.
func (id ID) String() string {
	return Prefix + string(id.Type) + ":" + id.UUID.String()
}

// Short returns the first ShortLength characters of the UUID.
func (id ID) Short() string {
	return id.UUID.String()[:ShortLength]
}

// IsZero reports whether id was never set.
func (id ID) IsZero() bool {
	return id.Type == "" && id.UUID == uuid.Nil
}

// ExtractShort derives the short form used in links. A parseable CLID yields
// the first 8 UUID characters. Otherwise the text after "clid:v1:<type>:"
// is truncated the same way, and if the input has no such prefix it is
// returned unchanged.
func ExtractShort(s string) string {
	if id, err := Parse(s); err == nil {
		return id.Short()
	}
	if rest, ok := strings.CutPrefix(s, Prefix); ok {
		if _, tail, ok := strings.Cut(rest, ":"); ok && tail != "" {
			if len(tail) > ShortLength {
				return tail[:ShortLength]
			}
			return tail
		}
	}
	return s
}

// ExtractUUID returns the raw UUID segment of a CLID, if there is one.
func ExtractUUID(s string) (string, bool) {
	rest, ok := strings.CutPrefix(s, Prefix)
	if !ok {
		return "", false
	}
	_, tail, ok := strings.Cut(rest, ":")
	if !ok || tail == "" {
		return "", false
	}
	return tail, true
}
