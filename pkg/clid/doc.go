// Package clid parses and generates CLIDs, the CrushLog identifiers that
// name climbing routes, locations and related entities.
//
// A CLID has the shape
//
//	clid:v1:<type>:<uuid>
//
// where type is one of the EntityType values (route, location, sector, ...)
// and uuid is a canonical RFC 4122 string.
//
// # Usage
//
//	id, err := clid.Parse("clid:v1:route:550e8400-e29b-41d4-a716-446655440000")
//	if err != nil {
//		return err
//	}
//	id.Type      // clid.Route
//	id.Short()   // "550e8400"
//
// ExtractShort is the lenient counterpart used when rendering links: it never
// fails and falls back to the input when nothing better can be derived.
//
// # Generation
//
// Generator abstracts identifier creation so callers can inject
// deterministic IDs in tests. RandomGenerator issues version 4 UUIDs.
//
// # Error Handling
//
// Parse returns ErrInvalidFormat, ErrUnsupportedVersion, ErrUnknownType or
// ErrInvalidUUID, each wrapped with the offending input.
package clid
