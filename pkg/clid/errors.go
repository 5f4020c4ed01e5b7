package clid

import "github.com/cockroachdb/errors"

var (
	ErrInvalidFormat      = errors.New("clid: invalid format")
	ErrUnsupportedVersion = errors.New("clid: unsupported version")
	ErrUnknownType        = errors.New("clid: unknown entity type")
	ErrInvalidUUID        = errors.New("clid: invalid uuid")
)
